package assistant

import (
	"strings"
	"testing"

	"github.com/yairmaster/mastercode-api/internal/store"
)

func testDataset() *store.Dataset {
	return &store.Dataset{
		Clients: []store.Client{{ID: 1, ProjectsCount: 2}, {ID: 2}},
		Projects: []store.Project{
			{ID: 1, Status: store.ProjectStatusActive},
			{ID: 2, Status: store.ProjectStatusDone, Paid: true},
		},
		Income:   []store.IncomeEntry{{ID: 1, Amount: 500}, {ID: 2, Amount: 400}},
		Expenses: []store.ExpenseEntry{{ID: 1, Amount: 150}},
		Tasks: []store.Task{
			{ID: 1, Status: store.TaskStatusOpen},
			{ID: 2, Status: store.TaskStatusDone},
		},
		Leads: []store.Lead{
			{ID: 1, Status: store.LeadStatusNew},
			{ID: 2, Status: store.LeadStatusWorking},
			{ID: 3, Status: store.LeadStatusConverted},
		},
	}
}

func TestReplyClientCount(t *testing.T) {
	r := New()
	snap := Snapshot{Clients: 4, ClientsWithProjects: 2}
	got := r.Reply("כמה לקוחות יש לי?", snap)
	if !strings.Contains(got, "4 לקוחות") {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestReplyIncome(t *testing.T) {
	r := New()
	snap := Snapshot{TotalIncome: 3200, TotalExpenses: 300}
	got := r.Reply("מה ההכנסות שלי?", snap)
	if !strings.Contains(got, "₪3200") || !strings.Contains(got, "₪2900") {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestReplyMatchesCaseInsensitively(t *testing.T) {
	r := Responder{Rules: []Rule{{
		Match:   func(m string) bool { return strings.Contains(m, "status") },
		Respond: func(Snapshot) string { return "ok" },
	}}}
	if got := r.Reply("STATUS?", Snapshot{}); got != "ok" {
		t.Fatalf("expected rule match, got %q", got)
	}
}

func TestReplyFallsBackToHelp(t *testing.T) {
	r := New()
	got := r.Reply("מה השעה?", Snapshot{})
	if got != helpReply {
		t.Fatalf("expected help fallback, got %q", got)
	}
}

func TestRecommendations(t *testing.T) {
	r := New()

	busy := Snapshot{OpenTasks: 7, UnpaidProjects: 2, NewLeads: 5}
	got := r.Reply("יש לך המלצות בשבילי?", busy)
	for _, want := range []string{"משימות פתוחות", "שטרם שולמו", "לידים חדשים"} {
		if !strings.Contains(got, want) {
			t.Fatalf("reply %q missing %q", got, want)
		}
	}

	calm := r.Reply("המלצות", Snapshot{})
	if !strings.Contains(calm, "מצוין") {
		t.Fatalf("expected all-clear reply, got %q", calm)
	}
}

func TestSnapshotOf(t *testing.T) {
	d := testDataset()
	s := SnapshotOf(d)
	if s.Clients != 2 || s.ClientsWithProjects != 1 {
		t.Fatalf("client counts wrong: %+v", s)
	}
	if s.ActiveProjects != 1 || s.CompletedProjects != 1 || s.UnpaidProjects != 1 {
		t.Fatalf("project counts wrong: %+v", s)
	}
	if s.TotalIncome != 900 || s.TotalExpenses != 150 {
		t.Fatalf("money totals wrong: %+v", s)
	}
	if s.OpenTasks != 1 || s.CompletedTasks != 1 {
		t.Fatalf("task counts wrong: %+v", s)
	}
	if s.NewLeads != 1 || s.ActiveLeads != 2 {
		t.Fatalf("lead counts wrong: %+v", s)
	}
}
