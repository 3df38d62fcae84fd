package assistant

import (
	"fmt"
	"strings"

	"github.com/yairmaster/mastercode-api/internal/store"
)

// Snapshot is the reduced view of the dataset the responder answers from.
type Snapshot struct {
	Clients             int
	ClientsWithProjects int
	ActiveProjects      int
	CompletedProjects   int
	UnpaidProjects      int
	TotalIncome         float64
	TotalExpenses       float64
	OpenTasks           int
	CompletedTasks      int
	NewLeads            int
	ActiveLeads         int
}

// SnapshotOf reduces the dataset to the numbers the responder needs.
func SnapshotOf(d *store.Dataset) Snapshot {
	var s Snapshot
	s.Clients = len(d.Clients)
	for _, c := range d.Clients {
		if c.ProjectsCount > 0 {
			s.ClientsWithProjects++
		}
	}
	for _, p := range d.Projects {
		switch p.Status {
		case store.ProjectStatusActive:
			s.ActiveProjects++
		case store.ProjectStatusDone:
			s.CompletedProjects++
		}
		if !p.Paid {
			s.UnpaidProjects++
		}
	}
	for _, e := range d.Income {
		s.TotalIncome += e.Amount
	}
	for _, e := range d.Expenses {
		s.TotalExpenses += e.Amount
	}
	for _, t := range d.Tasks {
		switch t.Status {
		case store.TaskStatusOpen:
			s.OpenTasks++
		case store.TaskStatusDone:
			s.CompletedTasks++
		}
	}
	for _, l := range d.Leads {
		switch l.Status {
		case store.LeadStatusNew:
			s.NewLeads++
			s.ActiveLeads++
		case store.LeadStatusWorking:
			s.ActiveLeads++
		}
	}
	return s
}

// Rule pairs a predicate over the free-text message with a response
// built from the snapshot. Rules are evaluated in order; the first
// match wins. This is a scripted responder, not a learning system.
type Rule struct {
	Match   func(message string) bool
	Respond func(s Snapshot) string
}

// Responder answers chat messages from an ordered rule set.
type Responder struct {
	Rules []Rule
}

// Reply evaluates the rules against the message and falls back to the
// help text when nothing matches.
func (r Responder) Reply(message string, snap Snapshot) string {
	lowered := strings.ToLower(message)
	for _, rule := range r.Rules {
		if rule.Match(lowered) {
			return rule.Respond(snap)
		}
	}
	return helpReply
}

// New returns a responder with the default rule set.
func New() Responder {
	return Responder{Rules: defaultRules()}
}

const helpReply = `אני כאן לעזור! תוכל לשאול אותי על:
📊 סטטיסטיקות (לקוחות, פרויקטים, הכנסות)
💡 המלצות לשיפור
📈 ניתוח ביצועים
🎯 סטטוס משימות ופרויקטים

פשוט תשאל ואני אענה על בסיס הנתונים במערכת!`

func containsAny(message string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

func defaultRules() []Rule {
	return []Rule{
		{
			Match: func(m string) bool { return containsAny(m, "כמה לקוחות", "מספר לקוחות") },
			Respond: func(s Snapshot) string {
				return fmt.Sprintf("יש לך %d לקוחות במערכת. %d מהם עם פרויקטים פעילים.", s.Clients, s.ClientsWithProjects)
			},
		},
		{
			Match: func(m string) bool { return containsAny(m, "הכנסות", "רווחים") },
			Respond: func(s Snapshot) string {
				profit := s.TotalIncome - s.TotalExpenses
				return fmt.Sprintf("סה\"כ הכנסות: ₪%.0f\nסה\"כ הוצאות: ₪%.0f\nרווח נקי: ₪%.0f", s.TotalIncome, s.TotalExpenses, profit)
			},
		},
		{
			Match: func(m string) bool { return containsAny(m, "פרויקטים") },
			Respond: func(s Snapshot) string {
				return fmt.Sprintf("יש לך %d פרויקטים פעילים ו-%d פרויקטים שהושלמו. %d פרויקטים ממתינים לתשלום.", s.ActiveProjects, s.CompletedProjects, s.UnpaidProjects)
			},
		},
		{
			Match: func(m string) bool { return containsAny(m, "משימות") },
			Respond: func(s Snapshot) string {
				return fmt.Sprintf("יש לך %d משימות פתוחות ו-%d משימות שהושלמו.", s.OpenTasks, s.CompletedTasks)
			},
		},
		{
			Match: func(m string) bool { return containsAny(m, "המלצות", "שיפור") },
			Respond: func(s Snapshot) string {
				var recs []string
				if s.OpenTasks > 5 {
					recs = append(recs, "📌 יש לך מעל 5 משימות פתוחות - כדאי לסדר עדיפויות")
				}
				if s.UnpaidProjects > 0 {
					recs = append(recs, "💰 יש פרויקטים שטרם שולמו - כדאי לעקוב אחרי התשלומים")
				}
				if s.NewLeads > 3 {
					recs = append(recs, "🎯 יש לידים חדשים שממתינים לטיפול")
				}
				if len(recs) == 0 {
					return "✨ הכל נראה מצוין! המשך בעבודה הטובה!"
				}
				return "המלצות לשיפור:\n\n" + strings.Join(recs, "\n")
			},
		},
	}
}
