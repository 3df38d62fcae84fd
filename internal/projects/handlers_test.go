package projects_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/projects"
	"github.com/yairmaster/mastercode-api/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) (*chi.Mux, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "data.json"), store.Settings{BusinessName: "עסק"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Update(func(d *store.Dataset) error {
		d.Clients = append(d.Clients, store.Client{ID: 1, Name: "ישראל ישראלי"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uploadDir := filepath.Join(dir, "uploads")
	handler := &projects.Handler{Store: s, UploadDir: uploadDir, Now: fixedNow, Log: zerolog.Nop()}
	r := chi.NewRouter()
	r.Get("/api/projects", handler.List)
	r.Post("/api/projects", handler.Create)
	r.Put("/api/projects/{id}/status", handler.UpdateStatus)
	r.Put("/api/projects/{id}/paid", handler.MarkPaid)
	r.Delete("/api/projects/{id}", handler.Delete)
	return r, s, uploadDir
}

func createProject(t *testing.T, r *chi.Mux) store.Project {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/projects",
		strings.NewReader(`{"client_id": 1, "type": "אתר תדמית", "price": 4500}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("create status %d: %s", rr.Code, rr.Body.String())
	}
	var created store.Project
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return created
}

func TestCreateProject(t *testing.T) {
	r, s, _ := newFixture(t)
	created := createProject(t, r)

	if created.ID != 1 || created.ClientName != "ישראל ישראלי" {
		t.Fatalf("unexpected project %+v", created)
	}
	if created.Status != store.ProjectStatusActive {
		t.Fatalf("status = %q", created.Status)
	}
	if err := s.View(func(d *store.Dataset) error {
		if d.Clients[0].ProjectsCount != 1 {
			t.Fatalf("client counter = %d, want 1", d.Clients[0].ProjectsCount)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestCreateProjectUnknownClient(t *testing.T) {
	r, _, _ := newFixture(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/projects",
		strings.NewReader(`{"client_id": 42, "type": "אתר", "price": 100}`)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateStatusStampsCompletion(t *testing.T) {
	r, _, _ := newFixture(t)
	createProject(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/projects/1/status",
		strings.NewReader(`{"status": "`+store.ProjectStatusDone+`"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var updated store.Project
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != store.ProjectStatusDone || updated.DateCompleted == "" {
		t.Fatalf("completion not stamped: %+v", updated)
	}
}

func TestMarkPaidRecordsIncome(t *testing.T) {
	r, s, _ := newFixture(t)
	createProject(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/projects/1/paid", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}

	if err := s.View(func(d *store.Dataset) error {
		p := d.Projects[0]
		if !p.Paid || p.PaymentDate == "" {
			t.Fatalf("project not marked paid: %+v", p)
		}
		if d.Clients[0].TotalPaid != 4500 {
			t.Fatalf("client total paid = %v", d.Clients[0].TotalPaid)
		}
		if len(d.Income) != 1 || d.Income[0].Amount != 4500 || d.Income[0].Category != "פרויקט" {
			t.Fatalf("income entry missing or wrong: %+v", d.Income)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestDeleteProjectRemovesUploads(t *testing.T) {
	r, s, uploadDir := newFixture(t)
	createProject(t, r)

	projectDir := filepath.Join(uploadDir, "projects", "1")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/projects/1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}

	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		t.Fatal("upload dir should be removed with the project")
	}
	if err := s.View(func(d *store.Dataset) error {
		if len(d.Projects) != 0 {
			t.Fatalf("project not removed")
		}
		if d.Clients[0].ProjectsCount != 0 {
			t.Fatalf("client counter = %d, want 0", d.Clients[0].ProjectsCount)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}
