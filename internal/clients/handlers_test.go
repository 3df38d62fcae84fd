package clients_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/clients"
	"github.com/yairmaster/mastercode-api/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "data.json"), store.Settings{BusinessName: "עסק"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func newRouter(s *store.Store) *chi.Mux {
	handler := &clients.Handler{Store: s, Now: func() time.Time {
		return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	}}
	r := chi.NewRouter()
	r.Get("/api/clients", handler.List)
	r.Post("/api/clients", handler.Create)
	r.Delete("/api/clients/{id}", handler.Delete)
	return r
}

func TestCreateAndListClients(t *testing.T) {
	r := newRouter(newTestStore(t))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/clients",
		strings.NewReader(`{"name": "ישראל ישראלי", "phone": "050-000-0000", "source": "המלצה"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("create status %d: %s", rr.Code, rr.Body.String())
	}
	var created store.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.Name != "ישראל ישראלי" {
		t.Fatalf("unexpected client %+v", created)
	}
	if created.DateAdded != "2025-03-09 12:00:00" {
		t.Fatalf("date added = %q", created.DateAdded)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	var list []store.Client
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 client, got %d", len(list))
	}
}

func TestCreateClientRequiresName(t *testing.T) {
	r := newRouter(newTestStore(t))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(`{"phone": "050"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteClientBlockedByProjects(t *testing.T) {
	s := newTestStore(t)
	if err := s.Update(func(d *store.Dataset) error {
		d.Clients = append(d.Clients, store.Client{ID: 1, Name: "לקוח"})
		d.Projects = append(d.Projects, store.Project{ID: 1, ClientID: 1})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newRouter(s)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/clients/1", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for referenced client, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/clients/99", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for absent client, got %d", rr.Code)
	}
}

func TestDeleteClient(t *testing.T) {
	s := newTestStore(t)
	if err := s.Update(func(d *store.Dataset) error {
		d.Clients = append(d.Clients, store.Client{ID: 1, Name: "לקוח"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newRouter(s)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/clients/1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status %d", rr.Code)
	}
	if err := s.View(func(d *store.Dataset) error {
		if len(d.Clients) != 0 {
			t.Fatalf("client not removed: %+v", d.Clients)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}
