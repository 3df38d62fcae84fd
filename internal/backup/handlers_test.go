package backup_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/backup"
	"github.com/yairmaster/mastercode-api/internal/store"
)

func TestCreateBackup(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "data.json"), store.Settings{BusinessName: "עסק"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Update(func(d *store.Dataset) error {
		d.Clients = append(d.Clients, store.Client{ID: 1, Name: "לקוח"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := &backup.Handler{Store: s, Now: func() time.Time {
		return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	}}
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/backup", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	disposition := rr.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "backup-2025-03-09_12-00-00.json") {
		t.Fatalf("unexpected disposition %q", disposition)
	}

	var snapshot store.Dataset
	if err := json.Unmarshal(rr.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if len(snapshot.Clients) != 1 || snapshot.Settings.BusinessName != "עסק" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}
