package backup

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler streams a full snapshot of the dataset for download.
type Handler struct {
	Store *store.Store
	Now   func() time.Time
}

// Create handles POST /api/backup.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Store.Export()
	if err != nil {
		common.WriteError(w, err)
		return
	}

	name := fmt.Sprintf("backup-%s.json", h.now().UTC().Format("2006-01-02_15-04-05"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
