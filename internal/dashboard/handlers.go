package dashboard

import (
	"net/http"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the dashboard aggregates and the raw dataset.
type Handler struct {
	Svc *Service
}

// Overview handles GET /api/dashboard.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Overview(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, stats)
}

// Data handles GET /api/data, returning the whole document.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	var snapshot store.Dataset
	if err := h.Svc.Store.View(func(d *store.Dataset) error {
		snapshot = *d
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, snapshot)
}
