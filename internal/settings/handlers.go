package settings

import (
	"net/http"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the business profile endpoints.
type Handler struct {
	Store *store.Store
}

type updateRequest struct {
	BusinessName string `json:"business_name" validate:"required"`
	Owner        string `json:"owner"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	Website      string `json:"website" validate:"omitempty,url"`
}

// Get handles GET /api/settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	var out store.Settings
	if err := h.Store.View(func(d *store.Dataset) error {
		out = d.Settings
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// Update handles PUT /api/settings.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var out store.Settings
	err := h.Store.Update(func(d *store.Dataset) error {
		d.Settings = store.Settings{
			BusinessName: req.BusinessName,
			Owner:        req.Owner,
			Phone:        req.Phone,
			Email:        req.Email,
			Website:      req.Website,
		}
		out = d.Settings
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}
