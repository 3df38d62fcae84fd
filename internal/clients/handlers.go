package clients

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the client endpoints over the shared document.
type Handler struct {
	Store *store.Store
	Now   func() time.Time
}

type createRequest struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone"`
	Email  string `json:"email" validate:"omitempty,email"`
	Source string `json:"source"`
	Notes  string `json:"notes"`
}

// List handles GET /api/clients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out := []store.Client{}
	if err := h.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Clients...)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/clients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var created store.Client
	err := h.Store.Update(func(d *store.Dataset) error {
		created = store.Client{
			ID:        store.NextID(d.Clients, func(c store.Client) int64 { return c.ID }),
			Name:      req.Name,
			Phone:     req.Phone,
			Email:     req.Email,
			Source:    req.Source,
			DateAdded: store.Timestamp(h.now()),
			Notes:     req.Notes,
		}
		d.Clients = append(d.Clients, created)
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// Delete handles DELETE /api/clients/{id}. A client referenced by
// projects cannot be deleted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	err = h.Store.Update(func(d *store.Dataset) error {
		for _, p := range d.Projects {
			if p.ClientID == id {
				return common.Validation("cannot delete client with existing projects", nil)
			}
		}
		for i := range d.Clients {
			if d.Clients[i].ID == id {
				d.Clients = append(d.Clients[:i], d.Clients[i+1:]...)
				return nil
			}
		}
		return common.NotFound("client not found")
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
