package leads

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the lead endpoints.
type Handler struct {
	Store *store.Store
	Now   func() time.Time
}

type createRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Source   string `json:"source"`
	Interest string `json:"interest"`
	Notes    string `json:"notes"`
}

// List handles GET /api/leads.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out := []store.Lead{}
	if err := h.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Leads...)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/leads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var created store.Lead
	err := h.Store.Update(func(d *store.Dataset) error {
		created = store.Lead{
			ID:        store.NextID(d.Leads, func(l store.Lead) int64 { return l.ID }),
			Name:      req.Name,
			Phone:     req.Phone,
			Email:     req.Email,
			Source:    req.Source,
			Interest:  req.Interest,
			Notes:     req.Notes,
			Status:    store.LeadStatusNew,
			DateAdded: store.Timestamp(h.now()),
		}
		d.Leads = append(d.Leads, created)
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// Convert handles POST /api/leads/{id}/convert: creates a client from
// the lead's details and flags the lead as converted.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	var client store.Client
	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Leads {
			if d.Leads[i].ID != id {
				continue
			}
			lead := &d.Leads[i]
			client = store.Client{
				ID:        store.NextID(d.Clients, func(c store.Client) int64 { return c.ID }),
				Name:      lead.Name,
				Phone:     lead.Phone,
				Email:     lead.Email,
				Source:    lead.Source,
				DateAdded: store.Timestamp(h.now()),
				Notes:     lead.Notes,
			}
			d.Clients = append(d.Clients, client)
			lead.Status = store.LeadStatusConverted
			return nil
		}
		return common.NotFound("lead not found")
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, client)
}

// Delete handles DELETE /api/leads/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Leads {
			if d.Leads[i].ID == id {
				d.Leads = append(d.Leads[:i], d.Leads[i+1:]...)
				return nil
			}
		}
		return common.NotFound("lead not found")
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
