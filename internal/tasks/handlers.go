package tasks

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the task endpoints.
type Handler struct {
	Store *store.Store
	Now   func() time.Time
}

type createRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// List handles GET /api/tasks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out := []store.Task{}
	if err := h.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Tasks...)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = store.TaskPriorityNormal
	}

	var created store.Task
	err := h.Store.Update(func(d *store.Dataset) error {
		created = store.Task{
			ID:          store.NextID(d.Tasks, func(t store.Task) int64 { return t.ID }),
			Title:       req.Title,
			Description: req.Description,
			Priority:    priority,
			DueDate:     req.DueDate,
			Status:      store.TaskStatusOpen,
			DateCreated: store.Timestamp(h.now()),
		}
		d.Tasks = append(d.Tasks, created)
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// Complete handles PUT /api/tasks/{id}/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	var updated store.Task
	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Tasks {
			if d.Tasks[i].ID == id {
				d.Tasks[i].Status = store.TaskStatusDone
				d.Tasks[i].DateCompleted = store.Timestamp(h.now())
				updated = d.Tasks[i]
				return nil
			}
		}
		return common.NotFound("task not found")
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Tasks {
			if d.Tasks[i].ID == id {
				d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
				return nil
			}
		}
		return common.NotFound("task not found")
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
