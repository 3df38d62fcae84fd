package projects

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the project endpoints over the shared document.
type Handler struct {
	Store     *store.Store
	UploadDir string
	Now       func() time.Time
	Log       zerolog.Logger
}

type createRequest struct {
	ClientID    int64   `json:"client_id" validate:"required,min=1"`
	Type        string  `json:"type" validate:"required"`
	Price       float64 `json:"price" validate:"min=0"`
	Description string  `json:"description"`
	Deadline    string  `json:"deadline"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List handles GET /api/projects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out := []store.Project{}
	if err := h.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Projects...)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/projects. The referenced client must exist;
// its project counter moves in the same mutation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var created store.Project
	err := h.Store.Update(func(d *store.Dataset) error {
		client := findClient(d, req.ClientID)
		if client == nil {
			return common.NotFound("client not found")
		}
		created = store.Project{
			ID:          store.NextID(d.Projects, func(p store.Project) int64 { return p.ID }),
			ClientID:    req.ClientID,
			ClientName:  client.Name,
			Type:        req.Type,
			Price:       req.Price,
			Description: req.Description,
			Deadline:    req.Deadline,
			Status:      store.ProjectStatusActive,
			DateCreated: store.Timestamp(h.now()),
			Files:       []store.Attachment{},
		}
		d.Projects = append(d.Projects, created)
		client.ProjectsCount++
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// UpdateStatus handles PUT /api/projects/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req statusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var updated store.Project
	err = h.Store.Update(func(d *store.Dataset) error {
		project := findProject(d, id)
		if project == nil {
			return common.NotFound("project not found")
		}
		project.Status = req.Status
		if req.Status == store.ProjectStatusDone {
			project.DateCompleted = store.Timestamp(h.now())
		}
		updated = *project
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, updated)
}

// MarkPaid handles PUT /api/projects/{id}/paid. Marking a project paid
// stamps the payment date, adds the price to the client's total and
// records a matching income entry, all in one mutation.
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	var updated store.Project
	err = h.Store.Update(func(d *store.Dataset) error {
		project := findProject(d, id)
		if project == nil {
			return common.NotFound("project not found")
		}
		now := store.Timestamp(h.now())
		project.Paid = true
		project.PaymentDate = now
		if client := findClient(d, project.ClientID); client != nil {
			client.TotalPaid += project.Price
		}
		d.Income = append(d.Income, store.IncomeEntry{
			ID:       store.NextID(d.Income, func(e store.IncomeEntry) int64 { return e.ID }),
			Amount:   project.Price,
			Source:   fmt.Sprintf("פרויקט #%d - %s", project.ID, project.ClientName),
			Category: "פרויקט",
			Date:     now,
		})
		updated = *project
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/projects/{id}: removes the record, its
// upload directory and the client's counter reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Projects {
			if d.Projects[i].ID != id {
				continue
			}
			if client := findClient(d, d.Projects[i].ClientID); client != nil && client.ProjectsCount > 0 {
				client.ProjectsCount--
			}
			d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
			return nil
		}
		return common.NotFound("project not found")
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}

	dir := filepath.Join(h.UploadDir, "projects", strconv.FormatInt(id, 10))
	if err := os.RemoveAll(dir); err != nil {
		h.Log.Error().Err(err).Str("dir", dir).Msg("remove project uploads")
	}

	common.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func findClient(d *store.Dataset, id int64) *store.Client {
	for i := range d.Clients {
		if d.Clients[i].ID == id {
			return &d.Clients[i]
		}
	}
	return nil
}

func findProject(d *store.Dataset, id int64) *store.Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
