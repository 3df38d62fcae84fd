package attachments

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yairmaster/mastercode-api/internal/common"
)

// Handler exposes the project file endpoints.
type Handler struct {
	Svc      *Service
	MaxFiles int
	MaxBytes int64
}

// Upload handles POST /api/projects/{id}/upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		common.WriteError(w, common.Validation("invalid multipart upload", nil))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		common.WriteError(w, common.Validation("no files uploaded", nil))
		return
	}
	if len(headers) > h.MaxFiles {
		common.WriteError(w, common.Validationf("too many files: at most %d per upload", h.MaxFiles))
		return
	}

	saved, err := h.Svc.SaveUploads(r.Context(), projectID, headers)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"files":   saved,
		"message": fmt.Sprintf("הועלו %d קבצים בהצלחה", len(saved)),
	})
}

// List handles GET /api/projects/{id}/files.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	files, err := h.Svc.ListFiles(r.Context(), projectID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, files)
}

// Delete handles DELETE /api/projects/{projectID}/files/{fileID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := common.ParseID(chi.URLParam(r, "projectID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Svc.DeleteFile(r.Context(), projectID, chi.URLParam(r, "fileID")); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// GetContent handles GET /api/projects/{projectID}/files/{fileID}/content.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	projectID, err := common.ParseID(chi.URLParam(r, "projectID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	content, att, err := h.Svc.ReadContent(r.Context(), projectID, chi.URLParam(r, "fileID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"content":  content,
		"fileName": att.Name,
	})
}

type contentRequest struct {
	Content *string `json:"content" validate:"required"`
}

// PutContent handles PUT /api/projects/{projectID}/files/{fileID}/content.
func (h *Handler) PutContent(w http.ResponseWriter, r *http.Request) {
	projectID, err := common.ParseID(chi.URLParam(r, "projectID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req contentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	size, err := h.Svc.WriteContent(r.Context(), projectID, chi.URLParam(r, "fileID"), *req.Content)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"size":    size,
		"message": "הקובץ נשמר בהצלחה",
	})
}
