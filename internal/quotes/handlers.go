package quotes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the quote endpoints.
type Handler struct {
	Svc *Service
	PDF PDFGenerator
}

type createItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"min=0"`
	Discount    float64 `json:"discount" validate:"min=0"`
}

// createRequest carries only the raw form data. Totals or pre-rendered
// documents submitted by older dashboard builds are ignored.
type createRequest struct {
	ClientName   string              `json:"client_name" validate:"required"`
	ClientEmail  string              `json:"client_email" validate:"omitempty,email"`
	ClientPhone  string              `json:"client_phone"`
	Items        []createItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes        string              `json:"notes"`
	ValidityDays int                 `json:"validity_days" validate:"omitempty,min=1"`
}

// List handles GET /api/quotes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Create handles POST /api/quotes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	items := make([]ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ItemInput{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Discount:    it.Discount,
		})
	}

	created, err := h.Svc.Create(r.Context(), CreateInput{
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		ClientPhone:  req.ClientPhone,
		Items:        items,
		Notes:        req.Notes,
		ValidityDays: req.ValidityDays,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// Get handles GET /api/quotes/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.lookup(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, quote)
}

// Document handles GET /api/quotes/{id}/document, serving the stored
// HTML snapshot for viewing or download.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", quote.QuoteNumber+".html"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(quote.HTMLContent))
}

// DownloadPDF handles GET /api/quotes/{id}/pdf.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var settings store.Settings
	if err := h.Svc.Store.View(func(d *store.Dataset) error {
		settings = d.Settings
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	raw, err := h.PDF.Generate(quote, settings)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", quote.QuoteNumber+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Delete handles DELETE /api/quotes/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (store.Quote, bool) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return store.Quote{}, false
	}
	quote, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return store.Quote{}, false
	}
	return quote, true
}
