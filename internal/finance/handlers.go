package finance

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the income and expense endpoints.
type Handler struct {
	Store *store.Store
	Now   func() time.Time
}

type incomeRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Source   string  `json:"source" validate:"required"`
	Category string  `json:"category"`
}

type expenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category"`
}

// ListIncome handles GET /api/income.
func (h *Handler) ListIncome(w http.ResponseWriter, r *http.Request) {
	out := []store.IncomeEntry{}
	if err := h.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Income...)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// CreateIncome handles POST /api/income.
func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var created store.IncomeEntry
	err := h.Store.Update(func(d *store.Dataset) error {
		created = store.IncomeEntry{
			ID:       store.NextID(d.Income, func(e store.IncomeEntry) int64 { return e.ID }),
			Amount:   req.Amount,
			Source:   req.Source,
			Category: req.Category,
			Date:     store.Timestamp(h.now()),
		}
		d.Income = append(d.Income, created)
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// DeleteIncome handles DELETE /api/income/{id}.
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Income {
			if d.Income[i].ID == id {
				d.Income = append(d.Income[:i], d.Income[i+1:]...)
				return nil
			}
		}
		return common.NotFound("income entry not found")
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListExpenses handles GET /api/expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	out := []store.ExpenseEntry{}
	if err := h.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Expenses...)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, out)
}

// CreateExpense handles POST /api/expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var created store.ExpenseEntry
	err := h.Store.Update(func(d *store.Dataset) error {
		created = store.ExpenseEntry{
			ID:          store.NextID(d.Expenses, func(e store.ExpenseEntry) int64 { return e.ID }),
			Amount:      req.Amount,
			Description: req.Description,
			Category:    req.Category,
			Date:        store.Timestamp(h.now()),
		}
		d.Expenses = append(d.Expenses, created)
		return nil
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, created)
}

// DeleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	err = h.Store.Update(func(d *store.Dataset) error {
		for i := range d.Expenses {
			if d.Expenses[i].ID == id {
				d.Expenses = append(d.Expenses[:i], d.Expenses[i+1:]...)
				return nil
			}
		}
		return common.NotFound("expense entry not found")
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
