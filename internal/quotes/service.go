package quotes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// DefaultValidityDays applies when a quote is created without an
// explicit validity window.
const DefaultValidityDays = 30

// ItemInput is a raw line item as submitted by the caller.
type ItemInput struct {
	Name        string
	Description string
	Quantity    int
	Price       float64
	Discount    float64
}

// CreateInput is the raw quote form data. Totals and the rendered
// document are always computed server-side from the items; the caller
// is never trusted with them.
type CreateInput struct {
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	Items        []ItemInput
	Notes        string
	ValidityDays int
}

// Service owns quote creation, retrieval and deletion over the shared
// persisted document.
type Service struct {
	Store *store.Store
	Now   func() time.Time
}

// Create computes totals, mints a quote number, renders the document
// and durably persists the new record before returning it.
func (s *Service) Create(ctx context.Context, in CreateInput) (store.Quote, error) {
	items := make([]LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, LineItem{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   decimal.NewFromFloat(it.Price),
			Discount:    decimal.NewFromFloat(it.Discount),
		})
	}

	totals, err := ComputeTotals(items)
	if err != nil {
		return store.Quote{}, err
	}

	validity := in.ValidityDays
	if validity <= 0 {
		validity = DefaultValidityDays
	}

	var settings store.Settings
	if err := s.Store.View(func(d *store.Dataset) error {
		settings = d.Settings
		return nil
	}); err != nil {
		return store.Quote{}, err
	}

	now := s.now()
	number := Number(now)

	document, err := RenderDocument(RenderInput{
		Number:       number,
		IssuedAt:     now,
		ValidityDays: validity,
		Business:     settings,
		ClientName:   in.ClientName,
		ClientEmail:  in.ClientEmail,
		ClientPhone:  in.ClientPhone,
		Items:        items,
		Totals:       totals,
		Notes:        in.Notes,
	})
	if err != nil {
		return store.Quote{}, err
	}

	storedItems := make([]store.QuoteItem, 0, len(in.Items))
	for _, it := range in.Items {
		storedItems = append(storedItems, store.QuoteItem{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Discount:    it.Discount,
		})
	}

	var created store.Quote
	err = s.Store.Update(func(d *store.Dataset) error {
		created = store.Quote{
			ID:           store.NextID(d.Quotes, func(q store.Quote) int64 { return q.ID }),
			QuoteNumber:  number,
			ClientName:   in.ClientName,
			ClientEmail:  in.ClientEmail,
			ClientPhone:  in.ClientPhone,
			Items:        storedItems,
			Notes:        in.Notes,
			ValidityDays: validity,
			DateCreated:  store.Timestamp(now),
			Subtotal:     totals.Subtotal.Round(2).InexactFloat64(),
			Discount:     totals.Discount.Round(2).InexactFloat64(),
			Total:        totals.GrandTotal.Round(2).InexactFloat64(),
			HTMLContent:  document,
		}
		d.Quotes = append(d.Quotes, created)
		return nil
	})
	if err != nil {
		return store.Quote{}, err
	}
	return created, nil
}

// List returns all quotes in store order.
func (s *Service) List(ctx context.Context) ([]store.Quote, error) {
	out := []store.Quote{}
	err := s.Store.View(func(d *store.Dataset) error {
		out = append(out, d.Quotes...)
		return nil
	})
	return out, err
}

// Get returns the quote with the given id.
func (s *Service) Get(ctx context.Context, id int64) (store.Quote, error) {
	var found *store.Quote
	err := s.Store.View(func(d *store.Dataset) error {
		for i := range d.Quotes {
			if d.Quotes[i].ID == id {
				q := d.Quotes[i]
				found = &q
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return store.Quote{}, err
	}
	if found == nil {
		return store.Quote{}, common.NotFound("quote not found")
	}
	return *found, nil
}

// Delete removes the quote with the given id. Deleting an absent id
// reports NOT_FOUND, also on repeated deletes.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Store.Update(func(d *store.Dataset) error {
		for i := range d.Quotes {
			if d.Quotes[i].ID == id {
				d.Quotes = append(d.Quotes[:i], d.Quotes[i+1:]...)
				return nil
			}
		}
		return common.NotFound("quote not found")
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
