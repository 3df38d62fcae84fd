package quotes

import (
	"github.com/shopspring/decimal"

	"github.com/yairmaster/mastercode-api/internal/common"
)

// LineItem is one priced unit inside a quote.
type LineItem struct {
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
}

// LineTotal returns unit price times quantity, before discount.
func (it LineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Totals holds the computed monetary summary of a quote. Values keep
// full decimal precision; rounding to 2 places happens only when the
// quote is presented or persisted.
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals aggregates line items into subtotal, discount total and
// grand total. A discount total exceeding the subtotal is rejected, so
// a grand total can never go negative.
func ComputeTotals(items []LineItem) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, common.Validation("quote requires at least one line item", nil)
	}

	subtotal := decimal.Zero
	discount := decimal.Zero
	for i, it := range items {
		if it.Quantity < 1 {
			return Totals{}, common.Validationf("item %d: quantity must be at least 1", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return Totals{}, common.Validationf("item %d: unit price must not be negative", i+1)
		}
		if it.Discount.IsNegative() {
			return Totals{}, common.Validationf("item %d: discount must not be negative", i+1)
		}
		subtotal = subtotal.Add(it.LineTotal())
		discount = discount.Add(it.Discount)
	}

	if discount.GreaterThan(subtotal) {
		return Totals{}, common.Validation("discount total exceeds subtotal", nil)
	}

	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		GrandTotal: subtotal.Sub(discount),
	}, nil
}
