package quotes

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

//go:embed document.tmpl
var documentTmpl string

var docTemplate = template.Must(template.New("quote").Parse(documentTmpl))

const dateLayout = "02/01/2006"

// RenderInput carries everything the document renderer needs. Free-text
// fields (client name, notes, item descriptions) are escaped by the
// template, so they cannot break the document structure.
type RenderInput struct {
	Number       string
	IssuedAt     time.Time
	ValidityDays int
	Business     store.Settings
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	Items        []LineItem
	Totals       Totals
	Notes        string
}

type documentRow struct {
	Index       int
	Name        string
	Description string
	Quantity    int
	UnitPrice   string
	Discount    string
	HasDiscount bool
	LineTotal   string
}

type documentData struct {
	BusinessName string
	Phone        string
	Email        string
	Website      string
	Number       string
	IssueDate    string
	ValidUntil   string
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	Rows         []documentRow
	Subtotal     string
	Discount     string
	HasDiscount  bool
	GrandTotal   string
	Notes        string
	WhatsAppURL  template.URL
}

// RenderDocument produces the self-contained HTML snapshot of a quote.
// It fails when the issuing-business profile is not configured; no
// document is producible without it.
func RenderDocument(in RenderInput) (string, error) {
	biz := in.Business
	if strings.TrimSpace(biz.BusinessName) == "" {
		return "", common.Validation("business profile is not configured", nil)
	}

	validity := in.ValidityDays
	if validity <= 0 {
		validity = DefaultValidityDays
	}

	data := documentData{
		BusinessName: biz.BusinessName,
		Phone:        biz.Phone,
		Email:        biz.Email,
		Website:      biz.Website,
		Number:       in.Number,
		IssueDate:    in.IssuedAt.Format(dateLayout),
		ValidUntil:   in.IssuedAt.AddDate(0, 0, validity).Format(dateLayout),
		ClientName:   in.ClientName,
		ClientEmail:  in.ClientEmail,
		ClientPhone:  in.ClientPhone,
		Subtotal:     money(in.Totals.Subtotal),
		Discount:     money(in.Totals.Discount),
		HasDiscount:  in.Totals.Discount.IsPositive(),
		GrandTotal:   money(in.Totals.GrandTotal),
		Notes:        in.Notes,
		WhatsAppURL:  whatsAppLink(biz, in.Number),
	}

	for i, it := range in.Items {
		data.Rows = append(data.Rows, documentRow{
			Index:       i + 1,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			Discount:    money(it.Discount),
			HasDiscount: it.Discount.IsPositive(),
			LineTotal:   money(it.LineTotal()),
		})
	}

	var sb strings.Builder
	if err := docTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render quote document: %w", err)
	}
	return sb.String(), nil
}

// money formats a decimal with exactly 2 fractional digits and the
// shekel currency marker.
func money(d decimal.Decimal) string {
	return "₪" + d.StringFixed(2)
}

// whatsAppLink builds the call-to-action deep link, pre-filled with a
// confirmation message carrying the quote number.
func whatsAppLink(biz store.Settings, number string) template.URL {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, biz.Phone)
	digits = strings.TrimPrefix(digits, "0")

	text := fmt.Sprintf("היי %s, אני מעוניין לאשר את הצעת המחיר %s", biz.BusinessName, number)
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/972" + digits,
		RawQuery: url.Values{"text": []string{text}}.Encode(),
	}
	return template.URL(u.String())
}
