package quotes

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/yairmaster/mastercode-api/internal/store"
)

// PDFGenerator renders a stored quote as a printable PDF. When FontDir
// points at a directory holding DejaVuSans.ttf and DejaVuSans-Bold.ttf
// the document is rendered with full Unicode support; otherwise it
// falls back to the built-in Helvetica core font.
type PDFGenerator struct {
	FontDir string
}

// Generate produces the PDF bytes for a quote.
func (g PDFGenerator) Generate(q store.Quote, business store.Settings) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(q.QuoteNumber, true)

	font := "Helvetica"
	if g.FontDir != "" {
		font = "DejaVu"
		pdf.AddUTF8Font(font, "", filepath.Join(g.FontDir, "DejaVuSans.ttf"))
		pdf.AddUTF8Font(font, "B", filepath.Join(g.FontDir, "DejaVuSans-Bold.ttf"))
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf fonts: %w", err)
		}
	}
	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.Cell(0, 10, business.BusinessName)
	pdf.Ln(10)

	pdf.SetFont(font, "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s  •  %s", q.QuoteNumber, q.DateCreated))
	pdf.Ln(6)
	if q.ClientName != "" || q.ClientPhone != "" {
		pdf.Cell(0, 6, fmt.Sprintf("%s  %s  %s", q.ClientName, q.ClientPhone, q.ClientEmail))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont(font, "B", 11)
	pdf.Cell(100, 7, "Item")
	pdf.Cell(20, 7, "Qty")
	pdf.Cell(35, 7, "Unit")
	pdf.Cell(35, 7, "Total")
	pdf.Ln(8)

	pdf.SetFont(font, "", 10)
	for _, it := range q.Items {
		pdf.Cell(100, 6, trim(it.Name, 55))
		pdf.Cell(20, 6, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(35, 6, fmt.Sprintf("%.2f", it.Price))
		pdf.Cell(35, 6, fmt.Sprintf("%.2f", it.Price*float64(it.Quantity)))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont(font, "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Subtotal: %.2f", q.Subtotal))
	pdf.Ln(6)
	if q.Discount > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Discount: -%.2f", q.Discount))
		pdf.Ln(6)
	}
	pdf.SetFont(font, "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Total: %.2f", q.Total))
	pdf.Ln(10)

	pdf.SetFont(font, "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("%s  |  %s  |  %s", business.Phone, business.Email, business.Website))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
