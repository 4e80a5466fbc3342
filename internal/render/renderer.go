// Package render turns a fully-loaded receipt into a fixed-layout JPEG.
//
// The layout is hand-specified on a 1748x2480 canvas (A5 at 150 DPI,
// portrait) and is not reflowed: every element sits at a fixed offset and
// table rows advance by a fixed vertical step. Given the same receipt the
// output bytes are identical, which keeps the renderer trivially cacheable
// and testable.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/consultjules/receipts/internal/models"
)

// Canvas dimensions: A5 page at 150 DPI, portrait.
const (
	canvasWidth  = 1748
	canvasHeight = 2480
)

// Brand palette, matching the frontend theme.
const (
	colorAccent     = "#7c3aed" // heading
	colorAccentSoft = "#a78bfa" // border and rules
	colorTableHead  = "#4F46E5" // table header text, TOTAL line
	colorHeadFill   = "#ede9fe" // table header band
	colorSummary    = "#f3f4f6" // summary band
	colorInk        = "#222222"
	colorMuted      = "#888888"
	colorLogoFill   = "#e0e0e0"
)

const (
	tableTop    = 700 // y of the table header band
	rowStep     = 50  // vertical advance per item row
	jpegQuality = 90
)

// Renderer draws receipts. Construct once and share: font parsing is the
// expensive part and faces are safe for concurrent reads.
type Renderer struct {
	faces *faceSet
}

// New creates a renderer using the typeface at fontPath, falling back to
// the built-in Go Regular face when the file cannot be loaded.
func New(fontPath string) (*Renderer, error) {
	faces, err := loadFaces(fontPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{faces: faces}, nil
}

// Render draws the receipt and returns the encoded JPEG bytes. It is a
// pure function of the receipt: the same input produces identical bytes.
func (r *Renderer) Render(receipt *models.Receipt) ([]byte, error) {
	dc := gg.NewContext(canvasWidth, canvasHeight)
	defer dc.Close()

	dc.ClearWithColor(gg.White)

	r.drawHeader(dc)
	r.drawBilling(dc, receipt)
	lastY := r.drawTable(dc, receipt)
	r.drawTotals(dc, receipt, lastY)

	var buf bytes.Buffer
	if err := dc.EncodeJPEG(&buf, jpegQuality); err != nil {
		return nil, fmt.Errorf("failed to encode receipt image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader draws the logo placeholder, brand heading, outer border and
// the rule under the header block.
func (r *Renderer) drawHeader(dc *gg.Context) {
	// Logo placeholder
	dc.SetHexColor(colorLogoFill)
	dc.DrawRectangle(80, 80, 200, 200)
	dc.Fill()
	dc.SetHexColor(colorMuted)
	dc.SetLineWidth(1)
	dc.DrawRectangle(80, 80, 200, 200)
	dc.Stroke()
	r.text(dc, r.faces.small, "LOGO", 100, 180)

	// Brand heading
	dc.SetHexColor(colorAccent)
	r.text(dc, r.faces.heading, "CONSULT JULES", 340, 120)
	r.text(dc, r.faces.body, "SERVICES", 340, 200)

	// Decorative border inset from the canvas edges
	dc.SetHexColor(colorAccentSoft)
	dc.SetLineWidth(6)
	dc.DrawRectangle(60, 60, canvasWidth-120, canvasHeight-120)
	dc.Stroke()

	// Rule below the header block
	dc.SetLineWidth(3)
	dc.DrawLine(80, 300, canvasWidth-80, 300)
	dc.Stroke()
}

// drawBilling draws the customer line, the receipt metadata and the
// shaded summary band.
func (r *Renderer) drawBilling(dc *gg.Context, receipt *models.Receipt) {
	dc.SetHexColor(colorInk)
	r.text(dc, r.faces.body, "Billed To:", 80, 340)
	r.text(dc, r.faces.body, receipt.Customer, 250, 340)

	r.text(dc, r.faces.small, fmt.Sprintf("Receipt No: CJ-%05d", receipt.ID), 80, 420)
	r.text(dc, r.faces.small, fmt.Sprintf("Issued Date: %s", issuedDate(receipt.CreatedAt)), 80, 470)
	r.text(dc, r.faces.small, fmt.Sprintf("Purchase Order No: Cj00%05d", receipt.ID), 80, 520)

	// Summary band
	dc.SetHexColor(colorSummary)
	dc.DrawRectangle(80, 600, canvasWidth-160, 70)
	dc.Fill()
	dc.SetHexColor(colorInk)
	r.text(dc, r.faces.body, "Summary: Payment made for TUITION", 100, 610)
}

// Column x-offsets shared by the header band and the item rows.
var columnX = struct {
	index, name, qty, price, amount float64
}{100, 400, 900, 1150, 1400}

// drawTable draws the shaded header row and one row per item, returning
// the y position just below the last row.
func (r *Renderer) drawTable(dc *gg.Context, receipt *models.Receipt) float64 {
	dc.SetHexColor(colorHeadFill)
	dc.DrawRectangle(80, tableTop, canvasWidth-160, 60)
	dc.Fill()

	dc.SetHexColor(colorTableHead)
	r.text(dc, r.faces.small, "Item", columnX.index, tableTop+10)
	r.text(dc, r.faces.small, "Description", columnX.name, tableTop+10)
	r.text(dc, r.faces.small, "Quantity", columnX.qty, tableTop+10)
	r.text(dc, r.faces.small, "Unit Price", columnX.price, tableTop+10)
	r.text(dc, r.faces.small, "Amount", columnX.amount, tableTop+10)

	y := float64(tableTop + 70)
	dc.SetHexColor(colorInk)
	for i, item := range receipt.Items {
		r.text(dc, r.faces.small, fmt.Sprintf("%d", i+1), columnX.index, y)
		// The item name doubles as the description column.
		r.text(dc, r.faces.small, item.Name, columnX.name, y)
		r.text(dc, r.faces.small, fmt.Sprintf("%d", item.Qty), columnX.qty, y)
		r.text(dc, r.faces.small, fmt.Sprintf("%.2f", item.Price), columnX.price, y)
		r.text(dc, r.faces.small, fmt.Sprintf("%.2f", float64(item.Qty)*item.Price), columnX.amount, y)
		y += rowStep
	}
	return y
}

// drawTotals draws the computed subtotal, the stored total and the rule
// above them. The stored total is printed verbatim: it is caller-supplied
// and may legitimately differ from the item sum.
func (r *Renderer) drawTotals(dc *gg.Context, receipt *models.Receipt, y float64) {
	y += 40
	dc.SetHexColor(colorInk)
	r.text(dc, r.faces.small, "SUB TOTAL", columnX.price, y)
	r.text(dc, r.faces.small, fmt.Sprintf("%.2f", subtotal(receipt.Items)), columnX.amount, y)

	y += 40
	dc.SetHexColor(colorTableHead)
	r.text(dc, r.faces.small, "TOTAL", columnX.price, y)
	r.text(dc, r.faces.small, fmt.Sprintf("%.2f", receipt.Total), columnX.amount, y)

	dc.SetHexColor(colorAccentSoft)
	dc.SetLineWidth(2)
	dc.DrawLine(80, y+20, canvasWidth-80, y+20)
	dc.Stroke()
}

// text draws s with its top-left corner at (x, y). gg positions strings
// by baseline, so the baseline is pushed down by most of the line height.
func (r *Renderer) text(dc *gg.Context, face text.Face, s string, x, y float64) {
	dc.SetFont(face)
	_, h := dc.MeasureString(s)
	dc.DrawString(s, x, y+h*0.8)
}

// subtotal sums qty*price over all items.
func subtotal(items []models.Item) float64 {
	var sum float64
	for _, item := range items {
		sum += float64(item.Qty) * item.Price
	}
	return sum
}

// issuedDate formats a Unix timestamp as an ISO date, or returns the
// empty string when no creation timestamp is available.
func issuedDate(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02")
}
