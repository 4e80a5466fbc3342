package models

// Receipt represents a recorded sale: who was billed, what was sold,
// and the amounts involved.
//
// Total is supplied by the caller at creation time and is not recomputed
// from the items. It may legitimately differ from the item sum (e.g. when
// tax or discount adjustments are not separately itemized).
type Receipt struct {
	// ID is the storage-assigned identity. Receipt numbers on the rendered
	// image are derived from it, so it is numeric rather than a UUID.
	ID int64

	// Customer is the name on the "Billed To" line.
	Customer string

	// Tax is the tax amount applied to the sale.
	Tax float64

	// Discount is the discount amount applied to the sale.
	Discount float64

	// Payment is a free-text payment method label (e.g. "Cash", "Card").
	Payment string

	// Total is the caller-supplied grand total.
	Total float64

	// CreatedAt is the Unix timestamp when the receipt was recorded.
	CreatedAt int64

	// Items are the line items in submission order.
	Items []Item
}

// Item is a single line entry within a receipt.
type Item struct {
	ID int64

	// ReceiptID references the owning receipt.
	ReceiptID int64

	// Name describes the item. The rendered image reuses it as the
	// description column.
	Name string

	// Qty is the quantity sold. Negative values are not rejected; the
	// renderer prints whatever was stored.
	Qty int

	// Price is the unit price.
	Price float64
}

// ReceiptSummary is the list-view projection of a receipt, without items.
type ReceiptSummary struct {
	ID       int64   `json:"id"`
	Customer string  `json:"customer"`
	Total    float64 `json:"total"`
	Payment  string  `json:"payment"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
}
