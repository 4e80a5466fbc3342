package render

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/consultjules/receipts/internal/models"
)

func testReceipt() *models.Receipt {
	return &models.Receipt{
		ID:        42,
		Customer:  "Ada Lovelace",
		Tax:       5.0,
		Discount:  2.0,
		Payment:   "Card",
		Total:     53.0,
		CreatedAt: 1700000000,
		Items: []models.Item{
			{Name: "Notebook", Qty: 2, Price: 10.0},
			{Name: "Pen", Qty: 3, Price: 1.5},
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	// No bundled font on the test host: exercises the fallback face.
	r, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRender(t *testing.T) {
	renderer := newTestRenderer(t)

	t.Run("Produces a decodable JPEG at canvas size", func(t *testing.T) {
		img, err := renderer.Render(testReceipt())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		decoded, err := jpeg.Decode(bytes.NewReader(img))
		if err != nil {
			t.Fatalf("Output is not a valid JPEG: %v", err)
		}
		bounds := decoded.Bounds()
		if bounds.Dx() != canvasWidth || bounds.Dy() != canvasHeight {
			t.Errorf("Canvas size mismatch: got %dx%d, want %dx%d",
				bounds.Dx(), bounds.Dy(), canvasWidth, canvasHeight)
		}
	})

	t.Run("Deterministic for the same receipt", func(t *testing.T) {
		first, err := renderer.Render(testReceipt())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		second, err := renderer.Render(testReceipt())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("Two renders of the same receipt differ")
		}
	})

	t.Run("Item rows change the output", func(t *testing.T) {
		base, err := renderer.Render(testReceipt())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		extended := testReceipt()
		extended.Items = append(extended.Items, models.Item{Name: "Stapler", Qty: 1, Price: 7.25})
		withExtra, err := renderer.Render(extended)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		if bytes.Equal(base, withExtra) {
			t.Error("Adding an item row did not change the rendered image")
		}
	})

	t.Run("Renders with no items", func(t *testing.T) {
		receipt := testReceipt()
		receipt.Items = nil
		if _, err := renderer.Render(receipt); err != nil {
			t.Fatalf("Render failed for empty receipt: %v", err)
		}
	})

	t.Run("Negative quantities render as-is", func(t *testing.T) {
		receipt := testReceipt()
		receipt.Items = []models.Item{{Name: "Refund", Qty: -1, Price: 10.0}}
		if _, err := renderer.Render(receipt); err != nil {
			t.Fatalf("Render failed for negative quantity: %v", err)
		}
	})
}

func TestFontFallback(t *testing.T) {
	// A missing font file must degrade to the built-in face, never fail.
	renderer, err := New("/nonexistent/Poppins-Regular.ttf")
	if err != nil {
		t.Fatalf("New failed despite fallback: %v", err)
	}
	if _, err := renderer.Render(testReceipt()); err != nil {
		t.Fatalf("Render failed with fallback font: %v", err)
	}
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []models.Item
		want  float64
	}{
		{"no items", nil, 0},
		{"single item", []models.Item{{Qty: 2, Price: 10}}, 20},
		{"multiple items", []models.Item{{Qty: 2, Price: 10}, {Qty: 3, Price: 1.5}}, 24.5},
		{"negative quantity", []models.Item{{Qty: -1, Price: 10}}, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subtotal(tt.items); got != tt.want {
				t.Errorf("subtotal() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestIssuedDate(t *testing.T) {
	if got := issuedDate(0); got != "" {
		t.Errorf("issuedDate(0) = %q, want empty", got)
	}
	if got := issuedDate(1700000000); got != "2023-11-14" {
		t.Errorf("issuedDate(1700000000) = %q, want 2023-11-14", got)
	}
}
