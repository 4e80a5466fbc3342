package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/consultjules/receipts/internal/metrics"
	"github.com/consultjules/receipts/internal/models"
	"github.com/consultjules/receipts/internal/render"
	"github.com/consultjules/receipts/internal/storage"
)

// ItemInput is one line item as submitted by the client.
type ItemInput struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// ReceiptInput is the payload for creating a receipt. Total is taken as
// given and not validated against the item sum.
type ReceiptInput struct {
	Customer string      `json:"customer"`
	Items    []ItemInput `json:"items"`
	Tax      float64     `json:"tax"`
	Discount float64     `json:"discount"`
	Payment  string      `json:"payment"`
	Total    float64     `json:"total"`
}

// ReceiptService records receipts and renders them as images.
type ReceiptService struct {
	store    storage.Store
	renderer *render.Renderer
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(store storage.Store, renderer *render.Renderer, rec metrics.Recorder, logger *slog.Logger) *ReceiptService {
	return &ReceiptService{
		store:    store,
		renderer: renderer,
		metrics:  rec,
		logger:   logger,
	}
}

// Create persists a receipt with its items and returns the assigned ID.
func (s *ReceiptService) Create(ctx context.Context, input ReceiptInput) (int64, error) {
	receipt := &models.Receipt{
		Customer: input.Customer,
		Tax:      input.Tax,
		Discount: input.Discount,
		Payment:  input.Payment,
		Total:    input.Total,
	}
	for _, item := range input.Items {
		receipt.Items = append(receipt.Items, models.Item{
			Name:  item.Name,
			Qty:   item.Qty,
			Price: item.Price,
		})
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		return 0, fmt.Errorf("failed to create receipt: %w", err)
	}

	s.metrics.RecordReceiptCreated()
	s.logger.Info("receipt created", "receipt_id", receipt.ID, "customer", receipt.Customer, "items", len(receipt.Items))
	return receipt.ID, nil
}

// Get returns a receipt with its items.
func (s *ReceiptService) Get(ctx context.Context, id int64) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, id)
}

// List returns summaries of all receipts in creation order.
func (s *ReceiptService) List(ctx context.Context) ([]models.ReceiptSummary, error) {
	return s.store.ListReceipts(ctx)
}

// Delete removes a receipt and all of its items.
func (s *ReceiptService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteReceipt(ctx, id); err != nil {
		return err
	}
	s.logger.Info("receipt deleted", "receipt_id", id)
	return nil
}

// Render loads the receipt and produces its JPEG image.
// Returns storage.ErrNotFound when the ID does not resolve.
func (s *ReceiptService) Render(ctx context.Context, id int64) ([]byte, error) {
	receipt, err := s.store.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := s.renderer.Render(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt %d: %w", id, err)
	}
	s.metrics.RecordRenderLatency(time.Since(start))

	s.logger.Debug("receipt rendered", "receipt_id", id, "bytes", len(img))
	return img, nil
}
