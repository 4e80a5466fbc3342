// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/consultjules/receipts/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailExists is returned by CreateUser when the email is already
	// registered. Implementations must enforce this with a storage-level
	// uniqueness constraint so concurrent registrations cannot both succeed.
	ErrEmailExists = errors.New("email already registered")
)

// Store defines the interface for receipt and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateReceipt persists a receipt and its items as a single
	// transaction, preserving item order. The receipt's ID and CreatedAt
	// fields are populated by the store. Either all rows commit or none do.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt by ID, items included in the order
	// they were submitted. Returns ErrNotFound if no such receipt exists.
	GetReceipt(ctx context.Context, id int64) (*models.Receipt, error)

	// ListReceipts returns a summary of every receipt, ordered by ID
	// ascending (creation order).
	ListReceipts(ctx context.Context) ([]models.ReceiptSummary, error)

	// DeleteReceipt removes a receipt and, via cascade, all of its items.
	// Returns ErrNotFound if no such receipt exists.
	DeleteReceipt(ctx context.Context, id int64) error

	// CreateUser inserts a new user. Returns ErrEmailExists when the
	// email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns (nil, nil) when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no user has that ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
