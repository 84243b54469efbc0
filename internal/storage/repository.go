// Package storage provides persistence for the threadline catalog and
// orders. The production implementation is MongoDB; an in-memory
// implementation backs tests and development mode.
package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline-io/threadline/internal/models"
)

// ProductQuery collects the filter, sort, and paging options for product
// listings. Zero values mean "no constraint".
type ProductQuery struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	// Size keeps only products carrying the named size.
	Size string
	// InStock, when set, keeps products with (or without) any size in stock.
	InStock *bool
	// Search matches name, description, or tags, case-insensitively.
	Search string

	// SortBy is one of "name", "price", "created_at". Empty sorts by
	// created_at descending.
	SortBy   string
	SortDesc bool

	Skip  int64
	Limit int64
	// After restricts results to documents after the given ID (cursor
	// paging). Overrides Skip.
	After *primitive.ObjectID
}

// OrderQuery collects the filter and paging options for order listings.
// Orders are always returned newest first.
type OrderQuery struct {
	UserID        string
	OrderStatus   models.OrderStatus
	PaymentStatus models.PaymentStatus
	MinTotal      *float64
	MaxTotal      *float64
	From          *time.Time
	To            *time.Time

	Skip  int64
	Limit int64
}

// OrderStatusUpdate carries the mutable fields of an order. Nil fields are
// left unchanged.
type OrderStatusUpdate struct {
	OrderStatus    *models.OrderStatus
	PaymentStatus  *models.PaymentStatus
	TrackingNumber *string
	Notes          *string
}

// Empty reports whether the update changes nothing.
func (u OrderStatusUpdate) Empty() bool {
	return u.OrderStatus == nil && u.PaymentStatus == nil &&
		u.TrackingNumber == nil && u.Notes == nil
}

// ProductRepository defines catalog persistence.
// All implementations must be:
// - Thread-safe
// - Context-aware (respecting cancellation/timeout)
// - Explicit about errors (never swallow)
//
// Missing documents are reported with errors.ErrNotFound.
type ProductRepository interface {
	// Create inserts a new product and fills in its generated ID.
	Create(ctx context.Context, product *models.Product) error

	// Get retrieves a product by ID.
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)

	// Replace overwrites an existing product document.
	Replace(ctx context.Context, product *models.Product) error

	// Delete removes a product by ID.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// List returns products matching the query.
	// Returns empty slice (not nil) if nothing matches.
	List(ctx context.Context, q ProductQuery) ([]models.Product, error)

	// Count returns the number of products matching the query, ignoring
	// its paging options.
	Count(ctx context.Context, q ProductQuery) (int64, error)

	// FindByIDs returns the products whose IDs appear in ids. IDs with no
	// matching document are simply absent from the result.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)

	// DecrementStock atomically subtracts qty from the stock of the named
	// size, failing with errors.ErrNotFound when the product, the size, or
	// sufficient stock is missing.
	DecrementStock(ctx context.Context, id primitive.ObjectID, size string, qty int) error
}

// OrderRepository defines order persistence.
// Implementations follow the same contract as ProductRepository.
type OrderRepository interface {
	// Create inserts a new order and fills in its generated ID.
	Create(ctx context.Context, order *models.Order) error

	// Get retrieves an order by ID.
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)

	// List returns orders matching the query, newest first.
	// Returns empty slice (not nil) if nothing matches.
	List(ctx context.Context, q OrderQuery) ([]models.Order, error)

	// Count returns the number of orders matching the query, ignoring its
	// paging options.
	Count(ctx context.Context, q OrderQuery) (int64, error)

	// UpdateStatus applies the non-nil fields of upd and bumps updated_at.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, upd OrderStatusUpdate) error
}
