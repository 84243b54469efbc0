package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
)

// MemoryOrders is an in-memory OrderRepository for tests and development
// mode. Not for production.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]models.Order
}

// NewMemoryOrders creates an empty in-memory order repository.
func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{orders: make(map[primitive.ObjectID]models.Order)}
}

// Create inserts a new order.
func (r *MemoryOrders) Create(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = *order
	return nil
}

// Get retrieves an order by ID.
func (r *MemoryOrders) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, cerrors.ErrNotFound
	}
	return &o, nil
}

// List returns orders matching the query, newest first.
func (r *MemoryOrders) List(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := r.matching(q)
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if q.Skip > 0 {
		if q.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[q.Skip:]
		}
	}
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	if matched == nil {
		matched = []models.Order{}
	}
	return matched, nil
}

// Count returns the number of orders matching the query.
func (r *MemoryOrders) Count(ctx context.Context, q OrderQuery) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(q))), nil
}

// UpdateStatus applies the non-nil fields of upd and bumps updated_at.
func (r *MemoryOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, upd OrderStatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return cerrors.ErrNotFound
	}
	if upd.OrderStatus != nil {
		o.OrderStatus = *upd.OrderStatus
	}
	if upd.PaymentStatus != nil {
		o.PaymentStatus = *upd.PaymentStatus
	}
	if upd.TrackingNumber != nil {
		o.TrackingNumber = *upd.TrackingNumber
	}
	if upd.Notes != nil {
		o.Notes = *upd.Notes
	}
	now := time.Now().UTC()
	o.UpdatedAt = &now
	r.orders[id] = o
	return nil
}

// matching returns the orders passing the query's filters. Callers hold
// the lock.
func (r *MemoryOrders) matching(q OrderQuery) []models.Order {
	matched := []models.Order{}
	for _, o := range r.orders {
		if q.UserID != "" && o.UserID != q.UserID {
			continue
		}
		if q.OrderStatus != "" && o.OrderStatus != q.OrderStatus {
			continue
		}
		if q.PaymentStatus != "" && o.PaymentStatus != q.PaymentStatus {
			continue
		}
		if q.MinTotal != nil && o.Total < *q.MinTotal {
			continue
		}
		if q.MaxTotal != nil && o.Total > *q.MaxTotal {
			continue
		}
		if q.From != nil && o.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && o.CreatedAt.After(*q.To) {
			continue
		}
		matched = append(matched, o)
	}
	return matched
}
