package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
)

// MemoryProducts is an in-memory ProductRepository for tests and
// development mode. Not for production.
type MemoryProducts struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
}

// NewMemoryProducts creates an empty in-memory product repository.
func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{products: make(map[primitive.ObjectID]models.Product)}
}

// Create inserts a new product.
func (r *MemoryProducts) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = *product
	return nil
}

// Get retrieves a product by ID.
func (r *MemoryProducts) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, cerrors.ErrNotFound
	}
	return &p, nil
}

// Replace overwrites an existing product document.
func (r *MemoryProducts) Replace(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return cerrors.ErrNotFound
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by ID.
func (r *MemoryProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return cerrors.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// List returns products matching the query.
func (r *MemoryProducts) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := r.matching(q)
	r.mu.RUnlock()

	if q.After != nil {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].ID.Hex() < matched[j].ID.Hex()
		})
		after := q.After.Hex()
		cut := []models.Product{}
		for _, p := range matched {
			if p.ID.Hex() > after {
				cut = append(cut, p)
			}
		}
		matched = cut
	} else {
		sortProducts(matched, q)
		if q.Skip > 0 {
			if q.Skip >= int64(len(matched)) {
				matched = nil
			} else {
				matched = matched[q.Skip:]
			}
		}
	}
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	if matched == nil {
		matched = []models.Product{}
	}
	return matched, nil
}

// Count returns the number of products matching the query.
func (r *MemoryProducts) Count(ctx context.Context, q ProductQuery) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(q))), nil
}

// FindByIDs returns the products whose IDs appear in ids.
func (r *MemoryProducts) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := []models.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

// DecrementStock atomically subtracts qty from the named size.
func (r *MemoryProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, size string, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return cerrors.ErrNotFound
	}
	for i, s := range p.Sizes {
		if s.Size == size && s.Stock >= qty {
			p.Sizes[i].Stock -= qty
			r.products[id] = p
			return nil
		}
	}
	return cerrors.ErrNotFound
}

// matching returns the products passing the query's filters. Callers hold
// the lock.
func (r *MemoryProducts) matching(q ProductQuery) []models.Product {
	matched := []models.Product{}
	for _, p := range r.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Brand != "" && p.Brand != q.Brand {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		if q.Size != "" {
			if _, ok := p.SizeStock(q.Size); !ok {
				continue
			}
		}
		if q.InStock != nil && inStock(p) != *q.InStock {
			continue
		}
		if q.Search != "" && !searchMatch(p, q.Search) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func inStock(p models.Product) bool {
	for _, s := range p.Sizes {
		if s.Stock > 0 {
			return true
		}
	}
	return false
}

func searchMatch(p models.Product, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if tag == search {
			return true
		}
	}
	return false
}

func sortProducts(products []models.Product, q ProductQuery) {
	less := func(i, j int) bool {
		// Default: newest first.
		return products[i].CreatedAt.After(products[j].CreatedAt)
	}
	switch q.SortBy {
	case "name":
		less = func(i, j int) bool { return products[i].Name < products[j].Name }
	case "price":
		less = func(i, j int) bool { return products[i].Price < products[j].Price }
	case "created_at":
		less = func(i, j int) bool { return products[i].CreatedAt.Before(products[j].CreatedAt) }
	}
	if q.SortBy != "" && q.SortDesc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(products, less)
}
