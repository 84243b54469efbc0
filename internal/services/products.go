// Package services implements the business operations behind the HTTP
// handlers: catalog management and order creation with inventory
// validation.
package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
	"github.com/threadline-io/threadline/internal/pagination"
	"github.com/threadline-io/threadline/internal/storage"
	apimodels "github.com/threadline-io/threadline/pkg/models"
)

// ProductService implements catalog operations.
type ProductService struct {
	products storage.ProductRepository
}

// NewProductService creates a product service.
func NewProductService(products storage.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Create validates and inserts a new product.
func (s *ProductService) Create(ctx context.Context, req apimodels.ProductCreate) (*models.Product, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := validateSizes(req.Sizes); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Tags:        orEmpty(req.Tags),
		IsActive:    active,
		ImageURLs:   orEmpty(req.ImageURLs),
		Sizes:       toSizes(req.Sizes),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, cerrors.NewDatabase("insert", err)
	}
	return product, nil
}

// Get retrieves a product by its hex ID.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, cerrors.NewInvalidID(id)
	}
	product, err := s.products.Get(ctx, oid)
	if err == cerrors.ErrNotFound {
		return nil, cerrors.NewNotFound("Product", id)
	}
	if err != nil {
		return nil, cerrors.NewDatabase("find", err)
	}
	return product, nil
}

// Update applies the non-nil fields of req to an existing product.
func (s *ProductService) Update(ctx context.Context, id string, req apimodels.ProductUpdate) (*models.Product, error) {
	if req.Empty() {
		return nil, cerrors.NewBadRequest("no update data provided")
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Sizes != nil {
		if err := validateSizes(req.Sizes); err != nil {
			return nil, err
		}
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.ImageURLs != nil {
		product.ImageURLs = req.ImageURLs
	}
	if req.Sizes != nil {
		product.Sizes = toSizes(req.Sizes)
	}
	now := time.Now().UTC()
	product.UpdatedAt = &now

	if err := s.products.Replace(ctx, product); err != nil {
		if err == cerrors.ErrNotFound {
			return nil, cerrors.NewNotFound("Product", id)
		}
		return nil, cerrors.NewDatabase("update", err)
	}
	return product, nil
}

// Delete removes a product by its hex ID.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return cerrors.NewInvalidID(id)
	}
	if err := s.products.Delete(ctx, oid); err != nil {
		if err == cerrors.ErrNotFound {
			return cerrors.NewNotFound("Product", id)
		}
		return cerrors.NewDatabase("delete", err)
	}
	return nil
}

// List returns a page of products. When cursor is non-empty it takes
// precedence over the page number and the response meta carries the next
// cursor instead of counted pages.
func (s *ProductService) List(ctx context.Context, filter apimodels.ProductFilter, page pagination.PageParams, cursor string) (*apimodels.ProductList, error) {
	q := storage.ProductQuery{
		Category: filter.Category,
		Brand:    filter.Brand,
		MinPrice: filter.MinPrice,
		MaxPrice: filter.MaxPrice,
		Size:     filter.Size,
		InStock:  filter.InStock,
		Search:   filter.Search,
		SortBy:   filter.SortBy,
		SortDesc: filter.SortOrder == "desc",
		Limit:    page.Limit(),
	}

	if cursor != "" {
		after, err := pagination.DecodeCursor(cursor)
		if err != nil {
			return nil, cerrors.NewBadRequest("invalid cursor")
		}
		q.After = &after
	} else {
		q.Skip = page.Skip()
	}

	total, err := s.products.Count(ctx, q)
	if err != nil {
		return nil, cerrors.NewDatabase("count", err)
	}
	items, err := s.products.List(ctx, q)
	if err != nil {
		return nil, cerrors.NewDatabase("find", err)
	}

	meta := pagination.NewMeta(page, total)
	if int64(len(items)) == page.Limit() && len(items) > 0 {
		meta.NextCursor = pagination.EncodeCursor(items[len(items)-1].ID)
	}
	return &apimodels.ProductList{Items: apiProducts(items), Meta: apiMeta(meta)}, nil
}

// CheckProductsExist resolves hex IDs to products. Malformed IDs count as
// missing rather than failing the whole lookup.
func (s *ProductService) CheckProductsExist(ctx context.Context, ids []string) ([]models.Product, []string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	found, err := s.products.FindByIDs(ctx, oids)
	if err != nil {
		return nil, nil, cerrors.NewDatabase("find", err)
	}

	foundIDs := make(map[string]bool, len(found))
	for _, p := range found {
		foundIDs[p.ID.Hex()] = true
	}
	missing := []string{}
	for _, id := range ids {
		if !foundIDs[id] {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

func validatePrice(price float64) error {
	if models.RoundCents(price) != price {
		return cerrors.NewValidation("price must have at most 2 decimal places", nil)
	}
	return nil
}

func validateSizes(sizes []apimodels.ProductSizeInput) error {
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		key := strings.ToLower(s.Size)
		if seen[key] {
			return cerrors.NewValidation("duplicate sizes are not allowed", map[string]interface{}{"size": s.Size})
		}
		seen[key] = true
	}
	return nil
}

func toSizes(in []apimodels.ProductSizeInput) []models.ProductSize {
	sizes := make([]models.ProductSize, 0, len(in))
	for _, s := range in {
		sizes = append(sizes, models.ProductSize{Size: s.Size, Stock: s.Stock})
	}
	return sizes
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
