package services

import (
	"github.com/threadline-io/threadline/internal/models"
	"github.com/threadline-io/threadline/internal/pagination"
	apimodels "github.com/threadline-io/threadline/pkg/models"
)

// APIProduct converts a catalog document into its wire representation.
func APIProduct(p models.Product) apimodels.Product {
	sizes := make([]apimodels.ProductSize, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, apimodels.ProductSize(s))
	}
	return apimodels.Product{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Brand:       p.Brand,
		Tags:        p.Tags,
		IsActive:    p.IsActive,
		ImageURLs:   p.ImageURLs,
		Sizes:       sizes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// APIOrder converts an order document into its wire representation.
func APIOrder(o models.Order) apimodels.Order {
	items := make([]apimodels.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, apimodels.OrderItem(it))
	}
	return apimodels.Order{
		ID:              o.ID.Hex(),
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: apimodels.ShippingAddress(o.ShippingAddress),
		OrderStatus:     string(o.OrderStatus),
		PaymentStatus:   string(o.PaymentStatus),
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		Total:           o.Total,
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func apiProducts(docs []models.Product) []apimodels.Product {
	out := make([]apimodels.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, APIProduct(d))
	}
	return out
}

func apiOrders(docs []models.Order) []apimodels.Order {
	out := make([]apimodels.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, APIOrder(d))
	}
	return out
}

func apiMeta(m pagination.Meta) apimodels.PaginationMeta {
	return apimodels.PaginationMeta(m)
}
