// Package models provides the request and response types of the threadline
// public API. They are self-contained wire shapes; the persistence documents
// live in internal/models and are converted at the service boundary.
package models

import "time"

// ProductSizeInput is one size entry of a product create/update request.
type ProductSizeInput struct {
	Size  string `json:"size" binding:"required,min=1,max=50"`
	Stock int    `json:"stock" binding:"min=0"`
}

// ProductCreate is the request body for POST /products.
type ProductCreate struct {
	Name        string             `json:"name" binding:"required,min=1,max=100"`
	Description string             `json:"description" binding:"required,min=1"`
	Price       float64            `json:"price" binding:"required,gt=0"`
	Category    string             `json:"category" binding:"required"`
	Brand       string             `json:"brand"`
	Tags        []string           `json:"tags"`
	IsActive    *bool              `json:"is_active"`
	ImageURLs   []string           `json:"image_urls"`
	Sizes       []ProductSizeInput `json:"sizes" binding:"omitempty,dive"`
}

// ProductUpdate is the request body for PUT /products/:id.
// Nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string            `json:"description" binding:"omitempty,min=1"`
	Price       *float64           `json:"price" binding:"omitempty,gt=0"`
	Category    *string            `json:"category"`
	Brand       *string            `json:"brand"`
	Tags        []string           `json:"tags"`
	IsActive    *bool              `json:"is_active"`
	ImageURLs   []string           `json:"image_urls"`
	Sizes       []ProductSizeInput `json:"sizes" binding:"omitempty,dive"`
}

// Empty reports whether the update carries no changes at all.
func (u *ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Category == nil && u.Brand == nil && u.Tags == nil &&
		u.IsActive == nil && u.ImageURLs == nil && u.Sizes == nil
}

// ProductFilter collects the list-endpoint query filters.
type ProductFilter struct {
	Category  string   `form:"category"`
	Brand     string   `form:"brand"`
	MinPrice  *float64 `form:"min_price"`
	MaxPrice  *float64 `form:"max_price"`
	Size      string   `form:"size"`
	InStock   *bool    `form:"in_stock"`
	Search    string   `form:"search"`
	SortBy    string   `form:"sort_by"`
	SortOrder string   `form:"sort_order"`
}

// ProductSize is one purchasable size of a product with its remaining stock.
type ProductSize struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// Product is a catalog entry as returned by the API.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Category    string        `json:"category"`
	Brand       string        `json:"brand,omitempty"`
	Tags        []string      `json:"tags"`
	IsActive    bool          `json:"is_active"`
	ImageURLs   []string      `json:"image_urls"`
	Sizes       []ProductSize `json:"sizes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at"`
}

// ShippingAddress is the delivery address of an order.
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
}

// OrderItemCreate is one line of an order create request.
type OrderItemCreate struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// OrderCreate is the request body for POST /orders.
type OrderCreate struct {
	UserID          string            `json:"user_id"`
	Items           []OrderItemCreate `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress   `json:"shipping_address" binding:"required"`
	ShippingCost    float64           `json:"shipping_cost" binding:"min=0"`
	Tax             float64           `json:"tax" binding:"min=0"`
	Notes           string            `json:"notes"`
}

// OrderUpdate is the request body for PATCH /orders/:id. Status values are
// plain strings on the wire and validated by the order service.
type OrderUpdate struct {
	OrderStatus    *string `json:"order_status"`
	PaymentStatus  *string `json:"payment_status"`
	TrackingNumber *string `json:"tracking_number"`
	Notes          *string `json:"notes"`
}

// OrderFilter collects the order list-endpoint query filters.
type OrderFilter struct {
	UserID        string   `form:"user_id"`
	OrderStatus   string   `form:"order_status"`
	PaymentStatus string   `form:"payment_status"`
	MinTotal      *float64 `form:"min_total"`
	MaxTotal      *float64 `form:"max_total"`
	DateFrom      string   `form:"date_from"`
	DateTo        string   `form:"date_to"`
}

// OrderItem is a single line of an order as returned by the API.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is an order as returned by the API.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	OrderStatus     string          `json:"order_status"`
	PaymentStatus   string          `json:"payment_status"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shipping_cost"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

// PaginationMeta is the pagination block attached to every list response.
type PaginationMeta struct {
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	TotalItems  int64  `json:"total_items"`
	TotalPages  int64  `json:"total_pages"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
	NextCursor  string `json:"next_cursor,omitempty"`
}

// ProductList is the paginated envelope for product listings.
type ProductList struct {
	Items []Product      `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// OrderList is the paginated envelope for order listings.
type OrderList struct {
	Items []Order        `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error payload produced by the server.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Path    string                 `json:"path,omitempty"`
}

// RootResponse is the payload of GET /.
type RootResponse struct {
	Message        string `json:"message"`
	Version        string `json:"version,omitempty"`
	DocsURL        string `json:"docs_url"`
	HealthEndpoint string `json:"health_endpoint"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
