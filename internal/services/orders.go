package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
	"github.com/threadline-io/threadline/internal/pagination"
	"github.com/threadline-io/threadline/internal/storage"
	apimodels "github.com/threadline-io/threadline/pkg/models"
)

// OrderService implements order operations. Order creation validates the
// referenced products and their inventory before anything is written.
type OrderService struct {
	orders   storage.OrderRepository
	products storage.ProductRepository
	catalog  *ProductService
}

// NewOrderService creates an order service.
func NewOrderService(orders storage.OrderRepository, products storage.ProductRepository) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		catalog:  NewProductService(products),
	}
}

// Create builds and persists an order:
// every referenced product must exist, carry the requested size, and have
// enough stock. Items are enriched with the product name and current price,
// stock is reserved with atomic decrements, and totals are computed as
// subtotal + shipping + tax, rounded to cents.
func (s *OrderService) Create(ctx context.Context, req apimodels.OrderCreate) (*models.Order, error) {
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	found, missing, err := s.catalog.CheckProductsExist(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, cerrors.NewProductsMissing(missing)
	}

	productsByID := make(map[string]models.Product, len(found))
	for _, p := range found {
		productsByID[p.ID.Hex()] = p
	}

	// Validate sizes and stock against the current snapshot first, so a
	// bad order fails before any stock is reserved.
	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product := productsByID[item.ProductID]
		stock, ok := product.SizeStock(item.Size)
		if !ok {
			return nil, cerrors.NewSizeUnavailable(product.Name, item.Size)
		}
		if stock < item.Quantity {
			return nil, cerrors.NewInsufficientStock(product.Name, item.Size, item.Quantity, stock)
		}
		lineSubtotal := models.RoundCents(product.Price * float64(item.Quantity))
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       product.Price,
			Subtotal:    lineSubtotal,
		})
		subtotal += lineSubtotal
	}
	subtotal = models.RoundCents(subtotal)

	// Reserve stock. A concurrent order may have consumed it since the
	// snapshot, so each decrement re-checks availability atomically.
	for i, item := range items {
		oid, _ := primitive.ObjectIDFromHex(item.ProductID)
		if err := s.products.DecrementStock(ctx, oid, item.Size, item.Quantity); err != nil {
			s.releaseStock(ctx, items[:i])
			if err == cerrors.ErrNotFound {
				product := productsByID[item.ProductID]
				stock, _ := product.SizeStock(item.Size)
				return nil, cerrors.NewInsufficientStock(product.Name, item.Size, item.Quantity, stock)
			}
			return nil, cerrors.NewDatabase("update", err)
		}
	}

	order := &models.Order{
		UserID:          req.UserID,
		Items:           items,
		ShippingAddress: models.ShippingAddress(req.ShippingAddress),
		OrderStatus:     models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		Subtotal:        subtotal,
		ShippingCost:    req.ShippingCost,
		Tax:             req.Tax,
		Total:           models.RoundCents(subtotal + req.ShippingCost + req.Tax),
		Notes:           req.Notes,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.releaseStock(ctx, items)
		return nil, cerrors.NewDatabase("insert", err)
	}
	return order, nil
}

// releaseStock returns reserved stock after a failed creation. A negative
// quantity turns the decrement's $inc into an addition, and its stock
// precondition is trivially satisfied.
func (s *OrderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		oid, _ := primitive.ObjectIDFromHex(item.ProductID)
		_ = s.products.DecrementStock(ctx, oid, item.Size, -item.Quantity)
	}
}

// Get retrieves an order by its hex ID.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, cerrors.NewInvalidID(id)
	}
	order, err := s.orders.Get(ctx, oid)
	if err == cerrors.ErrNotFound {
		return nil, cerrors.NewNotFound("Order", id)
	}
	if err != nil {
		return nil, cerrors.NewDatabase("find", err)
	}
	return order, nil
}

// List returns a page of orders matching the filters, newest first.
func (s *OrderService) List(ctx context.Context, filter apimodels.OrderFilter, page pagination.PageParams) (*apimodels.OrderList, error) {
	q := storage.OrderQuery{
		UserID: filter.UserID,
		Skip:   page.Skip(),
		Limit:  page.Limit(),
	}
	if filter.OrderStatus != "" {
		status := models.OrderStatus(filter.OrderStatus)
		if !status.Valid() {
			return nil, cerrors.NewBadRequest("invalid order_status filter")
		}
		q.OrderStatus = status
	}
	if filter.PaymentStatus != "" {
		status := models.PaymentStatus(filter.PaymentStatus)
		if !status.Valid() {
			return nil, cerrors.NewBadRequest("invalid payment_status filter")
		}
		q.PaymentStatus = status
	}
	q.MinTotal = filter.MinTotal
	q.MaxTotal = filter.MaxTotal

	var err error
	if q.From, err = parseDate(filter.DateFrom); err != nil {
		return nil, cerrors.NewBadRequest("invalid date_from: " + filter.DateFrom)
	}
	if q.To, err = parseDate(filter.DateTo); err != nil {
		return nil, cerrors.NewBadRequest("invalid date_to: " + filter.DateTo)
	}

	total, err := s.orders.Count(ctx, q)
	if err != nil {
		return nil, cerrors.NewDatabase("count", err)
	}
	items, err := s.orders.List(ctx, q)
	if err != nil {
		return nil, cerrors.NewDatabase("find", err)
	}
	return &apimodels.OrderList{Items: apiOrders(items), Meta: apiMeta(pagination.NewMeta(page, total))}, nil
}

// UpdateStatus applies an order/payment status change.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req apimodels.OrderUpdate) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, cerrors.NewInvalidID(id)
	}
	if req.OrderStatus == nil && req.PaymentStatus == nil && req.TrackingNumber == nil && req.Notes == nil {
		return nil, cerrors.NewBadRequest("no update data provided")
	}
	var orderStatus *models.OrderStatus
	if req.OrderStatus != nil {
		status := models.OrderStatus(*req.OrderStatus)
		if !status.Valid() {
			return nil, cerrors.NewBadRequest("invalid order status: " + *req.OrderStatus)
		}
		orderStatus = &status
	}
	var paymentStatus *models.PaymentStatus
	if req.PaymentStatus != nil {
		status := models.PaymentStatus(*req.PaymentStatus)
		if !status.Valid() {
			return nil, cerrors.NewBadRequest("invalid payment status: " + *req.PaymentStatus)
		}
		paymentStatus = &status
	}

	upd := storage.OrderStatusUpdate{
		OrderStatus:    orderStatus,
		PaymentStatus:  paymentStatus,
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	}
	if err := s.orders.UpdateStatus(ctx, oid, upd); err != nil {
		if err == cerrors.ErrNotFound {
			return nil, cerrors.NewNotFound("Order", id)
		}
		return nil, cerrors.NewDatabase("update", err)
	}
	return s.Get(ctx, id)
}

// Cancel marks an order cancelled. Orders are never deleted; an already
// cancelled order reports not found.
func (s *OrderService) Cancel(ctx context.Context, id string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.OrderStatus == models.OrderCancelled {
		return cerrors.NewNotFound("Order", id)
	}
	cancelled := models.OrderCancelled
	if err := s.orders.UpdateStatus(ctx, order.ID, storage.OrderStatusUpdate{OrderStatus: &cancelled}); err != nil {
		if err == cerrors.ErrNotFound {
			return cerrors.NewNotFound("Order", id)
		}
		return cerrors.NewDatabase("update", err)
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps or bare dates.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
