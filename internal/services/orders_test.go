package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
	"github.com/threadline-io/threadline/internal/pagination"
	"github.com/threadline-io/threadline/internal/storage"
	apimodels "github.com/threadline-io/threadline/pkg/models"
)

func newOrderFixture(t *testing.T) (*OrderService, *ProductService, *storage.MemoryProducts) {
	t.Helper()
	products := storage.NewMemoryProducts()
	orders := storage.NewMemoryOrders()
	return NewOrderService(orders, products), NewProductService(products), products
}

func seedProduct(t *testing.T, catalog *ProductService, name string, price float64, sizes ...apimodels.ProductSizeInput) *models.Product {
	t.Helper()
	p, err := catalog.Create(context.Background(), apimodels.ProductCreate{
		Name:        name,
		Description: "test",
		Price:       price,
		Category:    "t-shirts",
		Sizes:       sizes,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func address() apimodels.ShippingAddress {
	return apimodels.ShippingAddress{
		FullName:     "Ada Lovelace",
		AddressLine1: "1 Analytical Way",
		City:         "London",
		State:        "LDN",
		PostalCode:   "E1 6AN",
		Country:      "UK",
	}
}

func TestOrderCreateEnrichesAndTotals(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 10})
	jeans := seedProduct(t, catalog, "Jeans", 59.99, apimodels.ProductSizeInput{Size: "32", Stock: 4})

	order, err := svc.Create(context.Background(), apimodels.OrderCreate{
		UserID: "u1",
		Items: []apimodels.OrderItemCreate{
			{ProductID: tee.ID.Hex(), Size: "M", Quantity: 3},
			{ProductID: jeans.ID.Hex(), Size: "32", Quantity: 1},
		},
		ShippingAddress: address(),
		ShippingCost:    7.50,
		Tax:             4.25,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if order.OrderStatus != models.OrderPending || order.PaymentStatus != models.PaymentPending {
		t.Errorf("statuses = %s/%s", order.OrderStatus, order.PaymentStatus)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d", len(order.Items))
	}
	if order.Items[0].ProductName != "Tee" || order.Items[0].Price != 19.99 || order.Items[0].Subtotal != 59.97 {
		t.Errorf("first item = %+v", order.Items[0])
	}
	if order.Subtotal != 119.96 {
		t.Errorf("subtotal = %v", order.Subtotal)
	}
	if order.Total != 131.71 {
		t.Errorf("total = %v", order.Total)
	}

	// Stock was reserved.
	stocked, err := catalog.Get(context.Background(), tee.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if stock, _ := stocked.SizeStock("M"); stock != 7 {
		t.Errorf("tee stock = %d, want 7", stock)
	}
}

func TestOrderCreateMissingProducts(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 10})

	_, err := svc.Create(context.Background(), apimodels.OrderCreate{
		Items: []apimodels.OrderItemCreate{
			{ProductID: tee.ID.Hex(), Size: "M", Quantity: 1},
			{ProductID: "507f1f77bcf86cd799439099", Size: "M", Quantity: 1},
			{ProductID: "not-a-hex-id", Size: "M", Quantity: 1},
		},
		ShippingAddress: address(),
	})
	apiErr, ok := cerrors.AsAPIError(err)
	if !ok || apiErr.Status != 404 {
		t.Fatalf("err = %v", err)
	}
	missing := apiErr.Details["missing_product_ids"].([]string)
	if len(missing) != 2 {
		t.Errorf("missing = %v, want both the unknown and the malformed id", missing)
	}
}

func TestOrderCreateSizeUnavailable(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 10})

	_, err := svc.Create(context.Background(), apimodels.OrderCreate{
		Items:           []apimodels.OrderItemCreate{{ProductID: tee.ID.Hex(), Size: "XXL", Quantity: 1}},
		ShippingAddress: address(),
	})
	apiErr, ok := cerrors.AsAPIError(err)
	if !ok || apiErr.Status != 400 {
		t.Fatalf("err = %v", err)
	}
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 2})

	_, err := svc.Create(context.Background(), apimodels.OrderCreate{
		Items:           []apimodels.OrderItemCreate{{ProductID: tee.ID.Hex(), Size: "M", Quantity: 3}},
		ShippingAddress: address(),
	})
	apiErr, ok := cerrors.AsAPIError(err)
	if !ok || apiErr.Status != 409 {
		t.Fatalf("err = %v", err)
	}
	if apiErr.Details["available"] != 2 || apiErr.Details["requested"] != 3 {
		t.Errorf("details = %v", apiErr.Details)
	}

	// Nothing was reserved.
	p, _ := catalog.Get(context.Background(), tee.ID.Hex())
	if stock, _ := p.SizeStock("M"); stock != 2 {
		t.Errorf("stock = %d, want 2", stock)
	}
}

// contendedProducts simulates a concurrent order consuming stock between
// the validation snapshot and the reservation: decrements against loseID
// fail as if the stock had just run out.
type contendedProducts struct {
	*storage.MemoryProducts
	loseID primitive.ObjectID
}

func (c *contendedProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, size string, qty int) error {
	if id == c.loseID && qty > 0 {
		return cerrors.ErrNotFound
	}
	return c.MemoryProducts.DecrementStock(ctx, id, size, qty)
}

func TestOrderCreateReleasesReservedStockOnFailure(t *testing.T) {
	mem := storage.NewMemoryProducts()
	catalog := NewProductService(mem)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 10})
	hoodie := seedProduct(t, catalog, "Hoodie", 44.50, apimodels.ProductSizeInput{Size: "L", Stock: 1})

	contended := &contendedProducts{MemoryProducts: mem, loseID: hoodie.ID}
	svc := NewOrderService(storage.NewMemoryOrders(), contended)

	_, err := svc.Create(context.Background(), apimodels.OrderCreate{
		Items: []apimodels.OrderItemCreate{
			{ProductID: tee.ID.Hex(), Size: "M", Quantity: 2},
			{ProductID: hoodie.ID.Hex(), Size: "L", Quantity: 1},
		},
		ShippingAddress: address(),
	})
	apiErr, ok := cerrors.AsAPIError(err)
	if !ok || apiErr.Status != 409 {
		t.Fatalf("err = %v, want insufficient stock", err)
	}

	// The tee reservation was rolled back.
	p, _ := catalog.Get(context.Background(), tee.ID.Hex())
	if stock, _ := p.SizeStock("M"); stock != 10 {
		t.Errorf("tee stock = %d, want 10 after rollback", stock)
	}
}

func TestOrderListFilters(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 100})

	for _, user := range []string{"u1", "u1", "u2"} {
		_, err := svc.Create(context.Background(), apimodels.OrderCreate{
			UserID:          user,
			Items:           []apimodels.OrderItemCreate{{ProductID: tee.ID.Hex(), Size: "M", Quantity: 1}},
			ShippingAddress: address(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	page := pagination.NewPageParams(1, 10)
	list, err := svc.List(context.Background(), apimodels.OrderFilter{UserID: "u1"}, page)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list.Items) != 2 || list.Meta.TotalItems != 2 {
		t.Errorf("u1 orders = %d (total %d), want 2", len(list.Items), list.Meta.TotalItems)
	}

	if _, err := svc.List(context.Background(), apimodels.OrderFilter{OrderStatus: "lost"}, page); err == nil {
		t.Error("invalid status filter should fail")
	}
	if _, err := svc.List(context.Background(), apimodels.OrderFilter{DateFrom: "yesterday"}, page); err == nil {
		t.Error("invalid date filter should fail")
	}
	if _, err := svc.List(context.Background(), apimodels.OrderFilter{DateFrom: "2026-01-01"}, page); err != nil {
		t.Errorf("bare date should parse: %v", err)
	}
}

func TestOrderCancelSemantics(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 10})

	order, err := svc.Create(context.Background(), apimodels.OrderCreate{
		Items:           []apimodels.OrderItemCreate{{ProductID: tee.ID.Hex(), Size: "M", Quantity: 1}},
		ShippingAddress: address(),
	})
	if err != nil {
		t.Fatal(err)
	}
	id := order.ID.Hex()

	if err := svc.Cancel(context.Background(), id); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if got.OrderStatus != models.OrderCancelled {
		t.Errorf("status = %s", got.OrderStatus)
	}

	err = svc.Cancel(context.Background(), id)
	apiErr, ok := cerrors.AsAPIError(err)
	if !ok || apiErr.Status != 404 {
		t.Errorf("second cancel err = %v, want 404", err)
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	svc, catalog, _ := newOrderFixture(t)
	tee := seedProduct(t, catalog, "Tee", 19.99, apimodels.ProductSizeInput{Size: "M", Stock: 10})

	order, err := svc.Create(context.Background(), apimodels.OrderCreate{
		Items:           []apimodels.OrderItemCreate{{ProductID: tee.ID.Hex(), Size: "M", Quantity: 1}},
		ShippingAddress: address(),
	})
	if err != nil {
		t.Fatal(err)
	}
	id := order.ID.Hex()

	shipped := string(models.OrderShipped)
	paid := string(models.PaymentPaid)
	tracking := "TRK123"
	updated, err := svc.UpdateStatus(context.Background(), id, apimodels.OrderUpdate{
		OrderStatus:    &shipped,
		PaymentStatus:  &paid,
		TrackingNumber: &tracking,
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.OrderStatus != models.OrderShipped || updated.PaymentStatus != models.PaymentPaid {
		t.Errorf("statuses = %s/%s", updated.OrderStatus, updated.PaymentStatus)
	}
	if updated.TrackingNumber != "TRK123" {
		t.Errorf("tracking = %q", updated.TrackingNumber)
	}
	if updated.UpdatedAt == nil {
		t.Error("updated_at not bumped")
	}

	if _, err := svc.UpdateStatus(context.Background(), id, apimodels.OrderUpdate{}); err == nil {
		t.Error("empty update should fail")
	}

	bogus := "teleported"
	if _, err := svc.UpdateStatus(context.Background(), id, apimodels.OrderUpdate{OrderStatus: &bogus}); err == nil {
		t.Error("invalid status should fail")
	}
}
