package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline-io/threadline/internal/models"
)

func TestAPIConversions(t *testing.T) {
	id := primitive.NewObjectID()
	now := time.Now().UTC()

	product := models.Product{
		ID:        id,
		Name:      "Tee",
		Sizes:     []models.ProductSize{{Size: "M", Stock: 3}},
		CreatedAt: now,
	}
	wireProduct := APIProduct(product)
	if wireProduct.ID != id.Hex() {
		t.Errorf("product ID = %q, want hex %q", wireProduct.ID, id.Hex())
	}
	if len(wireProduct.Sizes) != 1 || wireProduct.Sizes[0].Size != "M" || wireProduct.Sizes[0].Stock != 3 {
		t.Errorf("product sizes = %+v", wireProduct.Sizes)
	}

	order := models.Order{
		ID:            id,
		Items:         []models.OrderItem{{ProductID: "p1", Size: "M", Quantity: 2, Subtotal: 39.98}},
		OrderStatus:   models.OrderShipped,
		PaymentStatus: models.PaymentPaid,
		CreatedAt:     now,
	}
	wireOrder := APIOrder(order)
	if wireOrder.ID != id.Hex() {
		t.Errorf("order ID = %q, want hex %q", wireOrder.ID, id.Hex())
	}
	if wireOrder.OrderStatus != "shipped" || wireOrder.PaymentStatus != "paid" {
		t.Errorf("statuses = %s/%s", wireOrder.OrderStatus, wireOrder.PaymentStatus)
	}
	if len(wireOrder.Items) != 1 || wireOrder.Items[0].Subtotal != 39.98 {
		t.Errorf("items = %+v", wireOrder.Items)
	}
}
