package storage

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
)

func seedMemoryProduct(t *testing.T, r *MemoryProducts, name string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:      name,
		Price:     10.00,
		Category:  "c",
		IsActive:  true,
		Sizes:     []models.ProductSize{{Size: "M", Stock: stock}},
		CreatedAt: time.Now().UTC(),
	}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDecrementStock(t *testing.T) {
	r := NewMemoryProducts()
	p := seedMemoryProduct(t, r, "Tee", 5)
	ctx := context.Background()

	if err := r.DecrementStock(ctx, p.ID, "M", 3); err != nil {
		t.Fatalf("DecrementStock() error: %v", err)
	}
	got, _ := r.Get(ctx, p.ID)
	if stock, _ := got.SizeStock("M"); stock != 2 {
		t.Errorf("stock = %d, want 2", stock)
	}

	// More than remains: the precondition fails and nothing changes.
	if err := r.DecrementStock(ctx, p.ID, "M", 3); err != cerrors.ErrNotFound {
		t.Errorf("over-decrement err = %v, want ErrNotFound", err)
	}
	got, _ = r.Get(ctx, p.ID)
	if stock, _ := got.SizeStock("M"); stock != 2 {
		t.Errorf("stock after failed decrement = %d, want 2", stock)
	}

	// Unknown size and unknown product.
	if err := r.DecrementStock(ctx, p.ID, "XXL", 1); err != cerrors.ErrNotFound {
		t.Errorf("unknown size err = %v", err)
	}
	if err := r.DecrementStock(ctx, primitive.NewObjectID(), "M", 1); err != cerrors.ErrNotFound {
		t.Errorf("unknown product err = %v", err)
	}

	// Negative quantity restores stock.
	if err := r.DecrementStock(ctx, p.ID, "M", -3); err != nil {
		t.Fatalf("release error: %v", err)
	}
	got, _ = r.Get(ctx, p.ID)
	if stock, _ := got.SizeStock("M"); stock != 5 {
		t.Errorf("stock after release = %d, want 5", stock)
	}
}

func TestFindByIDs(t *testing.T) {
	r := NewMemoryProducts()
	a := seedMemoryProduct(t, r, "A", 1)
	seedMemoryProduct(t, r, "B", 1)

	found, err := r.FindByIDs(context.Background(), []primitive.ObjectID{a.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("FindByIDs() error: %v", err)
	}
	if len(found) != 1 || found[0].Name != "A" {
		t.Errorf("found = %v", found)
	}

	found, err = r.FindByIDs(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil || len(found) != 0 {
		t.Errorf("empty lookup should return an empty slice, got %v", found)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	r := NewMemoryProducts()
	items, err := r.List(context.Background(), ProductQuery{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if items == nil {
		t.Error("List() returned nil, want empty slice")
	}
}

func TestListSkipBeyondEnd(t *testing.T) {
	r := NewMemoryProducts()
	seedMemoryProduct(t, r, "A", 1)

	items, err := r.List(context.Background(), ProductQuery{Skip: 10, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 || items == nil {
		t.Errorf("items = %v", items)
	}
}

func TestContextCancellation(t *testing.T) {
	r := NewMemoryProducts()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Create(ctx, &models.Product{Name: "X"}); err == nil {
		t.Error("Create with cancelled context should fail")
	}
	if _, err := r.List(ctx, ProductQuery{}); err == nil {
		t.Error("List with cancelled context should fail")
	}
}
