package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
)

// MongoOrders implements OrderRepository on a MongoDB collection.
type MongoOrders struct {
	coll *mongo.Collection
}

// NewMongoOrders creates the MongoDB order repository.
func NewMongoOrders(db *mongo.Database) *MongoOrders {
	return &MongoOrders{coll: db.Collection(models.OrderCollection)}
}

// Create inserts a new order.
func (r *MongoOrders) Create(ctx context.Context, order *models.Order) error {
	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Get retrieves an order by ID.
func (r *MongoOrders) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, cerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// List returns orders matching the query, newest first.
func (r *MongoOrders) List(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.coll.Find(ctx, orderFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// Count returns the number of orders matching the query.
func (r *MongoOrders) Count(ctx context.Context, q OrderQuery) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, orderFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// UpdateStatus applies the non-nil fields of upd and bumps updated_at.
func (r *MongoOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, upd OrderStatusUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.OrderStatus != nil {
		set["order_status"] = *upd.OrderStatus
	}
	if upd.PaymentStatus != nil {
		set["payment_status"] = *upd.PaymentStatus
	}
	if upd.TrackingNumber != nil {
		set["tracking_number"] = *upd.TrackingNumber
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return cerrors.ErrNotFound
	}
	return nil
}

// orderFilter translates an OrderQuery to a MongoDB filter document.
func orderFilter(q OrderQuery) bson.M {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user_id"] = q.UserID
	}
	if q.OrderStatus != "" {
		filter["order_status"] = q.OrderStatus
	}
	if q.PaymentStatus != "" {
		filter["payment_status"] = q.PaymentStatus
	}
	if q.MinTotal != nil || q.MaxTotal != nil {
		total := bson.M{}
		if q.MinTotal != nil {
			total["$gte"] = *q.MinTotal
		}
		if q.MaxTotal != nil {
			total["$lte"] = *q.MaxTotal
		}
		filter["total"] = total
	}
	if q.From != nil || q.To != nil {
		created := bson.M{}
		if q.From != nil {
			created["$gte"] = *q.From
		}
		if q.To != nil {
			created["$lte"] = *q.To
		}
		filter["created_at"] = created
	}
	return filter
}
