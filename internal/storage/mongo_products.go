package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/internal/models"
)

// MongoProducts implements ProductRepository on a MongoDB collection.
type MongoProducts struct {
	coll *mongo.Collection
}

// NewMongoProducts creates the MongoDB product repository.
func NewMongoProducts(db *mongo.Database) *MongoProducts {
	return &MongoProducts{coll: db.Collection(models.ProductCollection)}
}

// Create inserts a new product.
func (r *MongoProducts) Create(ctx context.Context, product *models.Product) error {
	res, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Get retrieves a product by ID.
func (r *MongoProducts) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, cerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// Replace overwrites an existing product document.
func (r *MongoProducts) Replace(ctx context.Context, product *models.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		return cerrors.ErrNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *MongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return cerrors.ErrNotFound
	}
	return nil
}

// List returns products matching the query.
func (r *MongoProducts) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	filter := productFilter(q)

	opts := options.Find()
	if q.After != nil {
		// Cursor paging walks the _id index; combine with the id sort.
		filter["_id"] = bson.M{"$gt": *q.After}
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	} else {
		opts.SetSort(productSort(q))
		if q.Skip > 0 {
			opts.SetSkip(q.Skip)
		}
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the query.
func (r *MongoProducts) Count(ctx context.Context, q ProductQuery) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, productFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// FindByIDs returns the products whose IDs appear in ids.
func (r *MongoProducts) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// DecrementStock atomically subtracts qty from the named size. The filter
// requires the size to exist with at least qty stock, so a concurrent order
// can never drive stock negative.
func (r *MongoProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, size string, qty int) error {
	filter := bson.M{
		"_id":   id,
		"sizes": bson.M{"$elemMatch": bson.M{"size": size, "stock": bson.M{"$gte": qty}}},
	}
	update := bson.M{"$inc": bson.M{"sizes.$.stock": -qty}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return cerrors.ErrNotFound
	}
	return nil
}

// productFilter translates a ProductQuery to a MongoDB filter document,
// ignoring paging options.
func productFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	if q.Size != "" {
		filter["sizes.size"] = q.Size
	}
	// $or groups are collected separately so an in_stock filter and a
	// search filter can coexist under $and.
	var orGroups []bson.M
	if q.InStock != nil {
		if *q.InStock {
			filter["sizes"] = bson.M{"$elemMatch": bson.M{"stock": bson.M{"$gt": 0}}}
		} else {
			orGroups = append(orGroups, bson.M{"$or": bson.A{
				bson.M{"sizes": bson.M{"$size": 0}},
				bson.M{"sizes": bson.M{"$not": bson.M{"$elemMatch": bson.M{"stock": bson.M{"$gt": 0}}}}},
			}})
		}
	}
	if q.Search != "" {
		regex := bson.M{"$regex": q.Search, "$options": "i"}
		orGroups = append(orGroups, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"tags": bson.M{"$in": bson.A{q.Search}}},
		}})
	}
	switch len(orGroups) {
	case 0:
	case 1:
		filter["$or"] = orGroups[0]["$or"]
	default:
		and := bson.A{}
		for _, g := range orGroups {
			and = append(and, g)
		}
		filter["$and"] = and
	}
	return filter
}

// productSort translates the sort options, defaulting to newest first.
func productSort(q ProductQuery) bson.D {
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	switch q.SortBy {
	case "name", "price", "created_at":
		return bson.D{{Key: q.SortBy, Value: dir}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
