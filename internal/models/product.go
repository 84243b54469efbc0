// Package models defines the MongoDB document types for the catalog and
// order collections. These are the persistence shapes; the request/response
// shapes live in pkg/models.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	ProductCollection = "products"
	OrderCollection   = "orders"
)

// ProductSize is one purchasable size of a product together with the
// remaining stock for that size.
type ProductSize struct {
	Size  string `bson:"size" json:"size"`
	Stock int    `bson:"stock" json:"stock"`
}

// Product is a catalog entry as stored in MongoDB.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	ImageURLs   []string           `bson:"image_urls" json:"image_urls"`
	Sizes       []ProductSize      `bson:"sizes" json:"sizes"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at" json:"updated_at"`
}

// SizeStock returns the stock for the named size and whether the size exists.
func (p *Product) SizeStock(size string) (int, bool) {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Stock, true
		}
	}
	return 0, false
}
