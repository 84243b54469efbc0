// Package pagination implements the two paging styles exposed by the list
// endpoints: page-number paging with counted metadata, and cursor paging
// with an opaque position marker.
package pagination

import (
	"encoding/base64"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams are the normalized page-number paging parameters.
type PageParams struct {
	Page     int
	PageSize int
}

// NewPageParams clamps page and pageSize into their valid ranges.
// Page starts at 1; pageSize is bounded to [1, MaxPageSize].
func NewPageParams(page, pageSize int) PageParams {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageParams{Page: page, PageSize: pageSize}
}

// Skip is the number of documents to skip in the query.
func (p PageParams) Skip() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// Limit is the maximum number of documents to return.
func (p PageParams) Limit() int64 {
	return int64(p.PageSize)
}

// Meta is the pagination block attached to every list response.
type Meta struct {
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	TotalItems  int64  `json:"total_items"`
	TotalPages  int64  `json:"total_pages"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
	NextCursor  string `json:"next_cursor,omitempty"`
}

// NewMeta computes the metadata for a counted page.
func NewMeta(params PageParams, totalItems int64) Meta {
	var totalPages int64
	if totalItems > 0 {
		totalPages = (totalItems + int64(params.PageSize) - 1) / int64(params.PageSize)
	}
	return Meta{
		Page:        params.Page,
		PageSize:    params.PageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrevious: params.Page > 1,
		HasNext:     int64(params.Page) < totalPages,
	}
}

// EncodeCursor produces the opaque marker for the position after id.
func EncodeCursor(id primitive.ObjectID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.Hex()))
}

// DecodeCursor parses an opaque marker back into an ObjectID.
func DecodeCursor(cursor string) (primitive.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed cursor: %w", err)
	}
	id, err := primitive.ObjectIDFromHex(string(raw))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed cursor: %w", err)
	}
	return id, nil
}
