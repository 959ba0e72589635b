// Package product defines the catalog entities the dashboard lists and the
// order flow prices against. Catalog data is read-only reference data from
// the order composition model's point of view.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/listquery"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Listing statuses for catalog products.
const (
	StatusActive = "active"
	StatusHidden = "hidden"
)

// Product represents a catalog item.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	// FloorPrice is the seller's minimum acceptable unit price. Orders may
	// not price this product below it. Invalid means no floor is set.
	FloorPrice decimal.NullDecimal
	// Sizes and Colors are the variant values available for this product.
	// Empty means the product has no such variant axis.
	Sizes     []string
	Colors    []string
	Status    string
	CreatedAt time.Time
}

// HasSize reports whether size is one of the product's available sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether color is one of the product's available colors.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// Repository defines read and delete operations for the product catalog.
type Repository interface {
	// ListPage returns the requested page together with the total count,
	// both computed from the same predicate in one call.
	ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[Product], error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Delete(ctx context.Context, id string) error
}
