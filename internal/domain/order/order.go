// Package order implements seller order composition, pricing validation, and
// submission. The Draft type is the in-memory composition model; Service is
// the mutation endpoint behind it.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/listquery"
)

// Order statuses as they move through fulfilment.
const (
	StatusPending   = "pending"
	StatusShipping  = "shipping"
	StatusDelivered = "delivered"
	StatusReturned  = "returned"
)

// LineItem is one row of an order: a catalog product, the quantity sold, the
// unit price the seller agreed to, and optional variant attributes.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Size      string
	Color     string
}

// Order is a persisted seller order.
type Order struct {
	ID           string
	Items        []LineItem
	CustomerName string
	Address      string
	Mobile       string
	DeliveryFee  decimal.Decimal
	Subtotal     decimal.Decimal
	Total        decimal.Decimal
	Status       string
	CreatedAt    time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	// ListPage returns the requested page together with the total count,
	// both computed from the same predicate in one call.
	ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[Order], error)
}
