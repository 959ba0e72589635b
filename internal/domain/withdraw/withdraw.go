// Package withdraw defines seller withdrawal requests and their approval flow.
package withdraw

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/listquery"
)

// ErrNotFound is returned when a requested withdrawal does not exist.
var ErrNotFound = errors.New("withdrawal not found")

// Withdrawal statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Withdrawal is a seller's request to pay out accumulated balance.
type Withdrawal struct {
	ID         string
	SellerName string
	Amount     decimal.Decimal
	Method     string
	AccountNo  string
	Status     string
	CreatedAt  time.Time
}

// Repository defines read and mutation operations for withdrawals.
type Repository interface {
	// ListPage returns the requested page together with the total count,
	// both computed from the same predicate in one call.
	ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[Withdrawal], error)
	// SetStatus moves the withdrawal with the given id to status.
	// Returns ErrNotFound when no such withdrawal exists.
	SetStatus(ctx context.Context, id, status string) error
}
