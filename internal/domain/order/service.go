package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/seller-desk/internal/domain/product"
)

// Sentinel errors for order submission.
var (
	ErrEmptyItems      = errors.New("items required")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidFee      = errors.New("delivery fee must be one of the zone fees")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// Service encapsulates order submission business logic. It re-runs the
// floor-price gate server side so a draft cannot bypass it.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// Submit validates the order's line items against the catalog, derives the
// totals, persists the order as pending, and returns a success message.
// Implements the Draft Submitter interface.
func (s *Service) Submit(ctx context.Context, o *Order) (string, error) {
	if len(o.Items) == 0 {
		return "", ErrEmptyItems
	}
	if !ValidZoneFee(o.DeliveryFee) {
		return "", ErrInvalidFee
	}

	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return "", &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	// Batch fetch all referenced products in a single query.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return "", errors.Wrap(err, "get products")
	}
	catalog := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		catalog[p.ID] = p
	}
	for _, item := range o.Items {
		if _, ok := catalog[item.ProductID]; !ok {
			return "", &ProductNotFoundError{ProductID: item.ProductID}
		}
	}

	// Floor-price and variant gates: same predicates the draft applies.
	if err := validateLines(o.Items, catalog); err != nil {
		return "", err
	}

	totals := computeTotals(o.Items, o.DeliveryFee)

	o.ID = uuid.New().String()
	o.Subtotal = totals.Subtotal.Round(2)
	o.Total = totals.Total.Round(2)
	o.Status = StatusPending

	if err := s.orders.Create(ctx, o); err != nil {
		return "", errors.Wrap(err, "create order")
	}

	return fmt.Sprintf("Order created for %s", o.CustomerName), nil
}
