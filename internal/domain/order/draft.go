package order

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/pkg/notify"
)

// State is the lifecycle state of a Draft.
type State int

const (
	// StateEditing means the draft accepts mutations and may be submitted.
	StateEditing State = iota
	// StateSubmitting means a submission is in flight; further mutations and
	// submissions are rejected until it settles.
	StateSubmitting
	// StateSubmitted is terminal: the draft was accepted and is discarded.
	StateSubmitted
)

// NotifyKey is the dedupe key for all notifications emitted by a draft
// submission, so the loading entry is replaced by its terminal outcome.
const NotifyKey = "create-order"

var (
	// ErrAnchorLine is returned when removing the first line item, which a
	// draft always keeps.
	ErrAnchorLine = errors.New("the first line item cannot be removed")
	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrDraftSubmitted is returned when mutating an already-submitted draft.
	ErrDraftSubmitted = errors.New("draft already submitted")
	// ErrLineIndex is returned for an out-of-range line item index.
	ErrLineIndex = errors.New("line item index out of range")
)

// FloorPriceError reports the first line item priced below its product's
// floor price. Validation stops at the first offender.
type FloorPriceError struct {
	ProductName string
	Floor       decimal.Decimal
}

func (e *FloorPriceError) Error() string {
	return fmt.Sprintf("Price for product %s should not be less than %s",
		e.ProductName, e.Floor.String())
}

// VariantError reports the first line item whose size or color selection
// does not match what the product offers: missing when the product carries
// variants, or a value outside the offered set.
type VariantError struct {
	ProductName string
	Attribute   string // "size" or "color"
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("select a valid %s for product %s", e.Attribute, e.ProductName)
}

// Totals is the derived pricing summary of a draft. It is recomputed from
// scratch on every call to Draft.Totals; nothing is cached across mutations.
type Totals struct {
	ItemCount int
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
}

// Submitter is the mutation endpoint a draft is submitted to. It returns a
// human-readable success message.
type Submitter interface {
	Submit(ctx context.Context, o *Order) (string, error)
}

// Draft is the in-memory composition model for a new seller order. It is
// created with one blank line item (a draft never has zero lines), mutated by
// user input, and discarded once submitted.
//
// The catalog passed at construction is read-only reference data, fetched
// once per page load; the draft never mutates it.
type Draft struct {
	mu      sync.Mutex
	state   State
	catalog map[string]product.Product

	items        []LineItem
	customerName string
	address      string
	mobile       string
	deliveryFee  decimal.Decimal
}

// NewDraft creates a draft over the given catalog, seeded with one blank
// line item and the default delivery zone.
func NewDraft(catalog []product.Product) *Draft {
	byID := make(map[string]product.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	return &Draft{
		catalog:     byID,
		items:       []LineItem{blankLine()},
		deliveryFee: DefaultZone.Fee,
	}
}

func blankLine() LineItem {
	return LineItem{Quantity: 1}
}

// State returns the draft's current lifecycle state.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// AddLine appends a blank line item. Always allowed while editing.
func (d *Draft) AddLine() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	d.items = append(d.items, blankLine())
	return nil
}

// RemoveLine removes the line item at index. The first line is the protected
// anchor row and cannot be removed, so the draft always keeps at least one
// line item.
func (d *Draft) RemoveLine(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.items) {
		return ErrLineIndex
	}
	// The first line is the anchor row; it has no removal control in the UI
	// and rejecting it here keeps the draft non-empty.
	if index == 0 {
		return ErrAnchorLine
	}
	d.items = append(d.items[:index], d.items[index+1:]...)
	return nil
}

// SelectProduct binds the line item at index to a catalog product. Size and
// color selections that the new product does not offer are reset.
func (d *Draft) SelectProduct(index int, productID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.items) {
		return ErrLineIndex
	}
	p, ok := d.catalog[productID]
	if !ok {
		return product.ErrNotFound
	}

	item := &d.items[index]
	item.ProductID = productID
	if !p.HasSize(item.Size) {
		item.Size = ""
	}
	if !p.HasColor(item.Color) {
		item.Color = ""
	}
	return nil
}

// UpdateLine applies fn to the line item at index. It is the single entry
// point for quantity, price, size, and color edits.
func (d *Draft) UpdateLine(index int, fn func(*LineItem)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.items) {
		return ErrLineIndex
	}
	fn(&d.items[index])
	return nil
}

// SetShipping updates the customer shipping details.
func (d *Draft) SetShipping(customerName, address, mobile string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	d.customerName = customerName
	d.address = address
	d.mobile = mobile
	return nil
}

// SetDeliveryFee selects a delivery zone by its fee. Fees outside the
// enumerated zone set are rejected.
func (d *Draft) SetDeliveryFee(fee decimal.Decimal) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if !ValidZoneFee(fee) {
		return errors.Errorf("unknown delivery fee %s", fee)
	}
	d.deliveryFee = fee
	return nil
}

// Lines returns a copy of the current line items.
func (d *Draft) Lines() []LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Totals derives the pricing summary from the current draft state. It is a
// pure function of the line items and delivery fee; callers invoke it after
// every mutation instead of relying on a cached value.
func (d *Draft) Totals() Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return computeTotals(d.items, d.deliveryFee)
}

func computeTotals(items []LineItem, deliveryFee decimal.Decimal) Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, item := range items {
		t.ItemCount += item.Quantity
		qty := decimal.NewFromInt(int64(item.Quantity))
		t.Subtotal = t.Subtotal.Add(item.UnitPrice.Mul(qty))
	}
	t.Total = t.Subtotal.Add(deliveryFee)
	return t
}

// Validate checks every line item against its product's floor price and
// offered variants. The first line priced strictly below the floor yields a
// FloorPriceError; products without a floor price always pass. A line whose
// size or color is absent or not offered by its product yields a
// VariantError.
func (d *Draft) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return validateLines(d.items, d.catalog)
}

func validateLines(items []LineItem, catalog map[string]product.Product) error {
	if err := validateFloorPrices(items, catalog); err != nil {
		return err
	}
	return validateVariants(items, catalog)
}

func validateFloorPrices(items []LineItem, catalog map[string]product.Product) error {
	for _, item := range items {
		p, ok := catalog[item.ProductID]
		if !ok || !p.FloorPrice.Valid {
			continue
		}
		if item.UnitPrice.LessThan(p.FloorPrice.Decimal) {
			return &FloorPriceError{ProductName: p.Name, Floor: p.FloorPrice.Decimal}
		}
	}
	return nil
}

func validateVariants(items []LineItem, catalog map[string]product.Product) error {
	for _, item := range items {
		p, ok := catalog[item.ProductID]
		if !ok {
			continue
		}
		if !variantAllowed(item.Size, p.Sizes) {
			return &VariantError{ProductName: p.Name, Attribute: "size"}
		}
		if !variantAllowed(item.Color, p.Colors) {
			return &VariantError{ProductName: p.Name, Attribute: "color"}
		}
	}
	return nil
}

// A selection is allowed when it names one of the offered values, or is
// empty for a product that offers none.
func variantAllowed(value string, offered []string) bool {
	if len(offered) == 0 {
		return value == ""
	}
	return slices.Contains(offered, value)
}

// Submit validates the draft and sends it to the submitter.
//
// Transitions: Editing -> Submitting -> Submitted on success; validation
// rejection and submission failure both return the draft to Editing with all
// entered values preserved. At most one submission is in flight at a time;
// concurrent attempts get ErrSubmitInFlight. Progress is surfaced through
// the notifier under the NotifyKey dedupe key.
func (d *Draft) Submit(ctx context.Context, submitter Submitter, notifier notify.Notifier) error {
	d.mu.Lock()
	switch d.state {
	case StateSubmitting:
		d.mu.Unlock()
		return ErrSubmitInFlight
	case StateSubmitted:
		d.mu.Unlock()
		return ErrDraftSubmitted
	}

	if err := validateLines(d.items, d.catalog); err != nil {
		d.mu.Unlock()
		notifier.Notify(notify.Notification{
			Kind: notify.KindError, Message: err.Error(), Key: NotifyKey,
		})
		return err
	}

	d.state = StateSubmitting
	o := d.buildOrderLocked()
	d.mu.Unlock()

	notifier.Notify(notify.Notification{
		Kind: notify.KindLoading, Message: "Creating order...", Key: NotifyKey,
	})

	msg, err := submitter.Submit(ctx, o)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = StateEditing
		notifier.Notify(notify.Notification{
			Kind: notify.KindError, Message: err.Error(), Key: NotifyKey,
		})
		return err
	}

	d.state = StateSubmitted
	notifier.Notify(notify.Notification{
		Kind: notify.KindSuccess, Message: msg, Key: NotifyKey,
	})
	return nil
}

// buildOrderLocked snapshots the draft into an Order. Caller holds d.mu.
func (d *Draft) buildOrderLocked() *Order {
	items := make([]LineItem, len(d.items))
	copy(items, d.items)
	return &Order{
		Items:        items,
		CustomerName: d.customerName,
		Address:      d.address,
		Mobile:       d.mobile,
		DeliveryFee:  d.deliveryFee,
	}
}

func (d *Draft) editable() error {
	switch d.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSubmitted:
		return ErrDraftSubmitted
	}
	return nil
}
