package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/domain/order"
	"github.com/xenking/seller-desk/internal/listquery"
)

// orderWhereSQL is shared by the count and the page slice. $3 is an optional
// UTC day: NULL matches all days, otherwise rows created within [$3, $3+1d).
const orderWhereSQL = ` FROM orders
	WHERE ($1 = '' OR customer_name ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR status = $2)
	  AND ($3::timestamptz IS NULL
	       OR (created_at >= $3 AND created_at < $3 + interval '1 day'))`

const (
	countOrdersSQL = `SELECT count(*)` + orderWhereSQL

	listOrdersSQL = `SELECT id, items, customer_name, address, mobile,
		delivery_fee, subtotal, total, status, created_at` +
		orderWhereSQL + `
	ORDER BY created_at DESC, id DESC
	LIMIT $4 OFFSET $5`

	createOrderSQL = `INSERT INTO orders
		(id, items, customer_name, address, mobile, delivery_fee, subtotal, total, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// lineItemJSON is the JSONB shape of one order line.
type lineItemJSON struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Create persists a new order. The line items are serialized to JSON for
// storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := marshalItems(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, itemsJSON, o.CustomerName, o.Address, o.Mobile,
		o.DeliveryFee, o.Subtotal, o.Total, o.Status,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	return nil
}

// ListPage returns one page of orders plus the total count from the shared
// predicate, optionally restricted to a single creation day.
func (r *OrderRepository) ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[order.Order], error) {
	status := statusArg(f.HasStatus(), f.Status)
	day := f.Date

	var total int
	if err := r.pool.QueryRow(ctx, countOrdersSQL, f.Search, status, day).Scan(&total); err != nil {
		return listquery.Page[order.Order]{}, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, listOrdersSQL, f.Search, status, day, f.PerPage, f.Offset())
	if err != nil {
		return listquery.Page[order.Order]{}, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return listquery.Page[order.Order]{}, fmt.Errorf("listing orders: %w", err)
	}

	return listquery.NewPage(orders, total, f), nil
}

func marshalItems(items []order.LineItem) ([]byte, error) {
	out := make([]lineItemJSON, len(items))
	for i, item := range items {
		out[i] = lineItemJSON{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			Size:      item.Size,
			Color:     item.Color,
		}
	}
	return json.Marshal(out)
}

func unmarshalItems(raw []byte) ([]order.LineItem, error) {
	var in []lineItemJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]order.LineItem, len(in))
	for i, item := range in {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %d unit price: %w", i, err)
		}
		out[i] = order.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Size:      item.Size,
			Color:     item.Color,
		}
	}
	return out, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o   order.Order
		raw []byte
	)
	err := row.Scan(
		&o.ID, &raw, &o.CustomerName, &o.Address, &o.Mobile,
		&o.DeliveryFee, &o.Subtotal, &o.Total, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	o.Items, err = unmarshalItems(raw)
	return o, err
}
