package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/listquery"
)

// productWhereSQL is the single predicate shared by the count and the page
// slice. $1 is the search term ('' matches all), $2 the status ('' matches
// all).
const productWhereSQL = ` FROM products
	WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR status = $2)`

const (
	countProductsSQL = `SELECT count(*)` + productWhereSQL

	listProductsSQL = `SELECT id, name, price, floor_price, sizes, colors, status, created_at` +
		productWhereSQL + `
	ORDER BY created_at DESC, id DESC
	LIMIT $3 OFFSET $4`

	getProductByIDSQL = `SELECT id, name, price, floor_price, sizes, colors, status, created_at
	FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, name, price, floor_price, sizes, colors, status, created_at
	FROM products WHERE id = ANY($1)`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, name, price, floor_price, sizes, colors, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		floor_price = EXCLUDED.floor_price,
		sizes = EXCLUDED.sizes,
		colors = EXCLUDED.colors,
		status = EXCLUDED.status`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// ListPage returns one page of products plus the total count. Count and slice
// run inside the same call against the same predicate; the count may be
// momentarily stale relative to the slice under concurrent writes, which the
// dashboard accepts.
func (r *ProductRepository) ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[product.Product], error) {
	status := statusArg(f.HasStatus(), f.Status)

	var total int
	if err := r.pool.QueryRow(ctx, countProductsSQL, f.Search, status).Scan(&total); err != nil {
		return listquery.Page[product.Product]{}, fmt.Errorf("counting products: %w", err)
	}

	rows, err := r.pool.Query(ctx, listProductsSQL, f.Search, status, f.PerPage, f.Offset())
	if err != nil {
		return listquery.Page[product.Product]{}, fmt.Errorf("listing products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return listquery.Page[product.Product]{}, fmt.Errorf("listing products: %w", err)
	}

	return listquery.NewPage(products, total, f), nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Delete removes a product. Returns product.ErrNotFound when no row matched.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Upsert inserts the product or refreshes an existing row. Used by seeding
// and catalog import.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Price, p.FloorPrice, p.Sizes, p.Colors, p.Status,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.FloorPrice,
		&p.Sizes, &p.Colors, &p.Status, &p.CreatedAt,
	)
	return p, err
}
