package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/seller-desk/internal/domain/coupon"
	"github.com/xenking/seller-desk/internal/listquery"
)

const couponWhereSQL = ` FROM coupons
	WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR status = $2)`

const (
	countCouponsSQL = `SELECT count(*)` + couponWhereSQL

	listCouponsSQL = `SELECT id, name, code, discount_type, value, status, expires_at, created_at` +
		couponWhereSQL + `
	ORDER BY created_at DESC, id DESC
	LIMIT $3 OFFSET $4`

	upsertCouponSQL = `INSERT INTO coupons (id, name, code, discount_type, value, status, expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (code) DO UPDATE SET
		name = EXCLUDED.name,
		discount_type = EXCLUDED.discount_type,
		value = EXCLUDED.value,
		status = EXCLUDED.status,
		expires_at = EXCLUDED.expires_at`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// ListPage returns one page of coupons plus the total count from the shared
// predicate.
func (r *CouponRepository) ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[coupon.Coupon], error) {
	status := statusArg(f.HasStatus(), f.Status)

	var total int
	if err := r.pool.QueryRow(ctx, countCouponsSQL, f.Search, status).Scan(&total); err != nil {
		return listquery.Page[coupon.Coupon]{}, fmt.Errorf("counting coupons: %w", err)
	}

	rows, err := r.pool.Query(ctx, listCouponsSQL, f.Search, status, f.PerPage, f.Offset())
	if err != nil {
		return listquery.Page[coupon.Coupon]{}, fmt.Errorf("listing coupons: %w", err)
	}
	coupons, err := pgx.CollectRows(rows, scanCoupon)
	if err != nil {
		return listquery.Page[coupon.Coupon]{}, fmt.Errorf("listing coupons: %w", err)
	}

	return listquery.NewPage(coupons, total, f), nil
}

// Upsert inserts the coupon or refreshes the row sharing its code. Used by
// seeding.
func (r *CouponRepository) Upsert(ctx context.Context, c coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, upsertCouponSQL,
		c.ID, c.Name, c.Code, c.DiscountType, c.Value, c.Status, c.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upserting coupon %q: %w", c.Code, err)
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.DiscountType, &c.Value,
		&c.Status, &c.ExpiresAt, &c.CreatedAt,
	)
	return c, err
}
