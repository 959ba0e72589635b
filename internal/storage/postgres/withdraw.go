package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/seller-desk/internal/domain/withdraw"
	"github.com/xenking/seller-desk/internal/listquery"
)

const withdrawWhereSQL = ` FROM withdrawals
	WHERE ($1 = '' OR seller_name ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR status = $2)`

const (
	countWithdrawalsSQL = `SELECT count(*)` + withdrawWhereSQL

	listWithdrawalsSQL = `SELECT id, seller_name, amount, method, account_no, status, created_at` +
		withdrawWhereSQL + `
	ORDER BY created_at DESC, id DESC
	LIMIT $3 OFFSET $4`

	setWithdrawalStatusSQL = `UPDATE withdrawals SET status = $2 WHERE id = $1`

	upsertWithdrawalSQL = `INSERT INTO withdrawals (id, seller_name, amount, method, account_no, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		seller_name = EXCLUDED.seller_name,
		amount = EXCLUDED.amount,
		method = EXCLUDED.method,
		account_no = EXCLUDED.account_no,
		status = EXCLUDED.status`
)

var _ withdraw.Repository = (*WithdrawRepository)(nil)

// WithdrawRepository implements withdraw.Repository backed by PostgreSQL.
type WithdrawRepository struct {
	pool *pgxpool.Pool
}

// NewWithdrawRepository returns a WithdrawRepository that uses the given pool.
func NewWithdrawRepository(pool *pgxpool.Pool) *WithdrawRepository {
	return &WithdrawRepository{pool: pool}
}

// ListPage returns one page of withdrawals plus the total count from the
// shared predicate.
func (r *WithdrawRepository) ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[withdraw.Withdrawal], error) {
	status := statusArg(f.HasStatus(), f.Status)

	var total int
	if err := r.pool.QueryRow(ctx, countWithdrawalsSQL, f.Search, status).Scan(&total); err != nil {
		return listquery.Page[withdraw.Withdrawal]{}, fmt.Errorf("counting withdrawals: %w", err)
	}

	rows, err := r.pool.Query(ctx, listWithdrawalsSQL, f.Search, status, f.PerPage, f.Offset())
	if err != nil {
		return listquery.Page[withdraw.Withdrawal]{}, fmt.Errorf("listing withdrawals: %w", err)
	}
	withdrawals, err := pgx.CollectRows(rows, scanWithdrawal)
	if err != nil {
		return listquery.Page[withdraw.Withdrawal]{}, fmt.Errorf("listing withdrawals: %w", err)
	}

	return listquery.NewPage(withdrawals, total, f), nil
}

// SetStatus moves a withdrawal to the given status.
func (r *WithdrawRepository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, setWithdrawalStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating withdrawal %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return withdraw.ErrNotFound
	}
	return nil
}

// Upsert inserts the withdrawal or refreshes an existing row. Used by
// seeding.
func (r *WithdrawRepository) Upsert(ctx context.Context, w withdraw.Withdrawal) error {
	_, err := r.pool.Exec(ctx, upsertWithdrawalSQL,
		w.ID, w.SellerName, w.Amount, w.Method, w.AccountNo, w.Status,
	)
	if err != nil {
		return fmt.Errorf("upserting withdrawal %q: %w", w.ID, err)
	}
	return nil
}

func scanWithdrawal(row pgx.CollectableRow) (withdraw.Withdrawal, error) {
	var w withdraw.Withdrawal
	err := row.Scan(
		&w.ID, &w.SellerName, &w.Amount, &w.Method,
		&w.AccountNo, &w.Status, &w.CreatedAt,
	)
	return w, err
}
