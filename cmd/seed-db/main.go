// Command seed-db populates the dashboard database with demo catalog,
// coupon, and withdrawal data so the tables have something to page through.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/domain/coupon"
	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/domain/withdraw"
	"github.com/xenking/seller-desk/internal/storage/postgres"
)

type productJSON struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	FloorPrice *decimal.Decimal `json:"floorPrice"`
	Sizes      []string         `json:"sizes"`
	Colors     []string         `json:"colors"`
	Status     string           `json:"status"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCoupons(ctx, postgres.NewCouponRepository(pool)); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	if err := seedWithdrawals(ctx, postgres.NewWithdrawRepository(pool)); err != nil {
		return errors.Wrap(err, "seed withdrawals")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		status := p.Status
		if status == "" {
			status = product.StatusActive
		}
		var floor decimal.NullDecimal
		if p.FloorPrice != nil {
			floor = decimal.NewNullDecimal(*p.FloorPrice)
		}

		if err := repo.Upsert(ctx, product.Product{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			FloorPrice: floor,
			Sizes:      p.Sizes,
			Colors:     p.Colors,
			Status:     status,
		}); err != nil {
			return err
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedCoupons(ctx context.Context, repo *postgres.CouponRepository) error {
	slog.Info("seeding demo coupons")

	expires := time.Now().AddDate(0, 1, 0)
	coupons := []coupon.Coupon{
		{
			ID:           uuid.New().String(),
			Name:         "Eid Sale",
			Code:         "EID25",
			DiscountType: coupon.DiscountPercentage,
			Value:        decimal.NewFromInt(25),
			Status:       coupon.StatusActive,
			ExpiresAt:    &expires,
		},
		{
			ID:           uuid.New().String(),
			Name:         "Flat Hundred",
			Code:         "FLAT100",
			DiscountType: coupon.DiscountFixed,
			Value:        decimal.NewFromInt(100),
			Status:       coupon.StatusActive,
			ExpiresAt:    &expires,
		},
		{
			ID:           uuid.New().String(),
			Name:         "Winter Clearance",
			Code:         "WINTER10",
			DiscountType: coupon.DiscountPercentage,
			Value:        decimal.NewFromInt(10),
			Status:       coupon.StatusExpired,
		},
	}

	for _, c := range coupons {
		if err := repo.Upsert(ctx, c); err != nil {
			return err
		}
		slog.Info("upserted coupon", slog.String("code", c.Code))
	}

	return nil
}

func seedWithdrawals(ctx context.Context, repo *postgres.WithdrawRepository) error {
	slog.Info("seeding demo withdrawals")

	withdrawals := []withdraw.Withdrawal{
		{
			ID:         uuid.New().String(),
			SellerName: "Karim Traders",
			Amount:     decimal.NewFromInt(12500),
			Method:     "bkash",
			AccountNo:  "01711111111",
			Status:     withdraw.StatusPending,
		},
		{
			ID:         uuid.New().String(),
			SellerName: "Rahim Fashion",
			Amount:     decimal.NewFromInt(8400),
			Method:     "nagad",
			AccountNo:  "01822222222",
			Status:     withdraw.StatusPending,
		},
	}

	for _, w := range withdrawals {
		if err := repo.Upsert(ctx, w); err != nil {
			return err
		}
		slog.Info("upserted withdrawal", slog.String("seller", w.SellerName))
	}

	return nil
}
