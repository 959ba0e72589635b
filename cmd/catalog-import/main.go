// Command catalog-import loads supplier catalog feeds into the products
// table. Feeds are gzip-compressed NDJSON, one product per line. Files are
// parsed concurrently; a bloom filter over product IDs skips duplicates
// cheaply when feeds overlap.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
)

type feedProduct struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	FloorPrice *decimal.Decimal `json:"floorPrice"`
	Sizes      []string         `json:"sizes"`
	Colors     []string         `json:"colors"`
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no feed files given: usage: catalog-import [flags] feed.ndjson.gz ...")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	imp := &importer{
		repo: postgres.NewProductRepository(pool),
		seen: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(imp.importFile(ctx, f))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import finished",
		slog.Uint64("imported", imp.imported),
		slog.Uint64("skipped", imp.skipped),
	)
	return nil
}

// importer upserts feed products, skipping IDs already seen in this run. The
// bloom filter can report false positives; a duplicate skipped wrongly only
// means that row keeps its earlier feed's values.
type importer struct {
	repo *postgres.ProductRepository

	mu       sync.Mutex
	seen     *bloom.BloomFilter
	imported uint64
	skipped  uint64
}

// claim reports whether id was first seen now and counts the outcome.
func (imp *importer) claim(id string) bool {
	imp.mu.Lock()
	defer imp.mu.Unlock()

	if imp.seen.TestString(id) {
		imp.skipped++
		return false
	}
	imp.seen.AddString(id)
	imp.imported++
	return true
}

func (imp *importer) importFile(ctx context.Context, path string) func() error {
	return func() error {
		var count uint64

		err := streamGzLines(ctx, path, func(line []byte) error {
			var fp feedProduct
			if err := json.Unmarshal(line, &fp); err != nil {
				return errors.Wrap(err, "parse feed line")
			}
			if fp.ID == "" || fp.Name == "" {
				return errors.Errorf("feed line missing id or name: %s", line)
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("import progress", slog.String("file", path), slog.Uint64("lines", count))
			}

			if !imp.claim(fp.ID) {
				return nil
			}

			var floor decimal.NullDecimal
			if fp.FloorPrice != nil {
				floor = decimal.NewNullDecimal(*fp.FloorPrice)
			}
			return imp.repo.Upsert(ctx, product.Product{
				ID:         fp.ID,
				Name:       fp.Name,
				Price:      fp.Price,
				FloorPrice: floor,
				Sizes:      fp.Sizes,
				Colors:     fp.Colors,
				Status:     product.StatusActive,
			})
		})
		if err != nil {
			return errors.Wrapf(err, "import %s", path)
		}

		slog.Info("file imported", slog.String("file", path), slog.Uint64("lines", count))
		return nil
	}
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
