// Command seed-db loads a menu JSON file into PostgreSQL, overwriting any
// existing rows with the same ids. Plain .json and gzipped .json.gz files
// are both accepted. Without -menu-file it loads the embedded reference
// menu, which is also what the API server seeds on startup.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/food-order-api/internal/domain/menu"
	"github.com/xenking/food-order-api/internal/repository"
)

type menuItemJSON struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "", "path to menu JSON file, .gz accepted (default: embedded reference menu)")
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

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	items, err := loadMenu(menuFile)
	if err != nil {
		return errors.Wrap(err, "load menu")
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewMenuRepository(pool)

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	for _, item := range items {
		if err := repo.Upsert(ctx, item); err != nil {
			return errors.Wrapf(err, "upsert menu item %d", item.ID)
		}

		slog.Info("upserted menu item",
			slog.Int64("id", item.ID),
			slog.String("name", item.Name),
			slog.String("price", item.Price.String()),
		)
	}

	return nil
}

func loadMenu(path string) ([]menu.Item, error) {
	if path == "" {
		slog.Info("using embedded reference menu")
		return menu.Reference()
	}

	slog.Info("reading menu file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open menu file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var raw []menuItemJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "parse menu JSON")
	}
	if len(raw) == 0 {
		return nil, errors.New("menu file contains no items")
	}

	items := make([]menu.Item, len(raw))
	for i, m := range raw {
		if m.ID <= 0 {
			return nil, errors.Errorf("menu item %d: id must be positive", i)
		}
		if m.Name == "" {
			return nil, errors.Errorf("menu item %d: name is required", m.ID)
		}
		if m.Price.IsNegative() {
			return nil, errors.Errorf("menu item %d: price must not be negative", m.ID)
		}
		items[i] = menu.Item{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Price:       m.Price,
			Image:       m.Image,
		}
	}
	return items, nil
}
