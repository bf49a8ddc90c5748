package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/food-order-api/internal/domain/menu"
)

const (
	listMenuItemsSQL = `SELECT id, name, description, price, image
		FROM menu_items ORDER BY id`

	getMenuItemsByIDsSQL = `SELECT id, name, description, price, image
		FROM menu_items WHERE id = ANY($1)`

	insertMenuItemIfAbsentSQL = `INSERT INTO menu_items (id, name, description, price, image)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	upsertMenuItemSQL = `INSERT INTO menu_items (id, name, description, price, image)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    price = EXCLUDED.price,
		    image = EXCLUDED.image`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns all menu items ordered by ID.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByIDs returns menu items matching any of the given IDs.
func (r *MenuRepository) GetByIDs(ctx context.Context, ids []int64) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// Seed populates the catalog with the given items using insert-if-absent
// semantics: rows whose ID already exists are left untouched. Calling Seed
// repeatedly with the same items is a no-op after the first call.
func (r *MenuRepository) Seed(ctx context.Context, items []menu.Item) error {
	for _, item := range items {
		_, err := r.pool.Exec(ctx, insertMenuItemIfAbsentSQL,
			item.ID, item.Name, item.Description, item.Price, item.Image,
		)
		if err != nil {
			return fmt.Errorf("seeding menu item %d: %w", item.ID, err)
		}
	}
	return nil
}

// Upsert inserts or overwrites a single menu item. Used by the seed CLI for
// operator-driven re-seeding; the application itself never overwrites.
func (r *MenuRepository) Upsert(ctx context.Context, item menu.Item) error {
	_, err := r.pool.Exec(ctx, upsertMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Image,
	)
	if err != nil {
		return fmt.Errorf("upserting menu item %d: %w", item.ID, err)
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var (
		item  menu.Item
		price decimal.Decimal
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Image)
	item.Price = price
	return item, err
}
