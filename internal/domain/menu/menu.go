// Package menu defines the catalog item model and its read-only repository.
package menu

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/food-order-api/db"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item represents a dish available for ordering. Items are seeded once at
// startup and immutable afterward from the application's point of view.
type Item struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	// List returns all seeded items in insertion order.
	List(ctx context.Context) ([]Item, error)
	// GetByIDs returns the items matching any of the given IDs. Missing IDs
	// are simply absent from the result; no error is returned for them.
	GetByIDs(ctx context.Context, ids []int64) ([]Item, error)
}

// seedItem mirrors the JSON shape of the embedded reference menu.
type seedItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

// Reference returns the fixed reference menu embedded in the binary.
func Reference() ([]Item, error) {
	var raw []seedItem
	if err := json.Unmarshal(db.SeedMenu, &raw); err != nil {
		return nil, errors.Wrap(err, "parse embedded menu")
	}

	items := make([]Item, len(raw))
	for i, s := range raw {
		items[i] = Item{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Image:       s.Image,
		}
	}
	return items, nil
}
