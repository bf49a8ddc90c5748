package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/food-order-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (customer_name, customer_email, customer_phone, customer_address, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_date`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, menu_item_id, quantity, price_per_item)
		VALUES ($1, $2, $3, $4)`
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

// Create persists the order header and all line items inside one
// transaction. The header insert runs first because the lines reference its
// generated identifier; if any insert fails the deferred rollback discards
// everything, so a partially written order is never observable.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var address *string
	if o.Customer.Address != "" {
		address = &o.Customer.Address
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.Customer.Name, o.Customer.Email, o.Customer.Phone, address, o.Total,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting order header: %w", err)
	}

	batch := &pgx.Batch{}
	for _, line := range o.Lines {
		batch.Queue(insertOrderItemSQL, o.ID, line.ItemID, line.Quantity, line.UnitPrice)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range o.Lines {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("inserting order line %d for order %d: %w", i, o.ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("closing line item batch for order %d: %w", o.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing order %d: %w", o.ID, err)
	}

	return o.ID, nil
}
