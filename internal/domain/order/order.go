// Package order implements the order submission flow: validation of a cart
// payload and atomic persistence of the order header with its line items.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the fixed tax applied to the cart subtotal at checkout.
var TaxRate = decimal.NewFromFloat(0.05)

// Customer holds the contact details captured with an order. Address is the
// only optional field.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Line is a single (item, quantity, price) entry of an order. UnitPrice is
// the price snapshot taken when the item was added to the cart; it is
// persisted as-is to preserve historical accuracy across menu repricing.
type Line struct {
	ItemID    int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the header record created once per successful checkout. It is
// never updated or deleted.
type Order struct {
	ID        int64
	Customer  Customer
	Lines     []Line
	Total     decimal.Decimal
	CreatedAt time.Time
}

// State names a stage of the submission lifecycle. Committed, RolledBack and
// Rejected are terminal.
type State string

const (
	StateReceived   State = "received"
	StateValidated  State = "validated"
	StatePersisting State = "persisting"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
	StateRejected   State = "rejected"
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order header and all of its lines in a single
	// transaction and returns the generated order identifier. Either the
	// header and every line become durable, or nothing does.
	Create(ctx context.Context, o *Order) (int64, error)
}
