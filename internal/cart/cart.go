// Package cart implements the client-held shopping cart: line accumulation,
// quantity edits, and subtotal/tax/total computation prior to submission.
// The cart is a pre-submission staging area; its lines are discarded once an
// order has been accepted by the server.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/xenking/food-order-api/internal/domain/menu"
	"github.com/xenking/food-order-api/internal/domain/order"
)

// Line is one cart entry. UnitPrice is the snapshot taken when the item was
// first added; it is not refreshed at checkout.
type Line struct {
	ItemID    int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart accumulates selections before checkout. The zero value is an empty
// cart ready for use. Cart is not safe for concurrent use; it models the
// state a single client holds.
type Cart struct {
	lines []Line
}

// Add puts one unit of the given menu item into the cart. Adding an item
// already present increments its quantity instead of creating a second line.
func (c *Cart) Add(item menu.Item) {
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
	})
}

// SetQuantity sets the quantity of the line for itemID. A quantity of zero
// or less removes the line; a line with zero quantity is never retained.
// Setting the quantity of an absent item is a no-op.
func (c *Cart) SetQuantity(itemID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line for itemID, if present.
func (c *Cart) Remove(itemID int64) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful submission.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	return c.lines
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// TotalItems returns the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal returns the sum of unit price times quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax returns the tax on the current subtotal.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(order.TaxRate)
}

// Total returns subtotal plus tax, rounded to cents.
func (c *Cart) Total() decimal.Decimal {
	sub := c.Subtotal()
	return sub.Add(sub.Mul(order.TaxRate)).Round(2)
}

// Submission builds the submit request for the current cart contents.
func (c *Cart) Submission(customer order.Customer) order.SubmitRequest {
	lines := make([]order.Line, len(c.lines))
	for i, l := range c.lines {
		lines[i] = order.Line{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return order.SubmitRequest{
		Customer:      customer,
		Lines:         lines,
		DeclaredTotal: c.Total(),
	}
}

// MarshalJSON serializes the cart as a plain array of lines, the same shape
// the browser client keeps under its local storage key.
func (c *Cart) MarshalJSON() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

// UnmarshalJSON restores a cart from its serialized line array. Lines with
// non-positive quantities are dropped rather than kept at zero.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.lines = lines[:0]
	for _, l := range lines {
		if l.Quantity > 0 {
			c.lines = append(c.lines, l)
		}
	}
	if len(c.lines) == 0 {
		c.lines = nil
	}
	return nil
}
