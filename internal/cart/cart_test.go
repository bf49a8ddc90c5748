package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/food-order-api/internal/domain/menu"
	"github.com/xenking/food-order-api/internal/domain/order"
)

func pizza() menu.Item {
	return menu.Item{ID: 1, Name: "Margherita Pizza", Price: decimal.RequireFromString("12.99")}
}

func burger() menu.Item {
	return menu.Item{ID: 4, Name: "Classic Burger", Price: decimal.RequireFromString("9.99")}
}

func TestAdd_IncrementsExistingLine(t *testing.T) {
	var c Cart
	c.Add(pizza())
	c.Add(pizza())
	c.Add(burger())

	require.Len(t, c.Lines(), 2)
	assert.Equal(t, 2, c.Lines()[0].Quantity)
	assert.Equal(t, 1, c.Lines()[1].Quantity)
	assert.Equal(t, 3, c.TotalItems())
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	var c Cart
	c.Add(pizza())
	c.Add(burger())

	c.SetQuantity(1, 0)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, int64(4), c.Lines()[0].ItemID)
}

func TestSetQuantity_UpdatesLine(t *testing.T) {
	var c Cart
	c.Add(pizza())

	c.SetQuantity(1, 5)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	var c Cart
	c.Add(pizza())
	c.Add(burger())

	c.Remove(4)
	require.Len(t, c.Lines(), 1)

	c.Clear()
	assert.True(t, c.Empty())
}

func TestTotals(t *testing.T) {
	var c Cart
	c.Add(pizza())
	c.Add(pizza())
	c.Add(burger())

	// Subtotal 35.97, tax 1.7985, total 37.77 rounded to cents.
	assert.True(t, decimal.RequireFromString("35.97").Equal(c.Subtotal()))
	assert.True(t, decimal.RequireFromString("1.7985").Equal(c.Tax()))
	assert.True(t, decimal.RequireFromString("37.77").Equal(c.Total()))
}

func TestSubmission(t *testing.T) {
	var c Cart
	c.Add(pizza())
	c.Add(pizza())
	c.Add(burger())

	customer := order.Customer{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}
	req := c.Submission(customer)

	assert.Equal(t, customer, req.Customer)
	require.Len(t, req.Lines, 2)
	assert.Equal(t, 2, req.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("37.77").Equal(req.DeclaredTotal))
}

func TestJSONRoundTrip(t *testing.T) {
	var c Cart
	c.Add(pizza())
	c.Add(burger())
	c.SetQuantity(1, 3)

	data, err := json.Marshal(&c)
	require.NoError(t, err)

	var restored Cart
	require.NoError(t, json.Unmarshal(data, &restored))

	require.Len(t, restored.Lines(), 2)
	assert.Equal(t, 3, restored.Lines()[0].Quantity)
	assert.True(t, c.Total().Equal(restored.Total()))
}

func TestUnmarshal_DropsZeroQuantityLines(t *testing.T) {
	var c Cart
	data := `[{"id":1,"name":"Margherita Pizza","price":"12.99","quantity":0}]`
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	assert.True(t, c.Empty())
}

func TestEmptyCartMarshalsAsArray(t *testing.T) {
	var c Cart
	data, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
