package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/food-order-api/internal/domain/menu"
)

// --- Mock implementations ---

type mockCatalog struct {
	items  map[int64]menu.Item
	getErr error
}

func (m *mockCatalog) List(_ context.Context) ([]menu.Item, error) {
	out := make([]menu.Item, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockCatalog) GetByIDs(_ context.Context, ids []int64) ([]menu.Item, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]menu.Item, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := m.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type mockOrderRepo struct {
	nextID    int64
	lastOrder *Order
	calls     int
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) (int64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	m.lastOrder = o
	return m.nextID, nil
}

// --- Helpers ---

func newCatalog(items ...menu.Item) *mockCatalog {
	byID := make(map[int64]menu.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &mockCatalog{items: byID}
}

func testItem(id int64, name, price string) menu.Item {
	return menu.Item{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func validCustomer() Customer {
	return Customer{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Phone: "555-0100",
	}
}

func line(itemID int64, qty int, price string) Line {
	return Line{
		ItemID:    itemID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

// --- Tests ---

func TestSubmit_MissingCustomerFields(t *testing.T) {
	tests := []struct {
		field    string
		customer Customer
	}{
		{"name", Customer{Email: "a@b.c", Phone: "555"}},
		{"email", Customer{Name: "Ada", Phone: "555"}},
		{"phone", Customer{Name: "Ada", Email: "a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			repo := &mockOrderRepo{}
			svc := NewService(newCatalog(), repo)

			_, err := svc.Submit(context.Background(), SubmitRequest{
				Customer: tt.customer,
				Lines:    []Line{line(1, 1, "12.99")},
			})

			var mfErr *MissingFieldError
			require.ErrorAs(t, err, &mfErr)
			assert.Equal(t, tt.field, mfErr.Field)
			assert.True(t, IsValidation(err))
			assert.Zero(t, repo.calls, "no write may be attempted on validation failure")
		})
	}
}

func TestSubmit_EmptyCart(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{Customer: validCustomer()})

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.True(t, IsValidation(err))
	assert.Zero(t, repo.calls)
}

func TestSubmit_InvalidQuantity(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer: validCustomer(),
		Lines:    []Line{line(1, 0, "12.99")},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, int64(1), iqErr.ItemID)
	assert.Zero(t, repo.calls)
}

func TestSubmit_NegativePrice(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer: validCustomer(),
		Lines:    []Line{line(1, 1, "-0.01")},
	})

	var ipErr *InvalidPriceError
	require.ErrorAs(t, err, &ipErr)
	assert.Equal(t, int64(1), ipErr.ItemID)
	assert.Zero(t, repo.calls)
}

func TestSubmit_UnknownItem(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer:      validCustomer(),
		Lines:         []Line{line(99, 1, "12.99")},
		DeclaredTotal: decimal.RequireFromString("13.64"),
	})

	var nfErr *ItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, int64(99), nfErr.ItemID)
	assert.True(t, IsValidation(err))
	assert.Zero(t, repo.calls)
}

func TestSubmit_TotalMismatch(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer:      validCustomer(),
		Lines:         []Line{line(1, 1, "12.99")},
		DeclaredTotal: decimal.RequireFromString("12.99"), // missing tax
	})

	var tmErr *TotalMismatchError
	require.ErrorAs(t, err, &tmErr)
	assert.Equal(t, "13.64", tmErr.Computed)
	assert.True(t, IsValidation(err))
	assert.Zero(t, repo.calls)
}

func TestSubmit_Success(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(
		newCatalog(
			testItem(1, "Margherita Pizza", "12.99"),
			testItem(4, "Classic Burger", "9.99"),
		),
		repo,
	)

	// Subtotal 35.97, tax 1.7985, total 37.7685 -> 37.77.
	id, err := svc.Submit(context.Background(), SubmitRequest{
		Customer: validCustomer(),
		Lines: []Line{
			line(1, 2, "12.99"),
			line(4, 1, "9.99"),
		},
		DeclaredTotal: decimal.RequireFromString("37.77"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, repo.lastOrder)
	assert.True(t, decimal.RequireFromString("37.77").Equal(repo.lastOrder.Total))
	require.Len(t, repo.lastOrder.Lines, 2)
	assert.Equal(t, 2, repo.lastOrder.Lines[0].Quantity)
	assert.Equal(t, 1, repo.lastOrder.Lines[1].Quantity)
}

func TestSubmit_DeclaredTotalWithinEpsilon(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	// Computed total is 13.64; a one-cent disagreement is tolerated.
	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer:      validCustomer(),
		Lines:         []Line{line(1, 1, "12.99")},
		DeclaredTotal: decimal.RequireFromString("13.65"),
	})

	require.NoError(t, err)
}

func TestSubmit_DuplicateLinesPreserved(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer: validCustomer(),
		Lines: []Line{
			line(1, 2, "12.99"),
			line(1, 3, "12.99"),
		},
		DeclaredTotal: decimal.RequireFromString("68.20"),
	})

	require.NoError(t, err)
	require.Len(t, repo.lastOrder.Lines, 2, "duplicate item IDs stay independent lines")
	assert.Equal(t, 2, repo.lastOrder.Lines[0].Quantity)
	assert.Equal(t, 3, repo.lastOrder.Lines[1].Quantity)
}

func TestSubmit_StorageError(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("connection refused")}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Customer:      validCustomer(),
		Lines:         []Line{line(1, 1, "12.99")},
		DeclaredTotal: decimal.RequireFromString("13.64"),
	})

	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestSubmit_UniqueIdentifiers(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(testItem(1, "Margherita Pizza", "12.99")), repo)

	req := SubmitRequest{
		Customer:      validCustomer(),
		Lines:         []Line{line(1, 1, "12.99")},
		DeclaredTotal: decimal.RequireFromString("13.64"),
	}

	first, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
