package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/food-order-api/internal/domain/menu"
)

// totalEpsilon is the accepted absolute difference between the declared and
// the recomputed order total, in currency units. One cent.
var totalEpsilon = decimal.NewFromFloat(0.01)

// SubmitRequest holds the input for a checkout submission. DeclaredTotal is
// the total the client computed; the service recomputes it server-side and
// rejects on disagreement.
type SubmitRequest struct {
	Customer      Customer
	Lines         []Line
	DeclaredTotal decimal.Decimal
}

// Service validates submissions and drives the atomic write into the order
// store.
type Service struct {
	catalog menu.Repository
	orders  Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(catalog menu.Repository, orders Repository) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
	}
}

// Submit validates the request, recomputes the total from the submitted
// lines, persists the order atomically, and returns the generated order
// identifier. Validation failures are reported before any write is
// attempted; storage failures leave no partial order behind.
//
// Duplicate item IDs within one submission are kept as independent lines,
// not merged.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (int64, error) {
	lg := zctx.From(ctx)

	o, err := s.validate(ctx, req)
	if err != nil {
		lg.Info("Submission rejected",
			zap.String("state", string(StateRejected)),
			zap.Error(err),
		)
		return 0, err
	}

	lg.Debug("Submission validated",
		zap.String("state", string(StatePersisting)),
		zap.Int("lines", len(o.Lines)),
		zap.String("total", o.Total.String()),
	)

	id, err := s.orders.Create(ctx, o)
	if err != nil {
		lg.Error("Submission rolled back",
			zap.String("state", string(StateRolledBack)),
			zap.Error(err),
		)
		return 0, errors.Wrap(err, "persist order")
	}

	lg.Info("Submission committed",
		zap.String("state", string(StateCommitted)),
		zap.Int64("order_id", id),
	)
	return id, nil
}

// validate checks the customer payload and every cart line, verifies the
// referenced items exist in the catalog, and recomputes subtotal + tax.
// It returns the order ready for persistence.
func (s *Service) validate(ctx context.Context, req SubmitRequest) (*Order, error) {
	switch {
	case req.Customer.Name == "":
		return nil, &MissingFieldError{Field: "name"}
	case req.Customer.Email == "":
		return nil, &MissingFieldError{Field: "email"}
	case req.Customer.Phone == "":
		return nil, &MissingFieldError{Field: "phone"}
	}

	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]int64, len(req.Lines))
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemID: line.ItemID}
		}
		if line.UnitPrice.IsNegative() {
			return nil, &InvalidPriceError{ItemID: line.ItemID}
		}
		ids[i] = line.ItemID
	}

	// Batch fetch all referenced items in a single query.
	fetched, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	known := make(map[int64]struct{}, len(fetched))
	for _, item := range fetched {
		known[item.ID] = struct{}{}
	}
	for _, line := range req.Lines {
		if _, ok := known[line.ItemID]; !ok {
			return nil, &ItemNotFoundError{ItemID: line.ItemID}
		}
	}

	// Recompute subtotal from the submitted price snapshots, apply tax,
	// and compare against what the client declared.
	subtotal := decimal.Zero
	for _, line := range req.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(line.UnitPrice.Mul(qty))
	}
	total := subtotal.Add(subtotal.Mul(TaxRate)).Round(2)

	if req.DeclaredTotal.Sub(total).Abs().GreaterThan(totalEpsilon) {
		return nil, &TotalMismatchError{
			Declared: req.DeclaredTotal.String(),
			Computed: total.String(),
		}
	}

	return &Order{
		Customer: req.Customer,
		Lines:    req.Lines,
		Total:    total,
	}, nil
}
