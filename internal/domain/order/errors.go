package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrEmptyCart is returned when a submission carries no lines.
var ErrEmptyCart = fmt.Errorf("cart must not be empty")

// validation is implemented by every error detected before any write is
// attempted. Handlers use IsValidation to pick a 4xx status.
type validation interface {
	validationError()
}

// IsValidation reports whether err is a submission validation failure, i.e.
// one that was rejected before the store was touched.
func IsValidation(err error) bool {
	if errors.Is(err, ErrEmptyCart) {
		return true
	}
	var v validation
	return errors.As(err, &v)
}

// MissingFieldError indicates a required customer field was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("customer %s is required", e.Field)
}

func (*MissingFieldError) validationError() {}

// InvalidQuantityError indicates a line carries a non-positive quantity.
type InvalidQuantityError struct {
	ItemID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %d", e.ItemID)
}

func (*InvalidQuantityError) validationError() {}

// InvalidPriceError indicates a line carries a negative unit price.
type InvalidPriceError struct {
	ItemID int64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("unit price must not be negative for item %d", e.ItemID)
}

func (*InvalidPriceError) validationError() {}

// ItemNotFoundError indicates a line references an unknown menu item.
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found", e.ItemID)
}

func (*ItemNotFoundError) validationError() {}

// TotalMismatchError indicates the declared total disagrees with the total
// recomputed from the submitted lines beyond the accepted tolerance.
type TotalMismatchError struct {
	Declared string
	Computed string
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("declared total %s does not match computed total %s", e.Declared, e.Computed)
}

func (*TotalMismatchError) validationError() {}
