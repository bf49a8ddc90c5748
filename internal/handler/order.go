package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/food-order-api/internal/domain/order"
)

// maxOrderBody bounds the accepted request body size for order submissions.
const maxOrderBody = 1 << 20

// SubmitOrder decodes the submission payload, delegates to the order
// service, and maps the result (or error) to an HTTP response.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOrderBody))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req, err := decodeSubmitRequest(body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid order payload: "+err.Error())
		return
	}

	id, err := h.orders.Submit(r.Context(), req)
	if err != nil {
		if order.IsValidation(err) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		zctx.From(r.Context()).Error("Failed to place order", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("message")
	e.Str("Order placed successfully!")
	e.FieldStart("orderId")
	e.Int64(id)
	e.ObjEnd()
	writeJSON(w, http.StatusCreated, e)
}

// decodeSubmitRequest parses the JSON submission payload:
//
//	{
//	  "customerInfo": {"name": ..., "email": ..., "phone": ..., "address": ...},
//	  "cartItems":    [{"id": ..., "quantity": ..., "price": ...}, ...],
//	  "totalAmount":  ...
//	}
//
// Unknown fields are skipped. Amounts are parsed as decimals straight from
// the raw JSON number to avoid a float round trip.
func decodeSubmitRequest(body []byte) (order.SubmitRequest, error) {
	var req order.SubmitRequest

	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "customerInfo":
			return d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "name":
					req.Customer.Name, err = d.Str()
				case "email":
					req.Customer.Email, err = d.Str()
				case "phone":
					req.Customer.Phone, err = d.Str()
				case "address":
					req.Customer.Address, err = d.Str()
				default:
					err = d.Skip()
				}
				return err
			})
		case "cartItems":
			return d.Arr(func(d *jx.Decoder) error {
				var line order.Line
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "id":
						line.ItemID, err = d.Int64()
					case "quantity":
						line.Quantity, err = d.Int()
					case "price":
						line.UnitPrice, err = decodeDecimal(d)
					default:
						err = d.Skip()
					}
					return err
				}); err != nil {
					return err
				}
				req.Lines = append(req.Lines, line)
				return nil
			})
		case "totalAmount":
			var err error
			req.DeclaredTotal, err = decodeDecimal(d)
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return order.SubmitRequest{}, errors.Wrap(err, "decode submission")
	}

	return req, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}
