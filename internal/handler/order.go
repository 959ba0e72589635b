package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/seller-desk/internal/domain/order"
	"github.com/xenking/seller-desk/internal/listquery"
	"github.com/xenking/seller-desk/pkg/notify"
)

// ListOrders serves the paginated order table. The date query parameter
// narrows the list to orders created on that calendar day.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := listquery.Parse(r.URL.Query())

	page, err := h.orders.ListPage(r.Context(), filter)
	if err != nil {
		zctx.From(r.Context()).Error("list orders", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to list orders")

		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodePage(e, page, encodeOrder)
	})
}

// CreateOrder validates and persists a submitted order draft.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "failed to read request body")

		return
	}

	o, err := decodeOrderRequest(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid order payload")

		return
	}

	msg, err := h.orderService.Submit(r.Context(), o)
	if err != nil {
		h.notifier.Notify(notify.Notification{
			Kind:    notify.KindError,
			Message: err.Error(),
			Key:     order.NotifyKey,
		})
		writeOrderError(w, r, err)

		return
	}

	h.notifier.Notify(notify.Notification{
		Kind:    notify.KindSuccess,
		Message: msg,
		Key:     order.NotifyKey,
	})

	writeJSON(w, r, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(o.ID)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// writeOrderError maps order submission errors onto the wire. Validation
// failures carry their domain message verbatim so the client can surface it.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		floorErr    *order.FloorPriceError
		variantErr  *order.VariantError
		notFoundErr *order.ProductNotFoundError
		qtyErr      *order.InvalidQuantityError
	)

	switch {
	case errors.Is(err, order.ErrEmptyItems):
		writeError(w, r, http.StatusBadRequest, "empty_items", err.Error())
	case errors.Is(err, order.ErrInvalidFee):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_fee", err.Error())
	case errors.As(err, &floorErr):
		writeError(w, r, http.StatusUnprocessableEntity, "floor_price", floorErr.Error())
	case errors.As(err, &variantErr):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_variant", variantErr.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, r, http.StatusUnprocessableEntity, "product_not_found", notFoundErr.Error())
	case errors.As(err, &qtyErr):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_quantity", qtyErr.Error())
	default:
		zctx.From(r.Context()).Error("create order", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to create order")
	}
}

// decodeOrderRequest parses the order submission payload. Prices are
// accepted as JSON numbers or numeric strings.
func decodeOrderRequest(body []byte) (*order.Order, error) {
	var o order.Order

	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeLineItem(d)
				if err != nil {
					return err
				}
				o.Items = append(o.Items, item)

				return nil
			})
		case "customerName":
			v, err := d.Str()
			o.CustomerName = v

			return err
		case "address":
			v, err := d.Str()
			o.Address = v

			return err
		case "mobile":
			v, err := d.Str()
			o.Mobile = v

			return err
		case "deliveryFee":
			v, err := decodeDecimal(d)
			o.DeliveryFee = v

			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode order")
	}

	return &o, nil
}

func decodeLineItem(d *jx.Decoder) (order.LineItem, error) {
	var item order.LineItem

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			item.ProductID = v

			return err
		case "quantity":
			v, err := d.Int()
			item.Quantity = v

			return err
		case "price":
			v, err := decodeDecimal(d)
			item.UnitPrice = v

			return err
		case "size":
			v, err := d.Str()
			item.Size = v

			return err
		case "color":
			v, err := d.Str()
			item.Color = v

			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return item, errors.Wrap(err, "decode line item")
	}

	return item, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}

		return decimal.NewFromString(s)
	}

	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}

	return decimal.NewFromString(n.String())
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("customerName")
	e.Str(o.CustomerName)
	e.FieldStart("address")
	e.Str(o.Address)
	e.FieldStart("mobile")
	e.Str(o.Mobile)
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range o.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(item.ProductID)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.FieldStart("price")
		e.Str(item.UnitPrice.String())
		e.FieldStart("size")
		optStr(e, item.Size)
		e.FieldStart("color")
		optStr(e, item.Color)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("deliveryFee")
	e.Str(o.DeliveryFee.String())
	e.FieldStart("subtotal")
	e.Str(o.Subtotal.String())
	e.FieldStart("total")
	e.Str(o.Total.String())
	e.FieldStart("status")
	e.Str(o.Status)
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
