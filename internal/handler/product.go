package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/listquery"
	"github.com/xenking/seller-desk/pkg/notify"
)

// ListProducts serves the paginated product table.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := listquery.Parse(r.URL.Query())

	page, err := h.products.ListPage(r.Context(), filter)
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to list products")

		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodePage(e, page, encodeProduct)
	})
}

// DeleteProduct removes a product identified by the productId query parameter.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("productId")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing_reference", "product ID is missing")

		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "product not found")

			return
		}
		zctx.From(r.Context()).Error("delete product", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to delete product")

		return
	}

	h.notifier.Notify(notify.Notification{
		Kind:    notify.KindSuccess,
		Message: "Product deleted successfully",
		Key:     "delete-product",
	})

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str("Product deleted successfully")
		e.ObjEnd()
	})
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Str(p.Price.String())
	e.FieldStart("floorPrice")
	if p.FloorPrice.Valid {
		e.Str(p.FloorPrice.Decimal.String())
	} else {
		e.Null()
	}
	e.FieldStart("sizes")
	strArr(e, p.Sizes)
	e.FieldStart("colors")
	strArr(e, p.Colors)
	e.FieldStart("status")
	e.Str(p.Status)
	e.FieldStart("createdAt")
	e.Str(p.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
