package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/seller-desk/internal/domain/coupon"
	"github.com/xenking/seller-desk/internal/listquery"
)

// ListCoupons serves the paginated coupon table.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	filter := listquery.Parse(r.URL.Query())

	page, err := h.coupons.ListPage(r.Context(), filter)
	if err != nil {
		zctx.From(r.Context()).Error("list coupons", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to list coupons")

		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodePage(e, page, encodeCoupon)
	})
}

func encodeCoupon(e *jx.Encoder, c coupon.Coupon) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(c.ID)
	e.FieldStart("name")
	e.Str(c.Name)
	e.FieldStart("code")
	e.Str(c.Code)
	e.FieldStart("discountType")
	e.Str(string(c.DiscountType))
	e.FieldStart("value")
	e.Str(c.Value.String())
	e.FieldStart("status")
	e.Str(c.Status)
	e.FieldStart("expiresAt")
	if c.ExpiresAt != nil {
		e.Str(c.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		e.Null()
	}
	e.FieldStart("createdAt")
	e.Str(c.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
