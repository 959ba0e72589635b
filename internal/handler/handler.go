// Package handler implements the HTTP edge of the dashboard API. Handlers
// derive a fresh list filter from the URL on every request, delegate to the
// domain, and map domain errors onto the wire.
package handler

import (
	"net/http"

	"github.com/xenking/seller-desk/internal/domain/coupon"
	"github.com/xenking/seller-desk/internal/domain/order"
	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/domain/withdraw"
	"github.com/xenking/seller-desk/pkg/notify"
)

// Handler holds the domain dependencies behind the API routes.
type Handler struct {
	products     product.Repository
	coupons      coupon.Repository
	orders       order.Repository
	withdrawals  withdraw.Repository
	orderService *order.Service
	notifier     notify.Notifier
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	coupons coupon.Repository,
	orders order.Repository,
	withdrawals withdraw.Repository,
	orderService *order.Service,
	notifier notify.Notifier,
) *Handler {
	return &Handler{
		products:     products,
		coupons:      coupons,
		orders:       orders,
		withdrawals:  withdrawals,
		orderService: orderService,
		notifier:     notifier,
	}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("DELETE /api/products", h.DeleteProduct)
	mux.HandleFunc("GET /api/coupons", h.ListCoupons)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/withdrawals", h.ListWithdrawals)
	mux.HandleFunc("POST /api/withdrawals/approve", h.ApproveWithdrawal)
	mux.HandleFunc("POST /api/withdrawals/reject", h.RejectWithdrawal)
}
