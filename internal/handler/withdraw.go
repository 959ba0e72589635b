package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/seller-desk/internal/domain/withdraw"
	"github.com/xenking/seller-desk/internal/listquery"
	"github.com/xenking/seller-desk/pkg/notify"
)

// ListWithdrawals serves the paginated withdrawal request table.
func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	filter := listquery.Parse(r.URL.Query())

	page, err := h.withdrawals.ListPage(r.Context(), filter)
	if err != nil {
		zctx.From(r.Context()).Error("list withdrawals", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to list withdrawals")

		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodePage(e, page, encodeWithdrawal)
	})
}

// ApproveWithdrawal marks the withdrawal named by the withdrawId query
// parameter as approved.
func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.setWithdrawalStatus(w, r, withdraw.StatusApproved, "Withdrawal approved")
}

// RejectWithdrawal marks the withdrawal named by the withdrawId query
// parameter as rejected.
func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.setWithdrawalStatus(w, r, withdraw.StatusRejected, "Withdrawal rejected")
}

func (h *Handler) setWithdrawalStatus(w http.ResponseWriter, r *http.Request, status, message string) {
	id := r.URL.Query().Get("withdrawId")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing_reference", "withdraw ID is missing")

		return
	}

	if err := h.withdrawals.SetStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, withdraw.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "withdrawal not found")

			return
		}
		zctx.From(r.Context()).Error("update withdrawal", zap.Error(err), zap.String("status", status))
		writeError(w, r, http.StatusInternalServerError, "internal", "failed to update withdrawal")

		return
	}

	h.notifier.Notify(notify.Notification{
		Kind:    notify.KindSuccess,
		Message: message,
		Key:     "withdraw-status",
	})

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

func encodeWithdrawal(e *jx.Encoder, v withdraw.Withdrawal) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(v.ID)
	e.FieldStart("sellerName")
	e.Str(v.SellerName)
	e.FieldStart("amount")
	e.Str(v.Amount.String())
	e.FieldStart("method")
	e.Str(v.Method)
	e.FieldStart("accountNo")
	e.Str(v.AccountNo)
	e.FieldStart("status")
	e.Str(v.Status)
	e.FieldStart("createdAt")
	e.Str(v.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
