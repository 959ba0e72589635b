//go:build integration

package integration

import (
	"net/http"
	"testing"
)

type withdrawalResponse struct {
	ID         string `json:"id"`
	SellerName string `json:"sellerName"`
	Status     string `json:"status"`
}

func TestListWithdrawals(t *testing.T) {
	resp := doGet(t, "/api/withdrawals")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	page := decodeJSON[pageResponse](t, resp)
	if page.TotalCount != 1 {
		t.Fatalf("totalCount: got %d, want 1", page.TotalCount)
	}

	w := decodeRow[withdrawalResponse](t, page.Rows[0])
	if w.SellerName != "Karim Traders" {
		t.Errorf("sellerName: got %q", w.SellerName)
	}
}

func TestApproveWithdrawal_MissingID(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/withdrawals/approve", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Message != "withdraw ID is missing" {
		t.Errorf("message: got %q", errResp.Message)
	}
}

func TestApproveWithdrawal(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/withdrawals/approve?withdrawId=it-withdraw-1", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := doGet(t, "/api/withdrawals?status=approved")
	defer list.Body.Close()

	page := decodeJSON[pageResponse](t, list)
	if page.TotalCount != 1 {
		t.Fatalf("totalCount after approve: got %d, want 1", page.TotalCount)
	}

	w := decodeRow[withdrawalResponse](t, page.Rows[0])
	if w.Status != "approved" {
		t.Errorf("status: got %q, want approved", w.Status)
	}
}
