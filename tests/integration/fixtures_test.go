//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/domain/withdraw"
	"github.com/xenking/seller-desk/internal/storage/postgres"
)

func seedFixtures(ctx context.Context, products *postgres.ProductRepository, withdrawals *postgres.WithdrawRepository) error {
	fixtures := []product.Product{
		{
			ID:         "it-shirt",
			Name:       "Shirt",
			Price:      decimal.RequireFromString("650"),
			FloorPrice: decimal.NewNullDecimal(decimal.RequireFromString("500")),
			Sizes:      []string{"m", "l", "xl"},
			Colors:     []string{"red", "blue"},
			Status:     product.StatusActive,
		},
		{
			ID:     "it-mug",
			Name:   "Mug",
			Price:  decimal.RequireFromString("180"),
			Status: product.StatusActive,
		},
		{
			ID:     "it-cap",
			Name:   "Cap",
			Price:  decimal.RequireFromString("320"),
			Status: product.StatusHidden,
		},
	}
	for i := 4; i <= 12; i++ {
		fixtures = append(fixtures, product.Product{
			ID:     fmt.Sprintf("it-filler-%02d", i),
			Name:   fmt.Sprintf("Filler Item %d", i),
			Price:  decimal.NewFromInt(int64(100 * i)),
			Status: product.StatusActive,
		})
	}
	for _, p := range fixtures {
		if err := products.Upsert(ctx, p); err != nil {
			return err
		}
	}

	return withdrawals.Upsert(ctx, withdraw.Withdrawal{
		ID:         "it-withdraw-1",
		SellerName: "Karim Traders",
		Amount:     decimal.RequireFromString("12500"),
		Method:     "bkash",
		AccountNo:  "01711111111",
		Status:     withdraw.StatusPending,
	})
}

// Response types decoded with encoding/json to keep the tests independent of
// the server's encoder.

type pageResponse struct {
	Rows       []json.RawMessage `json:"rows"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
}

type productResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Status string `json:"status"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Subtotal string `json:"subtotal"`
	Total    string `json:"total"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeRow[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode row: %v", err)
	}
	return v
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
