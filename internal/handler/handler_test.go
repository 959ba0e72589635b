package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/seller-desk/internal/domain/coupon"
	"github.com/xenking/seller-desk/internal/domain/order"
	"github.com/xenking/seller-desk/internal/domain/product"
	"github.com/xenking/seller-desk/internal/domain/withdraw"
	"github.com/xenking/seller-desk/internal/listquery"
	"github.com/xenking/seller-desk/pkg/notify"
)

type memProductRepo struct {
	products []product.Product

	lastFilter listquery.Filter
	deleted    []string
}

func (m *memProductRepo) ListPage(_ context.Context, f listquery.Filter) (listquery.Page[product.Product], error) {
	m.lastFilter = f

	matched := make([]product.Product, 0, len(m.products))
	for _, p := range m.products {
		if f.MatchesName(p.Name) && f.MatchesStatus(p.Status) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}

	return listquery.NewPage(matched[start:end], total, f), nil
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (m *memProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *memProductRepo) Delete(_ context.Context, id string) error {
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return product.ErrNotFound
}

type memCouponRepo struct {
	coupons []coupon.Coupon
}

func (m *memCouponRepo) ListPage(_ context.Context, f listquery.Filter) (listquery.Page[coupon.Coupon], error) {
	return listquery.NewPage(m.coupons, len(m.coupons), f), nil
}

type memOrderRepo struct {
	orders []order.Order
}

func (m *memOrderRepo) Create(_ context.Context, o *order.Order) error {
	o.CreatedAt = time.Now()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrderRepo) ListPage(_ context.Context, f listquery.Filter) (listquery.Page[order.Order], error) {
	matched := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if f.Date != nil {
			day := *f.Date
			if o.CreatedAt.Before(day) || !o.CreatedAt.Before(day.Add(24*time.Hour)) {
				continue
			}
		}
		matched = append(matched, o)
	}
	return listquery.NewPage(matched, len(matched), f), nil
}

type memWithdrawRepo struct {
	withdrawals []withdraw.Withdrawal
}

func (m *memWithdrawRepo) ListPage(_ context.Context, f listquery.Filter) (listquery.Page[withdraw.Withdrawal], error) {
	return listquery.NewPage(m.withdrawals, len(m.withdrawals), f), nil
}

func (m *memWithdrawRepo) SetStatus(_ context.Context, id, status string) error {
	for i := range m.withdrawals {
		if m.withdrawals[i].ID == id {
			m.withdrawals[i].Status = status
			return nil
		}
	}
	return withdraw.ErrNotFound
}

type testEnv struct {
	products    *memProductRepo
	orders      *memOrderRepo
	withdrawals *memWithdrawRepo
	notes       *notify.Memory
	mux         *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	products := &memProductRepo{products: []product.Product{
		{
			ID:         "p-shirt",
			Name:       "Shirt",
			Price:      decimal.RequireFromString("650"),
			FloorPrice: decimal.NewNullDecimal(decimal.RequireFromString("500")),
			Sizes:      []string{"m", "l", "xl"},
			Colors:     []string{"red", "blue"},
			Status:     product.StatusActive,
			CreatedAt:  base,
		},
		{
			ID:        "p-mug",
			Name:      "Mug",
			Price:     decimal.RequireFromString("180"),
			Status:    product.StatusActive,
			CreatedAt: base.Add(time.Hour),
		},
		{
			ID:        "p-cap",
			Name:      "Cap",
			Price:     decimal.RequireFromString("220"),
			Status:    product.StatusHidden,
			CreatedAt: base.Add(2 * time.Hour),
		},
	}}
	orders := &memOrderRepo{}
	withdrawals := &memWithdrawRepo{withdrawals: []withdraw.Withdrawal{
		{
			ID:         "w-1",
			SellerName: "Karim",
			Amount:     decimal.RequireFromString("1200"),
			Method:     "bkash",
			AccountNo:  "01700000000",
			Status:     withdraw.StatusPending,
			CreatedAt:  base,
		},
	}}
	notes := notify.NewMemory()

	h := NewHandler(
		products,
		&memCouponRepo{},
		orders,
		withdrawals,
		order.NewService(products, orders),
		notes,
	)
	mux := http.NewServeMux()
	h.Register(mux)

	return &testEnv{
		products:    products,
		orders:      orders,
		withdrawals: withdrawals,
		notes:       notes,
		mux:         mux,
	}
}

func (env *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	return rec
}

// decodeObj parses a JSON object body into a flat map of top-level fields.
// Nested values are kept as raw JSON strings.
func decodeObj(t *testing.T, body []byte) map[string]string {
	t.Helper()

	out := make(map[string]string)
	d := jx.DecodeBytes(body)
	require.NoError(t, d.Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		out[key] = strings.Trim(string(raw), `"`)
		return nil
	}))

	return out
}

func TestListProductsDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, env.products.lastFilter.Page)
	assert.Equal(t, 5, env.products.lastFilter.PerPage)
	assert.Equal(t, listquery.StatusAll, env.products.lastFilter.Status)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "3", obj["totalCount"])
	assert.Equal(t, "1", obj["totalPages"])
}

func TestListProductsFiltered(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products?search=shi&status=active&page=1&perPage=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "1", obj["totalCount"])
	assert.Contains(t, obj["rows"], "Shirt")
	assert.NotContains(t, obj["rows"], "Mug")
}

func TestListProductsMalformedParamsFallBack(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products?page=abc&perPage=7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, env.products.lastFilter.Page)
	assert.Equal(t, 5, env.products.lastFilter.PerPage)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/products?productId=p-mug", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"p-mug"}, env.products.deleted)

	n, ok := env.notes.Latest("delete-product")
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, n.Kind)
}

func TestDeleteProductMissingID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/products", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "missing_reference", obj["code"])
	assert.Equal(t, "product ID is missing", obj["message"])
	assert.Empty(t, env.products.deleted)
}

func TestDeleteProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/products?productId=nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"items": [
			{"productId": "p-shirt", "quantity": 2, "price": 650, "size": "m", "color": "red"},
			{"productId": "p-mug", "quantity": 2, "price": "180"}
		],
		"customerName": "Karim",
		"address": "Dhanmondi, Dhaka",
		"mobile": "01700000000",
		"deliveryFee": 60
	}`
	rec := env.do(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "Order created for Karim", obj["message"])
	assert.NotEmpty(t, obj["id"])

	n, ok := env.notes.Latest(order.NotifyKey)
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, n.Kind)

	// The persisted order shows up in the list with derived totals.
	list := env.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"subtotal":"1660"`)
	assert.Contains(t, list.Body.String(), `"total":"1720"`)
}

func TestCreateOrderFloorPriceRejected(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"items": [{"productId": "p-shirt", "quantity": 1, "price": 400}],
		"customerName": "Karim",
		"address": "Dhanmondi, Dhaka",
		"mobile": "01700000000",
		"deliveryFee": 60
	}`
	rec := env.do(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "floor_price", obj["code"])
	assert.Contains(t, obj["message"], "Shirt")
	assert.Contains(t, obj["message"], "500")

	n, ok := env.notes.Latest(order.NotifyKey)
	require.True(t, ok)
	assert.Equal(t, notify.KindError, n.Kind)
}

func TestCreateOrderMissingVariant(t *testing.T) {
	env := newTestEnv(t)

	// The shirt comes in sizes; a line without one is rejected.
	body := `{
		"items": [{"productId": "p-shirt", "quantity": 1, "price": 650, "color": "red"}],
		"customerName": "Karim",
		"address": "Dhanmondi, Dhaka",
		"mobile": "01700000000",
		"deliveryFee": 60
	}`
	rec := env.do(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "invalid_variant", obj["code"])
	assert.Contains(t, obj["message"], "size")
	assert.Contains(t, obj["message"], "Shirt")
}

func TestListOrdersDateFilter(t *testing.T) {
	env := newTestEnv(t)

	march := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	env.orders.orders = []order.Order{
		{ID: "o-1", CustomerName: "Karim", CreatedAt: march},
		{ID: "o-2", CustomerName: "Rahim", CreatedAt: march.Add(14 * time.Hour)},
		{ID: "o-3", CustomerName: "Salma", CreatedAt: march.AddDate(0, 1, 1)},
	}

	rec := env.do(t, http.MethodGet, "/api/orders?date=2025-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"totalCount":2`)
	assert.Contains(t, body, "Karim")
	assert.Contains(t, body, "Rahim")
	assert.NotContains(t, body, "Salma")
}

func TestCreateOrderEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	body := `{"items": [], "customerName": "Karim", "deliveryFee": 60}`
	rec := env.do(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "empty_items", obj["code"])
}

func TestCreateOrderInvalidFee(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"items": [{"productId": "p-mug", "quantity": 1, "price": 180}],
		"customerName": "Karim",
		"deliveryFee": 75
	}`
	rec := env.do(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "invalid_fee", obj["code"])
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"items": [{"productId": "p-ghost", "quantity": 1, "price": 100}],
		"customerName": "Karim",
		"deliveryFee": 60
	}`
	rec := env.do(t, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "product_not_found", obj["code"])
}

func TestCreateOrderBadPayload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/orders", `{"items": "nope"`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveWithdrawal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/withdrawals/approve?withdrawId=w-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, withdraw.StatusApproved, env.withdrawals.withdrawals[0].Status)
}

func TestRejectWithdrawal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/withdrawals/reject?withdrawId=w-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, withdraw.StatusRejected, env.withdrawals.withdrawals[0].Status)
}

func TestWithdrawalMissingID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/withdrawals/approve", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	obj := decodeObj(t, rec.Body.Bytes())
	assert.Equal(t, "withdraw ID is missing", obj["message"])
	assert.Equal(t, withdraw.StatusPending, env.withdrawals.withdrawals[0].Status)
}
