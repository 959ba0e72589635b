package listquery

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURL_MergeAndDrop(t *testing.T) {
	current := url.Values{"search": {"shoe"}, "status": {"pending"}}

	got := EncodeURL("/dashboard/products", current, map[string]string{
		"page":   "2",
		"status": "",
	})

	assert.Equal(t, "/dashboard/products?page=2&search=shoe", got)
}

func TestEncodeURL_DropsEmptyCurrentValues(t *testing.T) {
	current := url.Values{"search": {""}, "perPage": {"10"}}

	got := EncodeURL("/dashboard/coupon", current, nil)

	assert.Equal(t, "/dashboard/coupon?perPage=10", got)
}

func TestEncodeURL_Deterministic(t *testing.T) {
	patch := map[string]string{"b": "2", "a": "1", "c": "3"}

	first := EncodeURL("/p", url.Values{}, patch)
	for range 20 {
		assert.Equal(t, first, EncodeURL("/p", url.Values{}, patch))
	}
	assert.Equal(t, "/p?a=1&b=2&c=3", first)
}

func TestEncodeURL_Idempotent(t *testing.T) {
	current := url.Values{"search": {"shoe"}, "page": {"3"}}
	patch := map[string]string{"perPage": "20", "page": "1"}

	once := EncodeURL("/orders", current, patch)

	u, err := url.Parse(once)
	require.NoError(t, err)
	twice := EncodeURL(u.Path, u.Query(), patch)

	assert.Equal(t, once, twice)
}

func TestEncodeURL_NoQuery(t *testing.T) {
	got := EncodeURL("/dashboard", url.Values{}, map[string]string{"productId": ""})
	assert.Equal(t, "/dashboard", got)
	assert.False(t, strings.Contains(got, "?"))
}

func TestEncodeURL_SelectedRowRoundTrip(t *testing.T) {
	// Opening the delete dialog embeds the row id; closing it removes the id
	// and must restore the exact original URL.
	base := EncodeURL("/dashboard/products", url.Values{"page": {"2"}}, nil)

	opened := EncodeURL("/dashboard/products", url.Values{"page": {"2"}}, map[string]string{
		"productId": "p-17",
	})
	assert.Contains(t, opened, "productId=p-17")

	u, err := url.Parse(opened)
	require.NoError(t, err)
	closed := EncodeURL(u.Path, u.Query(), map[string]string{"productId": ""})

	assert.Equal(t, base, closed)
}

func TestPatchFilter_RoundTrip(t *testing.T) {
	f := Filter{Search: "shoe", Status: "pending", Page: 2, PerPage: 20}

	raw := EncodeURL("/orders", url.Values{}, PatchFilter(f))
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, f, Parse(u.Query()))
}

func TestPatchFilter_AllStatusOmitted(t *testing.T) {
	f := Filter{Status: StatusAll, Page: 1, PerPage: 5}

	raw := EncodeURL("/orders", url.Values{"status": {"pending"}}, PatchFilter(f))

	assert.NotContains(t, raw, "status")
}
