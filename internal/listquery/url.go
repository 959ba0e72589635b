package listquery

import (
	"net/url"
	"strconv"
)

// EncodeURL merges patch over the current query parameters and serializes the
// result onto path. Keys with empty values are dropped, and serialization uses
// stable key ordering, so two equivalent logical states always produce
// byte-identical URLs. Re-applying the same patch to the produced URL's query
// is a no-op.
//
// EncodeURL only builds the URL; performing the navigation is the caller's
// concern.
func EncodeURL(path string, current url.Values, patch map[string]string) string {
	merged := url.Values{}
	for key, vals := range current {
		if len(vals) == 0 || vals[len(vals)-1] == "" {
			continue
		}
		// Later values win so a repeated key collapses to a single entry.
		merged.Set(key, vals[len(vals)-1])
	}
	for key, val := range patch {
		if val == "" {
			merged.Del(key)
			continue
		}
		merged.Set(key, val)
	}

	// url.Values.Encode sorts by key, which gives the deterministic ordering
	// the selected-row round-trip depends on.
	query := merged.Encode()
	if query == "" {
		return path
	}
	return path + "?" + query
}

// PatchFilter returns the query patch that re-encodes f over an existing URL
// state. Default page and page size are written explicitly so a link for page
// 1 and a link produced by resetting to page 1 are identical.
func PatchFilter(f Filter) map[string]string {
	patch := map[string]string{
		ParamSearch:  f.Search,
		ParamStatus:  "",
		ParamPage:    strconv.Itoa(f.Page),
		ParamPerPage: strconv.Itoa(f.PerPage),
	}
	if f.HasStatus() {
		patch[ParamStatus] = f.Status
	}
	if f.Date != nil {
		patch[ParamDate] = f.Date.Format("2006-01-02")
	}
	return patch
}
