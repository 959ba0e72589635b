// Package listquery implements the filter/pagination state shared by every
// dashboard list view: parsing it from URL query parameters, computing page
// bounds and counts, and re-encoding it deterministically back into a URL.
package listquery

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusAll is the sentinel status meaning "no status constraint". Both a
// missing status parameter and the literal values "all"/"ALL" normalize to it.
const StatusAll = "ALL"

// Recognized query parameter keys.
const (
	ParamSearch  = "search"
	ParamStatus  = "status"
	ParamPage    = "page"
	ParamPerPage = "perPage"
	ParamDate    = "date"
)

const (
	// DefaultPage is used when the page parameter is missing or unparseable.
	DefaultPage = 1
	// DefaultPerPage is used when the perPage parameter is missing,
	// unparseable, or outside the allowed set.
	DefaultPerPage = 5
)

// PerPageChoices is the closed set of allowed page sizes.
var PerPageChoices = []int{5, 10, 20, 50}

// Filter is the normalized list-query state derived from a URL query string.
// It is an immutable value: handlers derive a fresh Filter on every request
// and thread it through explicitly.
type Filter struct {
	// Search is a free-text term matched case-insensitively as a substring
	// against the target's name field. Empty means no search constraint.
	Search string
	// Status is either a status value matched by equality or StatusAll.
	Status string
	// Page is the 1-based page number, always >= 1.
	Page int
	// PerPage is the page size, always one of PerPageChoices.
	PerPage int
	// Date, when non-nil, restricts rows to those created on that UTC day.
	Date *time.Time
}

// Parse derives a Filter from raw query parameters. It is a total function:
// malformed or missing values silently degrade to defaults and never produce
// an error.
func Parse(params url.Values) Filter {
	f := Filter{
		Search:  params.Get(ParamSearch),
		Status:  normalizeStatus(params.Get(ParamStatus)),
		Page:    parsePage(params.Get(ParamPage)),
		PerPage: parsePerPage(params.Get(ParamPerPage)),
	}

	if raw := params.Get(ParamDate); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			day := t.UTC().Truncate(24 * time.Hour)
			f.Date = &day
		} else if t, err := time.Parse("2006-01-02", raw); err == nil {
			f.Date = &t
		}
	}

	return f
}

// HasStatus reports whether the filter carries a real status constraint.
// StatusAll means "match every row", never the literal string.
func (f Filter) HasStatus() bool {
	return f.Status != StatusAll
}

// Offset returns the number of rows preceding the requested page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// MatchesName reports whether name satisfies the search constraint:
// case-insensitive substring match, with an empty search matching everything.
func (f Filter) MatchesName(name string) bool {
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Search))
}

// MatchesStatus reports whether status satisfies the status constraint.
func (f Filter) MatchesStatus(status string) bool {
	if !f.HasStatus() {
		return true
	}
	return status == f.Status
}

func normalizeStatus(raw string) string {
	if raw == "" || strings.EqualFold(raw, StatusAll) {
		return StatusAll
	}
	return raw
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}

func parsePerPage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPerPage
	}
	for _, choice := range PerPageChoices {
		if n == choice {
			return n
		}
	}
	return DefaultPerPage
}
