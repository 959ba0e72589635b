package listquery

// Page holds one page of a filtered result set together with the total row
// count taken by the same predicate in the same repository call.
type Page[T any] struct {
	// Rows is the slice [(page-1)*perPage, page*perPage) of the filtered set,
	// ordered by descending creation time with a stable id tiebreak.
	Rows []T
	// TotalCount is the number of rows matching the filter across all pages.
	TotalCount int
	// TotalPages is ceil(TotalCount / PerPage); zero when TotalCount is zero.
	TotalPages int
}

// NewPage builds a Page from a row slice and total count, deriving TotalPages
// from the filter's page size.
func NewPage[T any](rows []T, totalCount int, f Filter) Page[T] {
	return Page[T]{
		Rows:       rows,
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, f.PerPage),
	}
}

// TotalPages returns ceil(totalCount / perPage), or zero for an empty set.
func TotalPages(totalCount, perPage int) int {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + perPage - 1) / perPage
}
