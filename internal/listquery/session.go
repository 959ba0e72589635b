package listquery

import (
	"context"
	"sync/atomic"

	"github.com/go-faster/errors"
)

// ErrSuperseded is returned by Session.Fetch when a newer fetch was started
// before this one completed. The caller must discard the result.
var ErrSuperseded = errors.New("fetch superseded by a newer filter")

// FetchFunc loads one page of results for a filter.
type FetchFunc[T any] func(ctx context.Context, f Filter) (Page[T], error)

// Session serializes list fetches for a single view. Deriving a new Filter
// (navigation, typing in the search box) starts a new fetch that supersedes
// any still in flight; a late-arriving stale response is reported as
// ErrSuperseded instead of being handed back, so an old page can never
// overwrite a newer one.
//
// The zero value is ready to use.
type Session[T any] struct {
	seq atomic.Uint64
}

// Fetch runs fn for the given filter. If another Fetch started on this
// Session before fn returned, the result is dropped and ErrSuperseded is
// returned. Errors from fn pass through unchanged when the fetch is still
// current.
func (s *Session[T]) Fetch(ctx context.Context, f Filter, fn FetchFunc[T]) (Page[T], error) {
	token := s.seq.Add(1)

	page, err := fn(ctx, f)

	if s.seq.Load() != token {
		return Page[T]{}, ErrSuperseded
	}
	if err != nil {
		return Page[T]{}, err
	}
	return page, nil
}
