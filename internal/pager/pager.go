// Package pager materializes complete collections from servers that hand
// them out in pages of server-chosen size.
package pager

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when the first page reports no records.
	// It is distinct from an empty-but-present collection.
	ErrNoData = errors.New("collection has no records")

	// ErrNoProgress is returned when a page comes back empty before the
	// reported total is reached. Without it the loop would never finish.
	ErrNoProgress = errors.New("server returned an empty page before reaching total")
)

// PageFunc fetches the page that starts at startIndex. total is only read
// from the first page.
type PageFunc[T any] func(ctx context.Context, startIndex int) (items []T, total int, err error)

// maxPrealloc bounds the up-front allocation; total comes from the server
const maxPrealloc = 1024

// Cursor is the progress of one FetchAll call
type Cursor[T any] struct {
	StartIndex  int
	Total       int
	Accumulated []T
}

// Option configures FetchAll
type Option func(*options)

type options struct {
	onPage func(loaded, total int)
}

// WithProgress reports the running count after every page
func WithProgress(fn func(loaded, total int)) Option {
	return func(o *options) {
		o.onPage = fn
	}
}

// FetchAll requests pages in increasing startIndex order until total items
// have been collected. Each page advances the cursor by the number of items
// it actually returned, so variable page sizes and server-side caps are fine.
//
// Any page error aborts the whole fetch and discards what was accumulated.
// The result always holds exactly total items.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T], opts ...Option) ([]T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var cur Cursor[T]

	for first := true; first || cur.StartIndex < cur.Total; first = false {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, total, err := fetch(ctx, cur.StartIndex)
		if err != nil {
			return nil, fmt.Errorf("page at %d: %w", cur.StartIndex, err)
		}

		if first {
			if total <= 0 {
				return nil, ErrNoData
			}
			cur.Total = total
			cur.Accumulated = make([]T, 0, min(total, maxPrealloc))
		}

		if len(items) == 0 {
			return nil, fmt.Errorf("page at %d of %d: %w", cur.StartIndex, cur.Total, ErrNoProgress)
		}

		cur.Accumulated = append(cur.Accumulated, items...)
		cur.StartIndex += len(items)

		if o.onPage != nil {
			o.onPage(min(len(cur.Accumulated), cur.Total), cur.Total)
		}
	}

	// A final page may overshoot a total that shrank server-side
	if len(cur.Accumulated) > cur.Total {
		cur.Accumulated = cur.Accumulated[:cur.Total]
	}

	return cur.Accumulated, nil
}
