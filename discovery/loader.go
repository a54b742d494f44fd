package discovery

import (
	"context"
	"errors"
	"sync"

	"github.com/s0up4200/marquee/catalog"
)

var (
	// ErrSuperseded is returned to a load whose result arrived after a newer load started
	ErrSuperseded = errors.New("request superseded by a newer one")
	// ErrNoMorePages is returned by LoadMore when the last page is already shown
	ErrNoMorePages = errors.New("no more pages")
)

// PageFunc fetches one page for a set of filters
type PageFunc[T any] func(ctx context.Context, f SearchFilters) (*catalog.PagedResult[T], error)

// PageLoader holds the page currently shown by one view. Every Load, LoadMore
// or Reset starts a new generation; a result belonging to an older generation
// is dropped instead of replacing what the view shows.
type PageLoader[T any] struct {
	fetch PageFunc[T]

	mu         sync.Mutex
	generation uint64
	filters    SearchFilters
	current    *catalog.PagedResult[T]
}

// NewPageLoader creates a loader backed by fetch
func NewPageLoader[T any](fetch PageFunc[T]) *PageLoader[T] {
	return &PageLoader[T]{fetch: fetch}
}

// Load shows the first page for new filters
func (l *PageLoader[T]) Load(ctx context.Context, f SearchFilters) (*catalog.PagedResult[T], error) {
	f = f.normalized()
	f.Page = 1
	return l.run(ctx, f)
}

// LoadMore shows the next page for the current filters. The new page replaces
// the displayed results rather than being appended to them.
func (l *PageLoader[T]) LoadMore(ctx context.Context) (*catalog.PagedResult[T], error) {
	l.mu.Lock()
	current, filters := l.current, l.filters
	l.mu.Unlock()

	if current != nil && !current.HasMorePages() {
		return current, ErrNoMorePages
	}
	return l.run(ctx, filters.NextPage())
}

func (l *PageLoader[T]) run(ctx context.Context, f SearchFilters) (*catalog.PagedResult[T], error) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	result, err := l.fetch(ctx, f)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	l.filters = f
	l.current = result
	return result, nil
}

// Current returns the displayed page and the filters that produced it
func (l *PageLoader[T]) Current() (*catalog.PagedResult[T], SearchFilters) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.filters
}

// Reset clears the view and drops any in-flight result
func (l *PageLoader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	l.current = nil
	l.filters = SearchFilters{}
}
