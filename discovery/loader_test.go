package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
)

func pageOf(f SearchFilters, totalPages int) *catalog.PagedResult[catalog.Movie] {
	return &catalog.PagedResult[catalog.Movie]{
		Page:       f.Page,
		TotalPages: totalPages,
		Results:    []catalog.Movie{{ID: f.Page, Title: f.Query}},
	}
}

func TestPageLoaderLoadMoreReplaces(t *testing.T) {
	loader := NewPageLoader(func(ctx context.Context, f SearchFilters) (*catalog.PagedResult[catalog.Movie], error) {
		return pageOf(f, 2), nil
	})
	ctx := context.Background()

	first, err := loader.Load(ctx, SearchFilters{Query: "heat", Page: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page, "a new load starts at page 1")

	second, err := loader.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Page)
	assert.Len(t, second.Results, 1, "load more replaces results")

	current, filters := loader.Current()
	assert.Same(t, second, current)
	assert.Equal(t, 2, filters.Page)
	assert.Equal(t, "heat", filters.Query)

	last, err := loader.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrNoMorePages)
	assert.Same(t, second, last)
}

func TestPageLoaderDropsSupersededResults(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	loader := NewPageLoader(func(ctx context.Context, f SearchFilters) (*catalog.PagedResult[catalog.Movie], error) {
		if f.Query == "slow" {
			close(started)
			<-release
		}
		return pageOf(f, 1), nil
	})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		slowErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = loader.Load(ctx, SearchFilters{Query: "slow"})
	}()
	<-started

	fast, err := loader.Load(ctx, SearchFilters{Query: "fast"})
	require.NoError(t, err)

	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrSuperseded)
	current, filters := loader.Current()
	assert.Same(t, fast, current)
	assert.Equal(t, "fast", filters.Query)
}

func TestPageLoaderReset(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	loader := NewPageLoader(func(ctx context.Context, f SearchFilters) (*catalog.PagedResult[catalog.Movie], error) {
		close(started)
		<-release
		return pageOf(f, 1), nil
	})

	done := make(chan error)
	go func() {
		_, err := loader.Load(context.Background(), SearchFilters{Query: "gone"})
		done <- err
	}()
	<-started

	loader.Reset()
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	current, _ := loader.Current()
	assert.Nil(t, current)
}

func TestPageLoaderKeepsPageOnError(t *testing.T) {
	fail := false
	loader := NewPageLoader(func(ctx context.Context, f SearchFilters) (*catalog.PagedResult[catalog.Movie], error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return pageOf(f, 3), nil
	})
	ctx := context.Background()

	first, err := loader.Load(ctx, SearchFilters{Query: "ran"})
	require.NoError(t, err)

	fail = true
	_, err = loader.LoadMore(ctx)
	require.Error(t, err)

	current, filters := loader.Current()
	assert.Same(t, first, current)
	assert.Equal(t, 1, filters.Page)
}

func TestSearchFilters(t *testing.T) {
	f := SearchFilters{Query: "  dune  "}
	next := f.NextPage()
	assert.Equal(t, 2, next.Page)
	assert.Equal(t, "dune", next.Query)
	assert.Equal(t, catalog.SortPopular, next.Sort)

	genre := next.WithGenre(878)
	require.NotNil(t, genre.GenreID)
	assert.Equal(t, 878, *genre.GenreID)
	assert.Equal(t, 1, genre.Page)
	assert.Nil(t, next.GenreID, "WithGenre does not mutate the receiver")
}

func TestGenreCatalogFallback(t *testing.T) {
	genres := NewGenreCatalog([]catalog.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}})

	assert.Equal(t, Genre{ID: 28, Name: "Action", Icon: "💥"}, genres.Lookup(28))
	assert.Equal(t, Genre{ID: 99999, Name: UnknownGenreName, Icon: DefaultGenreIcon}, genres.Lookup(99999))
	assert.Equal(t, []string{"Comedy", "Unknown"}, genres.Names([]int{35, 1}))
	assert.False(t, genres.Has(1))

	var empty *GenreCatalog
	assert.Equal(t, UnknownGenreName, empty.Lookup(28).Name)
	assert.Zero(t, empty.Len())
}

func TestKnownGenres(t *testing.T) {
	known := KnownGenres()

	assert.Equal(t, 19, known.Len())
	assert.Equal(t, Genre{ID: 878, Name: "Science Fiction", Icon: "🚀"}, known.Lookup(878))

	names := known.NameMap()
	assert.Equal(t, "Horror", names[27])
	assert.Equal(t, "Drama", names[18])
	assert.Nil(t, (*GenreCatalog)(nil).NameMap())
}
