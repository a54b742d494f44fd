package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/catalog"
)

// HomeFeed holds the lists shown on the landing page
type HomeFeed struct {
	Trending   []catalog.Movie `json:"trending"`
	Popular    []catalog.Movie `json:"popular"`
	TopRated   []catalog.Movie `json:"topRated"`
	Upcoming   []catalog.Movie `json:"upcoming"`
	NowPlaying []catalog.Movie `json:"nowPlaying"`
	// Failed names the sections that could not be loaded
	Failed []string `json:"failed,omitempty"`
}

// Home loads every landing page list concurrently. A section that fails is
// left empty and reported in Failed; Home itself never returns an error
// unless ctx is done.
func (s *Service) Home(ctx context.Context) (*HomeFeed, error) {
	type listFunc func(context.Context) (*catalog.PagedResult[catalog.Movie], error)
	firstPage := func(fn func(context.Context, int) (*catalog.PagedResult[catalog.Movie], error)) listFunc {
		return func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) { return fn(ctx, 1) }
	}

	feed := &HomeFeed{}
	sections := []struct {
		name  string
		dst   *[]catalog.Movie
		fetch listFunc
	}{
		{"trending", &feed.Trending, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
			return s.Trending(ctx, catalog.TimeWindowWeek)
		}},
		{"popular", &feed.Popular, firstPage(s.Popular)},
		{"top_rated", &feed.TopRated, firstPage(s.TopRated)},
		{"upcoming", &feed.Upcoming, firstPage(s.Upcoming)},
		{"now_playing", &feed.NowPlaying, firstPage(s.NowPlaying)},
	}

	failed := make([]bool, len(sections))

	var g errgroup.Group
	for i, sec := range sections {
		g.Go(func() error {
			result, err := sec.fetch(ctx)
			if err != nil {
				s.logger.Warn().Err(err).Str("section", sec.name).Msg("Failed to load home section")
				failed[i] = true
				*sec.dst = []catalog.Movie{}
				return nil
			}
			*sec.dst = result.Results
			if *sec.dst == nil {
				*sec.dst = []catalog.Movie{}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, sec := range sections {
		if failed[i] {
			feed.Failed = append(feed.Failed, sec.name)
		}
	}

	return feed, nil
}
