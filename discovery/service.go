// Package discovery translates browsing intents (lists, search, genre filters,
// details) into cached catalog calls.
package discovery

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/query"
)

// SearchRecorder receives every non-empty search query
type SearchRecorder interface {
	Record(ctx context.Context, query string) error
}

// Option configures a Service
type Option func(*Service)

// WithSearchHistory records search queries into h
func WithSearchHistory(h SearchRecorder) Option {
	return func(s *Service) {
		s.history = h
	}
}

// Service serves catalog data through the query cache
type Service struct {
	api     catalog.API
	queries *query.Client
	history SearchRecorder
	logger  zerolog.Logger
}

// NewService creates a new discovery service
func NewService(api catalog.API, queries *query.Client, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		api:     api,
		queries: queries,
		logger:  logger.With().Str("component", "discovery").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether the catalog has an API key
func (s *Service) Configured() bool {
	return s.api.Configured()
}

// ImageURL resolves an image path against the catalog image base URL
func (s *Service) ImageURL(path *string, size catalog.ImageSize) *string {
	return s.api.ImageURL(path, size)
}

// Trending returns trending movies for the window
func (s *Service) Trending(ctx context.Context, window catalog.TimeWindow) (*catalog.PagedResult[catalog.Movie], error) {
	key := query.NewKey("trending/movie", "window", string(window))
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
		return s.api.GetTrending(ctx, window)
	})
}

// TrendingAll returns trending records of any media type
func (s *Service) TrendingAll(ctx context.Context, media catalog.MediaType, window catalog.TimeWindow) (*catalog.PagedResult[catalog.MultiResult], error) {
	key := query.NewKey("trending", "media", string(media), "window", string(window))
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.MultiResult], error) {
		return s.api.GetTrendingAll(ctx, media, window)
	})
}

// Popular returns a page of popular movies
func (s *Service) Popular(ctx context.Context, page int) (*catalog.PagedResult[catalog.Movie], error) {
	return s.moviePage(ctx, "movie/popular", page, s.api.GetPopular)
}

// TopRated returns a page of top rated movies
func (s *Service) TopRated(ctx context.Context, page int) (*catalog.PagedResult[catalog.Movie], error) {
	return s.moviePage(ctx, "movie/top_rated", page, s.api.GetTopRated)
}

// Upcoming returns a page of upcoming movies
func (s *Service) Upcoming(ctx context.Context, page int) (*catalog.PagedResult[catalog.Movie], error) {
	return s.moviePage(ctx, "movie/upcoming", page, s.api.GetUpcoming)
}

// NowPlaying returns a page of movies currently in theatres
func (s *Service) NowPlaying(ctx context.Context, page int) (*catalog.PagedResult[catalog.Movie], error) {
	return s.moviePage(ctx, "movie/now_playing", page, s.api.GetNowPlaying)
}

// PopularTV returns a page of popular TV shows
func (s *Service) PopularTV(ctx context.Context, page int) (*catalog.PagedResult[catalog.TVShow], error) {
	page = clampPage(page)
	key := query.NewKey("tv/popular", "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.TVShow], error) {
		return s.api.GetPopularTV(ctx, page)
	})
}

// TopRatedTV returns a page of top rated TV shows
func (s *Service) TopRatedTV(ctx context.Context, page int) (*catalog.PagedResult[catalog.TVShow], error) {
	page = clampPage(page)
	key := query.NewKey("tv/top_rated", "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.TVShow], error) {
		return s.api.GetTopRatedTV(ctx, page)
	})
}

func (s *Service) moviePage(ctx context.Context, op string, page int, fn func(context.Context, int) (*catalog.PagedResult[catalog.Movie], error)) (*catalog.PagedResult[catalog.Movie], error) {
	page = clampPage(page)
	key := query.NewKey(op, "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
		return fn(ctx, page)
	})
}

// Discover runs discover/movie with the filters' genre, sort and page
func (s *Service) Discover(ctx context.Context, f SearchFilters) (*catalog.PagedResult[catalog.Movie], error) {
	f = f.normalized()
	opts := catalog.DiscoverOptions{
		Page:    f.Page,
		SortBy:  f.Sort,
		GenreID: f.GenreID,
		MinDate: f.MinDate,
	}
	key := query.NewKey("discover/movie",
		"page", f.Page,
		"sort_by", f.Sort.Param(),
		"with_genres", f.GenreID,
		"primary_release_date.gte", f.MinDate,
	)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
		return s.api.Discover(ctx, opts)
	})
}

// ByGenre returns popular movies of one genre
func (s *Service) ByGenre(ctx context.Context, genreID, page int) (*catalog.PagedResult[catalog.Movie], error) {
	return s.Discover(ctx, SearchFilters{GenreID: &genreID, Sort: catalog.SortPopular, Page: page})
}

// Search runs a free-text movie search. An empty query browses through
// discover instead. A selected genre narrows the search results locally since
// search/movie has no genre parameter.
func (s *Service) Search(ctx context.Context, f SearchFilters) (*catalog.PagedResult[catalog.Movie], error) {
	f = f.normalized()
	if f.Query == "" {
		return s.Discover(ctx, f)
	}

	s.record(ctx, f.Query)

	key := query.NewKey("search/movie", "query", f.Query, "page", f.Page)
	result, err := query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
		return s.api.SearchMovies(ctx, f.Query, f.Page, nil)
	})
	if err != nil || f.GenreID == nil {
		return result, err
	}

	genreID := *f.GenreID
	filtered := &catalog.PagedResult[catalog.Movie]{
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalResults: result.TotalResults,
	}
	for _, m := range result.Results {
		if slices.Contains(m.GenreIDs, genreID) {
			filtered.Results = append(filtered.Results, m)
		}
	}
	return filtered, nil
}

// MultiSearch searches movies, shows and people at once. An empty query
// returns an empty page without a request.
func (s *Service) MultiSearch(ctx context.Context, q string, page int) (*catalog.PagedResult[catalog.MultiResult], error) {
	q = strings.TrimSpace(q)
	page = clampPage(page)
	if q == "" {
		return &catalog.PagedResult[catalog.MultiResult]{Page: page}, nil
	}

	s.record(ctx, q)

	key := query.NewKey("search/multi", "query", q, "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.MultiResult], error) {
		return s.api.MultiSearch(ctx, q, page)
	})
}

// SearchPeople searches people by name
func (s *Service) SearchPeople(ctx context.Context, q string, page int) (*catalog.PagedResult[catalog.Person], error) {
	q = strings.TrimSpace(q)
	page = clampPage(page)
	if q == "" {
		return &catalog.PagedResult[catalog.Person]{Page: page}, nil
	}

	key := query.NewKey("search/person", "query", q, "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Person], error) {
		return s.api.SearchPeople(ctx, q, page)
	})
}

func (s *Service) record(ctx context.Context, q string) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, q); err != nil {
		s.logger.Warn().Err(err).Str("query", q).Msg("Failed to record search")
	}
}

// MovieDetails returns a movie with the requested sub-resources appended
func (s *Service) MovieDetails(ctx context.Context, id int, expand ...string) (*catalog.MovieDetails, error) {
	key := query.NewKey("movie", "id", id, "append_to_response", expand)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.MovieDetails, error) {
		return s.api.GetMovieDetails(ctx, id, expand...)
	})
}

// Credits returns a movie's cast and crew
func (s *Service) Credits(ctx context.Context, id int) (*catalog.Credits, error) {
	key := query.NewKey("movie/credits", "id", id)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.Credits, error) {
		return s.api.GetMovieCredits(ctx, id)
	})
}

// Videos returns a movie's trailers and clips
func (s *Service) Videos(ctx context.Context, id int) (*catalog.VideoList, error) {
	key := query.NewKey("movie/videos", "id", id)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.VideoList, error) {
		return s.api.GetMovieVideos(ctx, id)
	})
}

// Reviews returns a page of a movie's reviews
func (s *Service) Reviews(ctx context.Context, id, page int) (*catalog.PagedResult[catalog.Review], error) {
	page = clampPage(page)
	key := query.NewKey("movie/reviews", "id", id, "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Review], error) {
		return s.api.GetMovieReviews(ctx, id, page)
	})
}

// Similar returns movies similar to id
func (s *Service) Similar(ctx context.Context, id, page int) (*catalog.PagedResult[catalog.Movie], error) {
	page = clampPage(page)
	key := query.NewKey("movie/similar", "id", id, "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
		return s.api.GetSimilarMovies(ctx, id, page)
	})
}

// Recommendations returns the catalog's recommendations for id
func (s *Service) Recommendations(ctx context.Context, id, page int) (*catalog.PagedResult[catalog.Movie], error) {
	page = clampPage(page)
	key := query.NewKey("movie/recommendations", "id", id, "page", page)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PagedResult[catalog.Movie], error) {
		return s.api.GetRecommendations(ctx, id, page)
	})
}

// Person returns a person's details
func (s *Service) Person(ctx context.Context, id int) (*catalog.PersonDetails, error) {
	key := query.NewKey("person", "id", id)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PersonDetails, error) {
		return s.api.GetPerson(ctx, id)
	})
}

// PersonCredits returns a person's movie credits
func (s *Service) PersonCredits(ctx context.Context, id int) (*catalog.PersonMovieCredits, error) {
	key := query.NewKey("person/movie_credits", "id", id)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PersonMovieCredits, error) {
		return s.api.GetPersonMovieCredits(ctx, id)
	})
}

// PersonTVCredits returns a person's TV credits
func (s *Service) PersonTVCredits(ctx context.Context, id int) (*catalog.PersonTVCredits, error) {
	key := query.NewKey("person/tv_credits", "id", id)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.PersonTVCredits, error) {
		return s.api.GetPersonTVCredits(ctx, id)
	})
}

// Collection returns a movie collection
func (s *Service) Collection(ctx context.Context, id int) (*catalog.Collection, error) {
	key := query.NewKey("collection", "id", id)
	return query.Fetch(ctx, s.queries, key, func(ctx context.Context) (*catalog.Collection, error) {
		return s.api.GetCollection(ctx, id)
	})
}

// Genres returns the genre catalog with local icons
func (s *Service) Genres(ctx context.Context) (*GenreCatalog, error) {
	genres, err := query.Fetch(ctx, s.queries, query.NewKey("genre/movie/list"), s.api.GetGenres)
	if err != nil {
		return nil, err
	}
	return NewGenreCatalog(genres), nil
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
