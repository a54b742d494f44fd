package catalog

import (
	"context"
)

// API defines the catalog operations used by the data-access layer
type API interface {
	// Configured reports whether requests can be made at all
	Configured() bool

	// Curated lists
	GetTrending(ctx context.Context, window TimeWindow) (*PagedResult[Movie], error)
	GetTrendingAll(ctx context.Context, media MediaType, window TimeWindow) (*PagedResult[MultiResult], error)
	GetPopular(ctx context.Context, page int) (*PagedResult[Movie], error)
	GetTopRated(ctx context.Context, page int) (*PagedResult[Movie], error)
	GetUpcoming(ctx context.Context, page int) (*PagedResult[Movie], error)
	GetNowPlaying(ctx context.Context, page int) (*PagedResult[Movie], error)
	GetPopularTV(ctx context.Context, page int) (*PagedResult[TVShow], error)
	GetTopRatedTV(ctx context.Context, page int) (*PagedResult[TVShow], error)

	// Discovery and search
	Discover(ctx context.Context, opts DiscoverOptions) (*PagedResult[Movie], error)
	SearchMovies(ctx context.Context, query string, page int, opts *SearchOptions) (*PagedResult[Movie], error)
	MultiSearch(ctx context.Context, query string, page int) (*PagedResult[MultiResult], error)
	SearchPeople(ctx context.Context, query string, page int) (*PagedResult[Person], error)

	// Movie sub-resources
	GetMovieDetails(ctx context.Context, id int, expand ...string) (*MovieDetails, error)
	GetMovieCredits(ctx context.Context, id int) (*Credits, error)
	GetMovieVideos(ctx context.Context, id int) (*VideoList, error)
	GetMovieReviews(ctx context.Context, id, page int) (*PagedResult[Review], error)
	GetSimilarMovies(ctx context.Context, id, page int) (*PagedResult[Movie], error)
	GetRecommendations(ctx context.Context, id, page int) (*PagedResult[Movie], error)

	// Reference data
	GetGenres(ctx context.Context) ([]Genre, error)
	GetPerson(ctx context.Context, id int) (*PersonDetails, error)
	GetPersonMovieCredits(ctx context.Context, id int) (*PersonMovieCredits, error)
	GetPersonTVCredits(ctx context.Context, id int) (*PersonTVCredits, error)
	GetCollection(ctx context.Context, id int) (*Collection, error)
	GetConfiguration(ctx context.Context) (*Configuration, error)
	GetCountries(ctx context.Context) ([]Country, error)
	GetLanguages(ctx context.Context) ([]Language, error)

	// Image resolution
	ImageURL(path *string, size ImageSize) *string
}

var _ API = (*Client)(nil)
