package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func pageParams(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(page)}}
}

// GetTrending retrieves trending movies for the given window
func (c *Client) GetTrending(ctx context.Context, window TimeWindow) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, fmt.Sprintf("/trending/%s/%s", MediaTypeMovie, window), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending movies: %w", err)
	}
	return result, nil
}

// GetTrendingAll retrieves trending records of the given media type
func (c *Client) GetTrendingAll(ctx context.Context, media MediaType, window TimeWindow) (*PagedResult[MultiResult], error) {
	result, err := getPage[MultiResult](ctx, c, fmt.Sprintf("/trending/%s/%s", media, window), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending %s: %w", media, err)
	}
	// Single media type lists omit media_type on each row
	if media != MediaTypeAll {
		for i := range result.Results {
			if result.Results[i].MediaType == "" {
				result.Results[i].MediaType = media
			}
		}
	}
	return result, nil
}

// GetPopular retrieves popular movies
func (c *Client) GetPopular(ctx context.Context, page int) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, "/movie/popular", pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get popular movies: %w", err)
	}
	return result, nil
}

// GetTopRated retrieves top rated movies
func (c *Client) GetTopRated(ctx context.Context, page int) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, "/movie/top_rated", pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated movies: %w", err)
	}
	return result, nil
}

// GetUpcoming retrieves upcoming movies
func (c *Client) GetUpcoming(ctx context.Context, page int) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, "/movie/upcoming", pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming movies: %w", err)
	}
	return result, nil
}

// GetNowPlaying retrieves movies currently in theatres
func (c *Client) GetNowPlaying(ctx context.Context, page int) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, "/movie/now_playing", pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get now playing movies: %w", err)
	}
	return result, nil
}

// GetPopularTV retrieves popular TV shows
func (c *Client) GetPopularTV(ctx context.Context, page int) (*PagedResult[TVShow], error) {
	result, err := getPage[TVShow](ctx, c, "/tv/popular", pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get popular shows: %w", err)
	}
	return result, nil
}

// GetTopRatedTV retrieves top rated TV shows
func (c *Client) GetTopRatedTV(ctx context.Context, page int) (*PagedResult[TVShow], error) {
	result, err := getPage[TVShow](ctx, c, "/tv/top_rated", pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated shows: %w", err)
	}
	return result, nil
}

// Discover lists movies matching the given options
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, "/discover/movie", opts.values())
	if err != nil {
		return nil, fmt.Errorf("failed to discover movies: %w", err)
	}
	return result, nil
}

// GetMovieDetails retrieves a movie. expand names sub-resources (credits,
// videos, reviews, similar, recommendations) to append to the response.
func (c *Client) GetMovieDetails(ctx context.Context, id int, expand ...string) (*MovieDetails, error) {
	params := url.Values{}
	if len(expand) > 0 {
		params.Set("append_to_response", strings.Join(expand, ","))
	}

	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &details, nil
}

// GetMovieCredits retrieves cast and crew for a movie
func (c *Client) GetMovieCredits(ctx context.Context, id int) (*Credits, error) {
	var credits Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get credits for movie %d: %w", id, err)
	}
	return &credits, nil
}

// GetMovieVideos retrieves trailers and clips for a movie
func (c *Client) GetMovieVideos(ctx context.Context, id int) (*VideoList, error) {
	var videos VideoList
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &videos); err != nil {
		return nil, fmt.Errorf("failed to get videos for movie %d: %w", id, err)
	}
	return &videos, nil
}

// GetMovieReviews retrieves a page of reviews for a movie
func (c *Client) GetMovieReviews(ctx context.Context, id, page int) (*PagedResult[Review], error) {
	result, err := getPage[Review](ctx, c, fmt.Sprintf("/movie/%d/reviews", id), pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for movie %d: %w", id, err)
	}
	return result, nil
}

// GetSimilarMovies retrieves movies similar to the given one
func (c *Client) GetSimilarMovies(ctx context.Context, id, page int) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, fmt.Sprintf("/movie/%d/similar", id), pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get similar movies for %d: %w", id, err)
	}
	return result, nil
}

// GetRecommendations retrieves upstream recommendations for a movie
func (c *Client) GetRecommendations(ctx context.Context, id, page int) (*PagedResult[Movie], error) {
	result, err := getPage[Movie](ctx, c, fmt.Sprintf("/movie/%d/recommendations", id), pageParams(page))
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations for movie %d: %w", id, err)
	}
	return result, nil
}
