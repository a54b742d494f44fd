package catalog

import (
	"context"
	"fmt"
)

// SearchMovies searches movies by title
func (c *Client) SearchMovies(ctx context.Context, query string, page int, opts *SearchOptions) (*PagedResult[Movie], error) {
	params := pageParams(page)
	params.Set("query", query)
	opts.apply(params)

	result, err := getPage[Movie](ctx, c, "/search/movie", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies for %q: %w", query, err)
	}
	return result, nil
}

// MultiSearch searches movies, shows and people in one request
func (c *Client) MultiSearch(ctx context.Context, query string, page int) (*PagedResult[MultiResult], error) {
	params := pageParams(page)
	params.Set("query", query)

	result, err := getPage[MultiResult](ctx, c, "/search/multi", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog for %q: %w", query, err)
	}
	return result, nil
}

// SearchPeople searches people by name
func (c *Client) SearchPeople(ctx context.Context, query string, page int) (*PagedResult[Person], error) {
	params := pageParams(page)
	params.Set("query", query)

	result, err := getPage[Person](ctx, c, "/search/person", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search people for %q: %w", query, err)
	}
	return result, nil
}
