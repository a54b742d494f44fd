package catalog

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithImageBaseURL overrides the image base URL
func WithImageBaseURL(imageBaseURL string) Option {
	return func(c *Client) {
		c.imageBaseURL = strings.TrimRight(imageBaseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLanguage sets the default language sent with every request
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// SortKey is a UI-level sort choice for discovery
type SortKey string

const (
	// SortPopular orders by popularity, most popular first
	SortPopular SortKey = "popular"
	// SortTopRated orders by vote average, best rated first
	SortTopRated SortKey = "top_rated"
	// SortNewest orders by primary release date, newest first
	SortNewest SortKey = "newest"
)

// Param returns the upstream sort_by value. Unknown keys are passed through
// verbatim so raw upstream tokens such as "revenue.desc" keep working.
func (s SortKey) Param() string {
	switch s {
	case "", SortPopular:
		return "popularity.desc"
	case SortTopRated:
		return "vote_average.desc"
	case SortNewest:
		return "primary_release_date.desc"
	default:
		return string(s)
	}
}

// DiscoverOptions are the filters accepted by discover/movie
type DiscoverOptions struct {
	Page    int
	SortBy  SortKey
	GenreID *int
	// MinDate is an ISO date (YYYY-MM-DD) for the earliest primary release date
	MinDate string
}

func (o DiscoverOptions) values() url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(o.Page))
	params.Set("sort_by", o.SortBy.Param())
	if o.GenreID != nil {
		params.Set("with_genres", strconv.Itoa(*o.GenreID))
	}
	if o.MinDate != "" {
		params.Set("primary_release_date.gte", o.MinDate)
	}
	return params
}

// SearchOptions are the optional filters accepted by search/movie
type SearchOptions struct {
	IncludeAdult       bool
	Year               int
	PrimaryReleaseYear int
	Region             string
	Language           string
}

func (o *SearchOptions) apply(params url.Values) {
	if o == nil {
		return
	}
	if o.IncludeAdult {
		params.Set("include_adult", "true")
	}
	if o.Year > 0 {
		params.Set("year", strconv.Itoa(o.Year))
	}
	if o.PrimaryReleaseYear > 0 {
		params.Set("primary_release_year", strconv.Itoa(o.PrimaryReleaseYear))
	}
	if o.Region != "" {
		params.Set("region", o.Region)
	}
	if o.Language != "" {
		params.Set("language", o.Language)
	}
}
