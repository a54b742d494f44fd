package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the catalog API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the image CDN root
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultTimeout is the HTTP client timeout
	DefaultTimeout = 15 * time.Second
)

// Client represents a catalog API client
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates a new catalog client. An empty apiKey yields an
// unconfigured client rather than an error.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		apiKey:       strings.TrimSpace(apiKey),
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		logger:       logger.With().Str("component", "catalog").Logger(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if _, err := url.ParseRequestURI(client.baseURL); err != nil {
		return nil, fmt.Errorf("%w: base URL %q: %v", ErrInvalidConfig, client.baseURL, err)
	}
	if client.imageBaseURL == "" {
		return nil, fmt.Errorf("%w: image base URL is required", ErrInvalidConfig)
	}

	if !client.Configured() {
		client.logger.Warn().Msg("Catalog API key is not set, catalog requests are disabled")
	}

	return client, nil
}

// Configured reports whether the client has an API key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ImageBaseURL returns the image base URL used for path resolution
func (c *Client) ImageBaseURL() string {
	return c.imageBaseURL
}

// Ping verifies the API key against the configuration endpoint
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetConfiguration(ctx)
	return err
}

// get performs an authenticated GET request and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}
	query.Set("api_key", c.apiKey)

	requestURL := c.baseURL + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("method", http.MethodGet).
		Str("path", endpoint).
		Msg("Catalog request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		c.logger.Warn().
			Err(err).
			Str("path", endpoint).
			Dur("duration", time.Since(start)).
			Msg("Catalog request failed")
		return fmt.Errorf("request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("path", endpoint).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Catalog response failed")
		return fmt.Errorf("failed to read %s response body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, body)
		c.logger.Warn().
			Str("path", endpoint).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Dur("duration", time.Since(start)).
			Msg("Catalog response failed")
		return apiErr
	}

	c.logger.Debug().
		Str("path", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Catalog response")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}

	return nil
}

// getPage fetches one page of a list endpoint
func getPage[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (*PagedResult[T], error) {
	var result PagedResult[T]
	if err := c.get(ctx, endpoint, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
