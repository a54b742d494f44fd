package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/slug"
	"github.com/s0up4200/marquee/state"
)

// Messages shown in place of results
const (
	msgNoResults     = "No results"
	msgTryAgainLater = "Something went wrong, try again later"
	msgNotConfigured = "The movie catalog is not configured"
	msgNotFound      = "Nothing found"
)

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// pageResponse is a catalog page with an empty-state message
type pageResponse[T any] struct {
	Page         int    `json:"page"`
	Results      []T    `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Filter       string `json:"filter,omitempty"`
	Message      string `json:"message,omitempty"`
}

func newPageResponse[T any](p *catalog.PagedResult[T]) pageResponse[T] {
	resp := pageResponse[T]{Results: []T{}}
	if p != nil {
		resp.Page = p.Page
		resp.TotalPages = p.TotalPages
		resp.TotalResults = p.TotalResults
		if p.Results != nil {
			resp.Results = p.Results
		}
	}
	if len(resp.Results) == 0 {
		resp.Message = msgNoResults
	}
	return resp
}

// writeJSON encodes v as JSON and writes it with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// badRequest writes a 400 with a machine-readable code
func badRequest(w http.ResponseWriter, code, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: code, Message: msg})
}

// writeError maps err onto a status code and a friendly message
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr     *catalog.APIError
		slugErr    *slug.InvalidSlugError
		compileErr *filter.CompilationError
	)

	switch {
	case errors.Is(err, context.Canceled):
		// Client went away
		return
	case errors.Is(err, catalog.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "not_configured", Message: msgNotConfigured})
	case catalog.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: msgNotFound})
	case errors.As(err, &slugErr):
		badRequest(w, "invalid_slug", slugErr.Error())
	case errors.As(err, &compileErr):
		badRequest(w, "invalid_filter", compileErr.Error())
	case errors.Is(err, filter.ErrUnknownFilter):
		badRequest(w, "unknown_filter", err.Error())
	case errors.Is(err, state.ErrInvalidTheme):
		badRequest(w, "invalid_theme", err.Error())
	case errors.As(err, &apiErr) && apiErr.IsRateLimited():
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate_limited", Message: msgTryAgainLater})
	default:
		hlog.FromRequest(r).Warn().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream_error", Message: msgTryAgainLater})
	}
}
