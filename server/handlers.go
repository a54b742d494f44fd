package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/discovery"
	"github.com/s0up4200/marquee/slug"
	"github.com/s0up4200/marquee/state"
)

type (
	movieListFunc func(ctx context.Context, page int) (*catalog.PagedResult[catalog.Movie], error)
	tvListFunc    func(ctx context.Context, page int) (*catalog.PagedResult[catalog.TVShow], error)
	relatedFunc   func(ctx context.Context, id, page int) (*catalog.PagedResult[catalog.Movie], error)
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"configured": s.discovery.Configured(),
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	feed, err := s.discovery.Home(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleMovieList(fn movieListFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r.Context(), pageParam(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.writeMovies(w, r, result)
	}
}

func (s *Server) handleTVList(fn tvListFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r.Context(), pageParam(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newPageResponse(result))
	}
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	window := catalog.TimeWindow(chi.URLParam(r, "window"))
	if window != catalog.TimeWindowDay && window != catalog.TimeWindowWeek {
		badRequest(w, "invalid_window", "window must be 'day' or 'week'")
		return
	}

	result, err := s.discovery.Trending(r.Context(), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeMovies(w, r, result)
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	filters, ok := searchFilters(w, r)
	if !ok {
		return
	}
	filters.Query = ""

	result, err := s.discovery.Discover(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeMovies(w, r, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	filters, ok := searchFilters(w, r)
	if !ok {
		return
	}

	result, err := s.discovery.Search(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeMovies(w, r, result)
}

func (s *Server) handleMultiSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.discovery.MultiSearch(r.Context(), r.URL.Query().Get("q"), pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageResponse(result))
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.discovery.Genres(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres.Sorted()})
}

func (s *Server) handleByGenre(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		badRequest(w, "invalid_id", "genre id must be a positive integer")
		return
	}

	result, err := s.discovery.ByGenre(r.Context(), id, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeMovies(w, r, result)
}

// handleMovie accepts either a bare id or a slug ending in the id
func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id, err := slug.ExtractIDFromSlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var expand []string
	if raw := r.URL.Query().Get("append"); raw != "" {
		for part := range strings.SplitSeq(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				expand = append(expand, part)
			}
		}
	}

	details, err := s.discovery.MovieDetails(r.Context(), id, expand...)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"movie":    details,
		"slug":     slug.CreateMovieSlug(details.Title, details.ID),
		"poster":   s.discovery.ImageURL(details.PosterPath, catalog.SizeW500),
		"backdrop": s.discovery.ImageURL(details.BackdropPath, catalog.SizeW1280),
	})
}

func (s *Server) handleRelated(fn relatedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := slug.ExtractIDFromSlug(chi.URLParam(r, "slug"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		result, err := fn(r.Context(), id, pageParam(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.writeMovies(w, r, result)
	}
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	person, err := s.discovery.Person(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := map[string]any{"person": person}
	// Credits are secondary; the page still renders without them
	if credits, err := s.discovery.PersonCredits(r.Context(), id); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Int("person_id", id).Msg("Failed to load person credits")
	} else {
		resp["credits"] = credits
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	collection, err := s.discovery.Collection(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.theme.Theme(), Dark: s.theme.IsDark()})
}

type themeResponse struct {
	Theme state.Theme `json:"theme"`
	Dark  bool        `json:"dark"`
}

// maxBodyBytes caps request bodies; the only one accepted is a theme name
const maxBodyBytes = 1 << 10

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "body_too_large", Message: "request body is too large"})
			return
		}
		badRequest(w, "invalid_json", "request body is not valid JSON")
		return
	}

	theme, err := state.ParseTheme(body.Theme)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.theme.Set(r.Context(), theme); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.theme.Theme(), Dark: s.theme.IsDark()})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": s.notifications.Visible(),
		"total":         len(s.notifications.All()),
	})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	found, err := s.notifications.Dismiss(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: msgNotFound})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecentSearches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"searches": s.searches.Recent()})
}

func (s *Server) handleClearSearches(w http.ResponseWriter, r *http.Request) {
	if err := s.searches.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeMovies applies the optional ?filter= expression or named filter to one page
func (s *Server) writeMovies(w http.ResponseWriter, r *http.Request, result *catalog.PagedResult[catalog.Movie]) {
	expression := strings.TrimSpace(r.URL.Query().Get("filter"))
	if expression == "" || result == nil {
		writeJSON(w, http.StatusOK, newPageResponse(result))
		return
	}

	matches, err := s.filters.Apply(r.Context(), expression, result.Results)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filtered := *result
	filtered.Results = matches
	resp := newPageResponse(&filtered)
	resp.Filter = expression
	writeJSON(w, http.StatusOK, resp)
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		badRequest(w, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// searchFilters reads q, genre, sort, min_date and page
func searchFilters(w http.ResponseWriter, r *http.Request) (discovery.SearchFilters, bool) {
	q := r.URL.Query()
	filters := discovery.SearchFilters{
		Query:   q.Get("q"),
		Sort:    catalog.SortKey(q.Get("sort")),
		MinDate: q.Get("min_date"),
		Page:    pageParam(r),
	}

	if raw := q.Get("genre"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequest(w, "invalid_genre", "genre must be a positive integer")
			return filters, false
		}
		filters = filters.WithGenre(id)
		filters.Page = pageParam(r)
	}

	return filters, true
}
