package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/discovery"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/query"
	"github.com/s0up4200/marquee/state"
	"github.com/s0up4200/marquee/store"
)

// fakeCatalog serves canned catalog responses and counts requests per path
type fakeCatalog struct {
	mu   sync.Mutex
	hits map[string]int
}

func (f *fakeCatalog) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	page := func(results ...map[string]any) map[string]any {
		if results == nil {
			results = []map[string]any{}
		}
		return map[string]any{"page": 1, "total_pages": 1, "total_results": len(results), "results": results}
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/movie/popular", "/trending/movie/week":
		_ = json.NewEncoder(w).Encode(page(
			map[string]any{"id": 348, "title": "Alien", "release_date": "1979-05-25", "vote_average": 8.1, "genre_ids": []int{27, 878}},
			map[string]any{"id": 949, "title": "Heat", "release_date": "1995-12-15", "vote_average": 7.9, "genre_ids": []int{80}},
			map[string]any{"id": 14160, "title": "Up", "release_date": "2009-05-28", "vote_average": 7.9, "genre_ids": []int{16}},
		))
	case "/movie/top_rated", "/movie/upcoming", "/movie/now_playing":
		_ = json.NewEncoder(w).Encode(page(map[string]any{"id": 1, "title": r.URL.Path}))
	case "/discover/movie":
		_ = json.NewEncoder(w).Encode(page(map[string]any{"id": 2, "title": r.URL.Query().Get("sort_by")}))
	case "/search/movie":
		if r.URL.Query().Get("query") == "nothing" {
			_ = json.NewEncoder(w).Encode(page())
			return
		}
		_ = json.NewEncoder(w).Encode(page(map[string]any{"id": 348, "title": "Alien", "genre_ids": []int{27}}))
	case "/movie/348":
		poster := "/alien.jpg"
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 348, "title": "Alien", "poster_path": poster, "runtime": 117})
	case "/genre/movie/list":
		_ = json.NewEncoder(w).Encode(map[string]any{"genres": []map[string]any{
			{"id": 27, "name": "Horror"},
			{"id": 28, "name": "Action"},
		}})
	case "/person/31":
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 31, "name": "Tom Hanks"})
	case "/person/31/movie_credits":
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"status_message": "boom"})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"status_code": 34, "status_message": "The resource could not be found."})
	}
}

type testEnv struct {
	handler  http.Handler
	upstream *fakeCatalog
	registry *prometheus.Registry
	theme    *state.ThemeStore
	notes    *state.NotificationStore
	searches *state.SearchStore
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()

	up := &fakeCatalog{hits: make(map[string]int)}
	upstream := httptest.NewServer(up)
	t.Cleanup(upstream.Close)

	api, err := catalog.NewClient(apiKey, zerolog.Nop(),
		catalog.WithBaseURL(upstream.URL),
		catalog.WithImageBaseURL("https://img.test"),
	)
	require.NoError(t, err)

	queries := query.NewClient(zerolog.Nop(), query.WithRetryDelay(time.Millisecond))
	t.Cleanup(queries.Wait)

	mem := store.NewMemory()
	env := &testEnv{
		upstream: up,
		registry: prometheus.NewRegistry(),
		theme:    state.NewThemeStore(mem, state.StaticScheme(true)),
		notes:    state.NewNotificationStore(mem),
		searches: state.NewSearchStore(mem),
	}

	filters := filter.NewManager()
	require.NoError(t, filters.RegisterFilter("classics", `Year < 1990`))

	svc := discovery.NewService(api, queries, zerolog.Nop(), discovery.WithSearchHistory(env.searches))
	srv := New(svc, zerolog.Nop(),
		WithFilters(filters),
		WithThemeStore(env.theme),
		WithNotifications(env.notes),
		WithSearchHistory(env.searches),
		WithMetrics(env.registry, env.registry),
	)
	env.handler = srv.Routes()
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func resultTitles(t *testing.T, body map[string]any) []string {
	t.Helper()
	results, ok := body["results"].([]any)
	require.True(t, ok, "results is a list")

	titles := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.(map[string]any)["title"].(string))
	}
	return titles
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")
	rec, body := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["configured"])
}

func TestMovieLists(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/movies/popular", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Alien", "Heat", "Up"}, resultTitles(t, body))

	_, _ = env.do(t, http.MethodGet, "/api/movies/popular", "")
	assert.Equal(t, 1, env.upstream.count("/movie/popular"), "second request is served from cache")

	rec, body = env.do(t, http.MethodGet, "/api/movies/top-rated", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/movie/top_rated"}, resultTitles(t, body))
}

func TestMovieListFilter(t *testing.T) {
	env := newTestEnv(t, "key")

	t.Run("expression", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/movies/popular?filter=VoteAverage+%3C+8+and+Year+%3E+2000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Up"}, resultTitles(t, body))
		assert.Equal(t, "VoteAverage < 8 and Year > 2000", body["filter"])
	})

	t.Run("named", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/trending/week?filter=classics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Alien"}, resultTitles(t, body))
	})

	t.Run("no matches", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/movies/popular?filter=Year+%3E+3000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, resultTitles(t, body))
		assert.Equal(t, msgNoResults, body["message"])
	})

	t.Run("invalid", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/movies/popular?filter=%28", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_filter", body["error"])
	})

	t.Run("unknown field", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/movies/popular?filter=Score+%3E%3D+7", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_filter", body["error"])
	})

	t.Run("rating alias", func(t *testing.T) {
		rec, body := env.do(t, http.MethodGet, "/api/movies/popular?filter=Rating+%3E%3D+8", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Alien"}, resultTitles(t, body))
	})
}

func TestTrendingWindow(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/trending/month", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_window", body["error"])
}

func TestDiscoverAndSearch(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/discover?sort=newest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"primary_release_date.desc"}, resultTitles(t, body))

	rec, body = env.do(t, http.MethodGet, "/api/search?sort=top_rated", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"vote_average.desc"}, resultTitles(t, body), "empty query falls back to discover")

	rec, body = env.do(t, http.MethodGet, "/api/search?q=alien", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Alien"}, resultTitles(t, body))

	rec, body = env.do(t, http.MethodGet, "/api/search?q=nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgNoResults, body["message"])

	rec, body = env.do(t, http.MethodGet, "/api/search?q=alien&genre=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_genre", body["error"])

	rec, body = env.do(t, http.MethodGet, "/api/searches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"nothing", "alien"}, body["searches"])

	rec, _ = env.do(t, http.MethodDelete, "/api/searches", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.searches.Recent())
}

func TestMovieDetails(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/movies/alien-348", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alien-348", body["slug"])
	assert.Equal(t, "https://img.test/w500/alien.jpg", body["poster"])
	assert.Nil(t, body["backdrop"])

	rec, body = env.do(t, http.MethodGet, "/api/movies/alien", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_slug", body["error"])

	rec, body = env.do(t, http.MethodGet, "/api/movies/missing-999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, body["message"])
	assert.Equal(t, 1, env.upstream.count("/movie/999"), "not found is not retried")
}

func TestPerson(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/people/31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tom Hanks", body["person"].(map[string]any)["name"])
	assert.NotContains(t, body, "credits", "failed credits are left out")

	rec, _ = env.do(t, http.MethodGet, "/api/people/zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenres(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/genres", "")
	require.Equal(t, http.StatusOK, rec.Code)

	genres := body["genres"].([]any)
	require.Len(t, genres, 2)
	first := genres[0].(map[string]any)
	assert.Equal(t, "Action", first["name"])
	assert.NotEmpty(t, first["icon"])
}

func TestNotConfigured(t *testing.T) {
	env := newTestEnv(t, "")

	rec, body := env.do(t, http.MethodGet, "/api/movies/popular", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_configured", body["error"])
	assert.Zero(t, env.upstream.count("/movie/popular"))

	rec, body = env.do(t, http.MethodGet, "/api/home", "")
	require.Equal(t, http.StatusOK, rec.Code, "home degrades to empty sections")
	assert.Len(t, body["failed"], 5)
}

func TestThemeEndpoints(t *testing.T) {
	env := newTestEnv(t, "key")

	rec, body := env.do(t, http.MethodGet, "/api/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "system", body["theme"])
	assert.Equal(t, true, body["dark"])

	rec, body = env.do(t, http.MethodPut, "/api/theme", `{"theme":"light"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", body["theme"])
	assert.Equal(t, false, body["dark"])
	assert.Equal(t, state.ThemeLight, env.theme.Theme())

	rec, body = env.do(t, http.MethodPut, "/api/theme", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_theme", body["error"])

	rec, body = env.do(t, http.MethodPut, "/api/theme", `{"theme":"`+strings.Repeat("x", 2*maxBodyBytes)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", body["error"])
	assert.Equal(t, state.ThemeLight, env.theme.Theme())
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestEnv(t, "key")
	ctx := context.Background()

	var last state.Notification
	for _, title := range []string{"n1", "n2", "n3", "n4"} {
		n, err := env.notes.Push(ctx, state.KindInfo, title, "")
		require.NoError(t, err)
		last = n
	}

	rec, body := env.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["notifications"], state.MaxVisible)
	assert.EqualValues(t, 4, body["total"])

	rec, _ = env.do(t, http.MethodDelete, "/api/notifications/"+last.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/notifications/"+last.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, "key")

	_, _ = env.do(t, http.MethodGet, "/api/movies/alien-348", "")
	_, _ = env.do(t, http.MethodGet, "/api/movies/up-14160", "")

	assert.Equal(t, 2, testutil.CollectAndCount(env.registry, "marquee_http_requests_total"))

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/movies/{slug}"`)
}
