// Package server exposes the discovery layer as a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/marquee/discovery"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/state"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Server serves the discovery API
type Server struct {
	discovery     *discovery.Service
	filters       *filter.Manager
	theme         *state.ThemeStore
	notifications *state.NotificationStore
	searches      *state.SearchStore

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	metrics    *metrics

	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       zerolog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithFilters sets the named filters available to the ?filter= parameter
func WithFilters(m *filter.Manager) Option {
	return func(s *Server) {
		s.filters = m
	}
}

// WithThemeStore exposes the theme preference
func WithThemeStore(t *state.ThemeStore) Option {
	return func(s *Server) {
		s.theme = t
	}
}

// WithNotifications exposes the notification stack
func WithNotifications(n *state.NotificationStore) Option {
	return func(s *Server) {
		s.notifications = n
	}
}

// WithSearchHistory exposes recent searches
func WithSearchHistory(h *state.SearchStore) Option {
	return func(s *Server) {
		s.searches = h
	}
}

// WithMetrics registers request metrics with reg and serves gatherer on /metrics
func WithMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.registerer = reg
		s.gatherer = gatherer
	}
}

// WithTimeouts sets the HTTP read and write timeouts
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// New creates a server over svc
func New(svc *discovery.Service, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		discovery:    svc,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		logger:       logger.With().Str("component", "server").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.filters == nil {
		s.filters = filter.NewManager()
	}
	s.metrics = newMetrics(s.registerer)
	return s
}

// Routes builds the chi router with every endpoint registered
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.handleHome)
		r.Get("/trending/{window}", s.handleTrending)
		r.Get("/discover", s.handleDiscover)
		r.Get("/search", s.handleSearch)
		r.Get("/multi", s.handleMultiSearch)
		r.Get("/genres", s.handleGenres)
		r.Get("/genres/{id}", s.handleByGenre)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/popular", s.handleMovieList(s.discovery.Popular))
			r.Get("/top-rated", s.handleMovieList(s.discovery.TopRated))
			r.Get("/upcoming", s.handleMovieList(s.discovery.Upcoming))
			r.Get("/now-playing", s.handleMovieList(s.discovery.NowPlaying))
			r.Get("/{slug}", s.handleMovie)
			r.Get("/{slug}/similar", s.handleRelated(s.discovery.Similar))
			r.Get("/{slug}/recommendations", s.handleRelated(s.discovery.Recommendations))
		})

		r.Get("/tv/popular", s.handleTVList(s.discovery.PopularTV))
		r.Get("/tv/top-rated", s.handleTVList(s.discovery.TopRatedTV))
		r.Get("/people/{id}", s.handlePerson)
		r.Get("/collections/{id}", s.handleCollection)

		if s.theme != nil {
			r.Get("/theme", s.handleGetTheme)
			r.Put("/theme", s.handleSetTheme)
		}
		if s.notifications != nil {
			r.Get("/notifications", s.handleNotifications)
			r.Delete("/notifications/{id}", s.handleDismissNotification)
		}
		if s.searches != nil {
			r.Get("/searches", s.handleRecentSearches)
			r.Delete("/searches", s.handleClearSearches)
		}
	})

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
