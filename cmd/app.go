package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/discovery"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/query"
	"github.com/s0up4200/marquee/state"
	"github.com/s0up4200/marquee/store"
)

// application holds every wired component for the lifetime of one command
type application struct {
	catalog       *catalog.Client
	queries       *query.Client
	store         store.Store
	theme         *state.ThemeStore
	user          *state.UserStore
	notifications *state.NotificationStore
	searches      *state.SearchStore
	cache         *state.CacheStore
	discovery     *discovery.Service
	filters       *filter.Manager
	registry      *prometheus.Registry
	persistCache  bool
	logger        zerolog.Logger
}

func newApplication(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*application, error) {
	a := &application{
		registry:     prometheus.NewRegistry(),
		persistCache: cfg.Cache.Persist,
		logger:       logger,
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Create catalog client
	var err error
	a.catalog, err = catalog.NewClient(cfg.TMDB.APIKey, logger,
		catalog.WithBaseURL(cfg.TMDB.APIURL),
		catalog.WithImageBaseURL(cfg.TMDB.ImageURL),
		catalog.WithLanguage(cfg.TMDB.Language),
		catalog.WithTimeout(cfg.TMDB.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	a.queries = query.NewClient(logger,
		query.WithStaleTime(cfg.Cache.StaleTime),
		query.WithRetention(cfg.Cache.Retention),
		query.WithMaxEntries(cfg.Cache.MaxEntries),
		query.WithAttempts(cfg.Cache.Attempts),
		query.WithMetrics(a.registry),
	)

	a.store, err = store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug().Str("backend", cfg.Store.Backend).Str("path", cfg.Store.Path).Msg("State store opened")

	opts := []state.Option{state.WithLogger(logger)}
	a.theme = state.NewThemeStore(a.store, nil, opts...)
	a.user = state.NewUserStore(a.store, opts...)
	a.notifications = state.NewNotificationStore(a.store, opts...)
	a.searches = state.NewSearchStore(a.store, opts...)
	a.cache = state.NewCacheStore(a.store, a.queries, opts...)

	// Expired entries go before anything is replayed
	if _, err := state.Sweep(ctx, logger, a.searches, a.cache); err != nil {
		logger.Warn().Err(err).Msg("Startup sweep incomplete")
	}
	if err := a.load(ctx, cfg); err != nil {
		_ = a.store.Close()
		return nil, err
	}

	a.discovery = discovery.NewService(a.catalog, a.queries, logger, discovery.WithSearchHistory(a.searches))

	compiler := filter.NewExprCompiler(
		filter.WithCache(100),
		filter.WithGenreNames(discovery.KnownGenres().NameMap()),
	)
	a.filters = filter.NewManager(filter.WithCompiler(compiler))
	if len(cfg.Filters) > 0 {
		if err := a.filters.RegisterFilters(cfg.Filters); err != nil {
			_ = a.store.Close()
			return nil, fmt.Errorf("invalid filters in config: %w", err)
		}
		logger.Debug().Int("count", len(cfg.Filters)).Msg("Registered named filters")
	}

	return a, nil
}

// load replays persisted state into the stores
func (a *application) load(ctx context.Context, cfg *config.Config) error {
	if err := a.theme.Load(ctx); err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	if configured, _ := state.ParseTheme(cfg.Theme); configured != state.ThemeSystem && a.theme.Theme() == state.ThemeSystem {
		if err := a.theme.Set(ctx, configured); err != nil {
			return fmt.Errorf("failed to apply configured theme: %w", err)
		}
	}
	if err := a.user.Load(ctx); err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := a.notifications.Load(ctx); err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}
	if err := a.searches.Load(ctx); err != nil {
		return fmt.Errorf("failed to load search history: %w", err)
	}

	if a.persistCache {
		restored, err := a.cache.Load(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Failed to restore query cache")
		} else if restored > 0 {
			a.logger.Debug().Int("entries", restored).Msg("Query cache restored")
		}
	}

	return nil
}

// Close waits for background refreshes, saves the cache and closes the store
func (a *application) Close(ctx context.Context) error {
	a.queries.Wait()

	var errs []error
	if a.persistCache {
		if err := a.cache.Save(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("failed to save query cache: %w", err))
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	return errors.Join(errs...)
}
