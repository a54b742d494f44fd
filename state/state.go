// Package state holds the small client-side stores (theme, signed-in user,
// notifications, search history and the response cache snapshot). Each store
// owns one persistence key and writes a JSON envelope:
//
//	{"state": <value>, "expiresAt": "2026-01-01T00:00:00Z"}
//
// expiresAt is present only for time-bound state.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/store"
)

// Persistence keys, one per store
const (
	ThemeKey         = "marquee-theme"
	CacheKey         = "marquee-cache"
	UserKey          = "marquee-user"
	NotificationsKey = "marquee-notifications"
	SearchKey        = "marquee-search"
)

type envelope[T any] struct {
	State     T          `json:"state"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Option configures a store
type Option func(*persisted)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *persisted) {
		p.now = now
	}
}

// WithLogger sets the store logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *persisted) {
		p.logger = logger
	}
}

// persisted is the part every store shares: its backend, key, clock and logger
type persisted struct {
	store  store.Store
	key    string
	now    func() time.Time
	logger zerolog.Logger
}

func newPersisted(s store.Store, key string, opts []Option) persisted {
	p := persisted{
		store:  s,
		key:    key,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	p.logger = p.logger.With().Str("store", key).Logger()
	return p
}

// Key returns the persistence key
func (p *persisted) Key() string {
	return p.key
}

// read loads the envelope. A missing key reports ok=false; an unreadable
// value is logged and treated the same way.
func read[T any](ctx context.Context, p *persisted) (env envelope[T], ok bool, err error) {
	data, err := p.store.Get(ctx, p.key)
	if errors.Is(err, store.ErrNotFound) {
		return env, false, nil
	}
	if err != nil {
		return env, false, fmt.Errorf("failed to load %s: %w", p.key, err)
	}

	if err := json.Unmarshal(data, &env); err != nil {
		p.logger.Warn().Err(err).Msg("Discarding unreadable persisted state")
		return envelope[T]{}, false, nil
	}
	return env, true, nil
}

func write[T any](ctx context.Context, p *persisted, value T, expiresAt *time.Time) error {
	data, err := json.Marshal(envelope[T]{State: value, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.key, err)
	}
	if err := p.store.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", p.key, err)
	}
	return nil
}

func (p *persisted) remove(ctx context.Context) error {
	if err := p.store.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", p.key, err)
	}
	return nil
}
