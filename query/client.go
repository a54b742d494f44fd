// Package query caches catalog responses with a stale-while-revalidate policy.
//
// A cached result is fresh for StaleTime and served without a network call.
// Between StaleTime and Retention it is served immediately while one
// background refresh runs. Past Retention it is evicted and the next caller
// fetches synchronously. Concurrent callers of the same key share a single
// in-flight fetch. Failed fetches are retried, except for definitive
// not-found responses.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/marquee/catalog"
)

const (
	// DefaultStaleTime is how long a result is served without a refetch
	DefaultStaleTime = 5 * time.Minute
	// DefaultRetention is how long a result is kept at all
	DefaultRetention = 30 * time.Minute
	// DefaultAttempts is the number of tries per fetch, including the first
	DefaultAttempts = 3
	// DefaultMaxEntries bounds the number of cached queries
	DefaultMaxEntries = 1000

	fetchTimeout = 30 * time.Second
)

// FetchFunc loads a value for a key
type FetchFunc func(ctx context.Context) (any, error)

// Option configures a Client
type Option func(*Client)

// WithStaleTime sets the fresh window
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) {
		c.staleTime = d
	}
}

// WithRetention sets how long results are retained before eviction
func WithRetention(d time.Duration) Option {
	return func(c *Client) {
		c.retention = d
	}
}

// WithMaxEntries bounds the cache size; 0 disables the bound
func WithMaxEntries(n int) Option {
	return func(c *Client) {
		c.maxEntries = n
	}
}

// WithAttempts sets the number of tries per fetch
func WithAttempts(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRetryDelay overrides the retry library's default base delay
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMetrics registers cache metrics with reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.registerer = reg
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client is a keyed, staleness-aware cache in front of fetch functions
type Client struct {
	staleTime  time.Duration
	retention  time.Duration
	maxEntries int
	attempts   uint
	retryDelay time.Duration
	registerer prometheus.Registerer
	now        func() time.Time
	logger     zerolog.Logger

	mu         sync.Mutex
	cache      *lruCache
	refreshing map[string]struct{}
	flights    map[string]*flight
	group      singleflight.Group
	metrics    *metrics
	wg         sync.WaitGroup
}

// NewClient creates a new query client
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		staleTime:  DefaultStaleTime,
		retention:  DefaultRetention,
		maxEntries: DefaultMaxEntries,
		attempts:   DefaultAttempts,
		now:        time.Now,
		logger:     logger.With().Str("component", "query").Logger(),
		refreshing: make(map[string]struct{}),
		flights:    make(map[string]*flight),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.retention < c.staleTime {
		c.retention = c.staleTime
	}
	c.cache = newLRUCache(c.maxEntries)
	c.metrics = newMetrics(c.registerer, func() float64 { return float64(c.Len()) })

	return c
}

// Fetch returns the value cached under key, loading it with fn when needed
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	v, err := c.Do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	switch typed := v.(type) {
	case T:
		return typed, nil
	case json.RawMessage:
		// Restored from a persisted snapshot; decode once and keep the typed value
		var decoded T
		if err := json.Unmarshal(typed, &decoded); err != nil {
			c.Invalidate(key)
			return Fetch(ctx, c, key, fn)
		}
		c.replaceRaw(key.String(), decoded)
		return decoded, nil
	default:
		return zero, fmt.Errorf("query %s: cached value has type %T", key.Operation, v)
	}
}

// Do is the untyped form of Fetch
func (c *Client) Do(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	k := key.String()
	now := c.now()

	c.mu.Lock()
	if ent, ok := c.cache.get(k); ok {
		age := now.Sub(ent.fetchedAt)
		switch {
		case age < c.staleTime:
			value := ent.value
			c.mu.Unlock()
			c.metrics.lookup(outcomeFresh)
			return value, nil

		case age < c.retention:
			value := ent.value
			_, busy := c.refreshing[k]
			if !busy {
				c.refreshing[k] = struct{}{}
			}
			c.mu.Unlock()
			c.metrics.lookup(outcomeStale)
			if !busy {
				c.wg.Add(1)
				go c.refresh(k, fn)
			}
			return value, nil

		default:
			c.cache.remove(k)
		}
	}
	c.mu.Unlock()

	c.metrics.lookup(outcomeMiss)
	v, err := c.wait(ctx, k, fn)
	// A flight abandoned by all of its earlier callers can be joined just
	// before it is cancelled; try once more while this caller is still live.
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		v, err = c.wait(ctx, k, fn)
	}
	return v, err
}

// flight is the context shared by every caller waiting on one key
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// wait joins the in-flight fetch for k, starting one if needed. The fetch runs
// on a context detached from any single caller and is cancelled only once
// every waiter has gone.
func (c *Client) wait(ctx context.Context, k string, fn FetchFunc) (any, error) {
	c.mu.Lock()
	f, ok := c.flights[k]
	if !ok {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[k] = f
	}
	f.waiters++
	c.mu.Unlock()
	defer c.leave(k, f)

	ch := c.group.DoChan(k, func() (any, error) {
		return c.load(f.ctx, k, fn)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) leave(k string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[k] == f {
		delete(c.flights, k)
	}
}

// load runs fn under the retry policy and stores a successful result
func (c *Client) load(ctx context.Context, k string, fn FetchFunc) (any, error) {
	var value any

	opts := []retry.Option{
		retry.Attempts(c.attempts),
		retry.Context(ctx),
		retry.RetryIf(Retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug().
				Err(err).
				Str("key", k).
				Uint("attempt", n+1).
				Msg("Retrying query")
		}),
	}
	if c.retryDelay > 0 {
		opts = append(opts, retry.Delay(c.retryDelay))
	}

	err := retry.Do(func() error {
		c.metrics.attempts.Inc()
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	}, opts...)
	c.metrics.fetched(err)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.put(&entry{key: k, value: value, fetchedAt: c.now()})
	c.mu.Unlock()

	return value, nil
}

// refresh reloads a stale entry in the background
func (c *Client) refresh(k string, fn FetchFunc) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		delete(c.refreshing, k)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	_, err, _ := c.group.Do(k, func() (any, error) {
		return c.load(ctx, k, fn)
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", k).Msg("Background refresh failed, keeping stale result")
	}
}

// Wait blocks until in-progress background refreshes finish
func (c *Client) Wait() {
	c.wg.Wait()
}

// Retryable reports whether a failed fetch should be tried again. Not-found
// responses, a missing API key and context cancellation are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, catalog.ErrNotConfigured) {
		return false
	}
	return !catalog.IsNotFound(err)
}

func (c *Client) replaceRaw(k string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ent, ok := c.cache.items[k]; ok {
		if e := ent.Value.(*entry); isRaw(e.value) {
			e.value = value
		}
	}
}

// Invalidate drops a single cached key
func (c *Client) Invalidate(key Key) {
	c.mu.Lock()
	c.cache.remove(key.String())
	c.mu.Unlock()
}

// InvalidateOperation drops every cached key for an operation
func (c *Client) InvalidateOperation(operation string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.removeIf(func(e *entry) bool {
		return e.key == operation || strings.HasPrefix(e.key, operation+"?")
	})
}

// Purge evicts every entry past the retention window and returns how many went
func (c *Client) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.removeIf(func(e *entry) bool {
		return now.Sub(e.fetchedAt) >= c.retention
	})
}

// Clear drops every cached entry
func (c *Client) Clear() {
	c.mu.Lock()
	c.cache.clear()
	c.mu.Unlock()
}

// Len returns the number of cached entries
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.len()
}

// Retention returns the retention window
func (c *Client) Retention() time.Duration {
	return c.retention
}
