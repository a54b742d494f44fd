package state

import (
	"context"
	"slices"
	"time"

	"github.com/s0up4200/marquee/query"
	"github.com/s0up4200/marquee/store"
)

// CacheStore persists the query cache between runs
type CacheStore struct {
	persisted
	queries *query.Client
}

// NewCacheStore creates a cache store for queries
func NewCacheStore(s store.Store, queries *query.Client, opts ...Option) *CacheStore {
	return &CacheStore{
		persisted: newPersisted(s, CacheKey, opts),
		queries:   queries,
	}
}

// Save persists every retained query result
func (c *CacheStore) Save(ctx context.Context) error {
	entries, err := c.queries.Snapshot()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return c.remove(ctx)
	}

	if err := write(ctx, &c.persisted, entries, c.latestExpiry(entries)); err != nil {
		return err
	}
	c.logger.Debug().Int("entries", len(entries)).Msg("Saved query cache")
	return nil
}

// Load restores persisted results into the query cache and returns how many were restored
func (c *CacheStore) Load(ctx context.Context) (int, error) {
	env, ok, err := read[[]query.SnapshotEntry](ctx, &c.persisted)
	if err != nil || !ok {
		return 0, err
	}

	restored := c.queries.Restore(env.State)
	c.logger.Debug().Int("entries", restored).Msg("Restored query cache")
	return restored, nil
}

// Sweep drops persisted results past the retention window and returns how many went
func (c *CacheStore) Sweep(ctx context.Context) (int, error) {
	env, ok, err := read[[]query.SnapshotEntry](ctx, &c.persisted)
	if err != nil || !ok {
		return 0, err
	}

	now := c.now()
	retention := c.queries.Retention()
	kept := slices.DeleteFunc(slices.Clone(env.State), func(e query.SnapshotEntry) bool {
		return !now.Before(e.ExpiresAt(retention))
	})
	removed := len(env.State) - len(kept)

	switch {
	case len(kept) == 0:
		err = c.remove(ctx)
	case removed > 0:
		err = write(ctx, &c.persisted, kept, c.latestExpiry(kept))
	}
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (c *CacheStore) latestExpiry(entries []query.SnapshotEntry) *time.Time {
	var latest time.Time
	for _, e := range entries {
		if exp := e.ExpiresAt(c.queries.Retention()); exp.After(latest) {
			latest = exp
		}
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}
