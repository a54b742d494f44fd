package state

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/s0up4200/marquee/store"
)

const (
	// SearchExpiry is how long a recent search is remembered
	SearchExpiry = 7 * 24 * time.Hour
	// MaxRecentSearches caps the remembered searches
	MaxRecentSearches = 20
)

// RecentSearch is one remembered query
type RecentSearch struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searchedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// SearchStore remembers recent search queries, most recent first
type SearchStore struct {
	persisted

	mu      sync.RWMutex
	entries []RecentSearch
}

// NewSearchStore creates an empty search history
func NewSearchStore(s store.Store, opts ...Option) *SearchStore {
	return &SearchStore{persisted: newPersisted(s, SearchKey, opts)}
}

// Load restores persisted searches that have not expired
func (s *SearchStore) Load(ctx context.Context) error {
	env, _, err := read[[]RecentSearch](ctx, &s.persisted)
	if err != nil {
		return err
	}

	now := s.now()
	s.mu.Lock()
	s.entries = slices.DeleteFunc(env.State, func(e RecentSearch) bool { return !now.Before(e.ExpiresAt) })
	s.mu.Unlock()
	return nil
}

// Record remembers a query. Repeating a query moves it to the front.
func (s *SearchStore) Record(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	now := s.now()
	entry := RecentSearch{Query: query, SearchedAt: now, ExpiresAt: now.Add(SearchExpiry)}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]RecentSearch, 0, len(s.entries)+1)
	next = append(next, entry)
	for _, e := range s.entries {
		if strings.EqualFold(e.Query, query) || !now.Before(e.ExpiresAt) {
			continue
		}
		next = append(next, e)
	}
	if len(next) > MaxRecentSearches {
		next = next[:MaxRecentSearches]
	}

	if err := write(ctx, &s.persisted, next, latestExpiry(next)); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Recent returns the remembered queries, most recent first
func (s *SearchStore) Recent() []string {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	queries := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if now.Before(e.ExpiresAt) {
			queries = append(queries, e.Query)
		}
	}
	return queries
}

// Clear forgets every search
func (s *SearchStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.remove(ctx); err != nil {
		return err
	}
	s.entries = nil
	return nil
}

// Sweep drops expired searches from the persisted history and returns how many went
func (s *SearchStore) Sweep(ctx context.Context) (int, error) {
	env, ok, err := read[[]RecentSearch](ctx, &s.persisted)
	if err != nil || !ok {
		return 0, err
	}

	now := s.now()
	kept := slices.DeleteFunc(slices.Clone(env.State), func(e RecentSearch) bool { return !now.Before(e.ExpiresAt) })
	removed := len(env.State) - len(kept)

	switch {
	case len(kept) == 0:
		err = s.remove(ctx)
	case removed > 0:
		err = write(ctx, &s.persisted, kept, latestExpiry(kept))
	}
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.entries = kept
	s.mu.Unlock()

	return removed, nil
}

func latestExpiry(entries []RecentSearch) *time.Time {
	var latest time.Time
	for _, e := range entries {
		if e.ExpiresAt.After(latest) {
			latest = e.ExpiresAt
		}
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}
