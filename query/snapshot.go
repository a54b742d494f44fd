package query

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotEntry is the persisted form of one cached result
type SnapshotEntry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// ExpiresAt returns when the entry leaves the retention window
func (e SnapshotEntry) ExpiresAt(retention time.Duration) time.Time {
	return e.FetchedAt.Add(retention)
}

// Snapshot returns every retained entry encoded as JSON, most recently used first
func (c *Client) Snapshot() ([]SnapshotEntry, error) {
	now := c.now()

	c.mu.Lock()
	entries := c.cache.entries()
	c.mu.Unlock()

	out := make([]SnapshotEntry, 0, len(entries))
	for _, ent := range entries {
		if now.Sub(ent.fetchedAt) >= c.retention {
			continue
		}

		var raw json.RawMessage
		if r, ok := ent.value.(json.RawMessage); ok {
			raw = r
		} else {
			data, err := json.Marshal(ent.value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode cached %s: %w", ent.key, err)
			}
			raw = data
		}

		out = append(out, SnapshotEntry{Key: ent.key, Value: raw, FetchedAt: ent.fetchedAt})
	}

	return out, nil
}

// Restore loads persisted entries that are still within retention. Restored
// values stay raw JSON until the first typed Fetch decodes them. It returns
// the number of entries restored.
func (c *Client) Restore(entries []SnapshotEntry) int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	restored := 0
	// Insert oldest-used first so the LRU order survives the round trip
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Key == "" || now.Sub(e.FetchedAt) >= c.retention {
			continue
		}
		if _, exists := c.cache.items[e.Key]; exists {
			continue
		}
		c.cache.put(&entry{key: e.Key, value: e.Value, fetchedAt: e.FetchedAt})
		restored++
	}

	return restored
}

func isRaw(v any) bool {
	_, ok := v.(json.RawMessage)
	return ok
}
