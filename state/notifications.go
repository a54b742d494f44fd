package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/s0up4200/marquee/store"
)

// MaxVisible is the number of notifications shown at once
const MaxVisible = 3

// maxRetained bounds the persisted backlog
const maxRetained = 50

// Kind is the notification severity
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// ParseKind validates a notification kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindInfo, KindSuccess, KindWarning, KindError:
		return k, nil
	default:
		return "", fmt.Errorf("invalid notification kind %q", s)
	}
}

// Notification is a transient message for the user
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationStore keeps notifications in insertion order. Notifications
// stay until dismissed; only the most recent MaxVisible are shown.
type NotificationStore struct {
	persisted

	mu    sync.RWMutex
	items []Notification
}

// NewNotificationStore creates an empty notification store
func NewNotificationStore(s store.Store, opts ...Option) *NotificationStore {
	return &NotificationStore{persisted: newPersisted(s, NotificationsKey, opts)}
}

// Load restores persisted notifications
func (n *NotificationStore) Load(ctx context.Context) error {
	env, _, err := read[[]Notification](ctx, &n.persisted)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.items = env.State
	n.mu.Unlock()
	return nil
}

// Push appends a notification and returns it
func (n *NotificationStore) Push(ctx context.Context, kind Kind, title, message string) (Notification, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Notification{}, err
	}

	item := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: n.now(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	next := append(slices.Clone(n.items), item)
	if len(next) > maxRetained {
		next = next[len(next)-maxRetained:]
	}
	if err := write(ctx, &n.persisted, next, nil); err != nil {
		return Notification{}, err
	}
	n.items = next
	return item, nil
}

// Visible returns the MaxVisible most recent notifications, newest first
func (n *NotificationStore) Visible() []Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	start := max(len(n.items)-MaxVisible, 0)
	visible := slices.Clone(n.items[start:])
	slices.Reverse(visible)
	return visible
}

// All returns every retained notification in insertion order
func (n *NotificationStore) All() []Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.items)
}

// Dismiss removes a notification by id and reports whether it existed
func (n *NotificationStore) Dismiss(ctx context.Context, id string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	idx := slices.IndexFunc(n.items, func(item Notification) bool { return item.ID == id })
	if idx < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(n.items), idx, idx+1)
	if err := write(ctx, &n.persisted, next, nil); err != nil {
		return false, err
	}
	n.items = next
	return true, nil
}

// Clear removes every notification
func (n *NotificationStore) Clear(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.remove(ctx); err != nil {
		return err
	}
	n.items = nil
	return nil
}
