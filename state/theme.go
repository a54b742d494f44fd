package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/s0up4200/marquee/store"
)

// ErrInvalidTheme is returned for unknown theme tokens
var ErrInvalidTheme = errors.New("invalid theme")

// Theme is a colour theme token
type Theme string

const (
	ThemeLight      Theme = "light"
	ThemeDark       Theme = "dark"
	ThemeCinema     Theme = "cinema"
	ThemeCinemaDark Theme = "cinema-dark"
	ThemeSystem     Theme = "system"
)

// Themes lists every valid theme
var Themes = []Theme{ThemeLight, ThemeDark, ThemeCinema, ThemeCinemaDark, ThemeSystem}

// ParseTheme validates a theme token
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Themes {
		if t == valid {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// SchemeDetector reports whether the platform prefers a dark colour scheme
type SchemeDetector func() bool

// StaticScheme returns a detector with a fixed answer
func StaticScheme(dark bool) SchemeDetector {
	return func() bool { return dark }
}

// ThemeListener is called with the theme and its resolved darkness after every change
type ThemeListener func(theme Theme, dark bool)

// ThemeStore holds the selected theme
type ThemeStore struct {
	persisted
	detector SchemeDetector

	mu         sync.RWMutex
	theme      Theme
	systemDark bool
	listeners  map[int]ThemeListener
	nextID     int
}

// NewThemeStore creates a theme store set to "system" until Load runs.
// A nil detector resolves "system" from SystemSchemeChanged events only.
func NewThemeStore(s store.Store, detector SchemeDetector, opts ...Option) *ThemeStore {
	return &ThemeStore{
		persisted: newPersisted(s, ThemeKey, opts),
		detector:  detector,
		theme:     ThemeSystem,
		listeners: make(map[int]ThemeListener),
	}
}

// Load replays the persisted theme, falling back to "system"
func (t *ThemeStore) Load(ctx context.Context) error {
	env, ok, err := read[string](ctx, &t.persisted)
	if err != nil {
		return err
	}

	theme := ThemeSystem
	if ok {
		if parsed, err := ParseTheme(env.State); err == nil {
			theme = parsed
		} else {
			t.logger.Warn().Str("theme", env.State).Msg("Ignoring unknown persisted theme")
		}
	}

	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()

	t.logger.Debug().Str("theme", string(theme)).Msg("Theme loaded")
	return nil
}

// Theme returns the selected theme token
func (t *ThemeStore) Theme() Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

// IsDark resolves the selected theme, asking the platform when it is "system"
func (t *ThemeStore) IsDark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolve(t.theme)
}

func (t *ThemeStore) resolve(theme Theme) bool {
	switch theme {
	case ThemeDark, ThemeCinemaDark:
		return true
	case ThemeSystem:
		if t.detector != nil {
			return t.detector()
		}
		return t.systemDark
	default:
		return false
	}
}

// Set selects and persists a theme
func (t *ThemeStore) Set(ctx context.Context, theme Theme) error {
	theme, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}
	if err := write(ctx, &t.persisted, string(theme), nil); err != nil {
		return err
	}

	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()

	t.notify()
	return nil
}

// Toggle flips between the light and dark variant of the current theme.
// From "system" it switches to the opposite of what the platform prefers.
func (t *ThemeStore) Toggle(ctx context.Context) (Theme, error) {
	t.mu.RLock()
	current, dark := t.theme, t.resolve(t.theme)
	t.mu.RUnlock()

	var next Theme
	switch current {
	case ThemeCinema:
		next = ThemeCinemaDark
	case ThemeCinemaDark:
		next = ThemeCinema
	default:
		next = ThemeDark
		if dark {
			next = ThemeLight
		}
	}

	if err := t.Set(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// SystemSchemeChanged records a platform colour-scheme change and notifies
// listeners when the selected theme follows the system
func (t *ThemeStore) SystemSchemeChanged(dark bool) {
	t.mu.Lock()
	t.systemDark = dark
	following := t.theme == ThemeSystem
	t.mu.Unlock()

	if following {
		t.notify()
	}
}

// Subscribe registers fn for theme changes and returns a function removing it
func (t *ThemeStore) Subscribe(fn ThemeListener) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

func (t *ThemeStore) notify() {
	t.mu.RLock()
	theme, dark := t.theme, t.resolve(t.theme)
	listeners := make([]ThemeListener, 0, len(t.listeners))
	for _, fn := range t.listeners {
		listeners = append(listeners, fn)
	}
	t.mu.RUnlock()

	for _, fn := range listeners {
		fn(theme, dark)
	}
}
