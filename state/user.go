package state

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/marquee/store"
)

var (
	// ErrSignedOut is returned by collection helpers when no user is signed in
	ErrSignedOut = errors.New("no user signed in")
	// ErrInvalidUser is returned by SignIn for a record without an id
	ErrInvalidUser = errors.New("user record has no id")
	// ErrInvalidRating is returned for scores outside [0, 10]
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
)

// Preferences are the user's display and content flags
type Preferences struct {
	Theme              Theme  `json:"theme,omitempty"`
	Language           string `json:"language,omitempty"`
	IncludeAdult       bool   `json:"includeAdult"`
	EmailNotifications bool   `json:"emailNotifications"`
}

// UserMirror is the local projection of the identity provider's user record
// plus the collections accumulated on this device
type UserMirror struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Email       string          `json:"email"`
	AvatarURL   string          `json:"avatarUrl,omitempty"`
	Preferences Preferences     `json:"preferences"`
	Watchlist   []int           `json:"watchlist"`
	Favorites   []int           `json:"favorites"`
	Ratings     map[int]float64 `json:"ratings"`
}

func (u UserMirror) clone() UserMirror {
	u.Watchlist = slices.Clone(u.Watchlist)
	u.Favorites = slices.Clone(u.Favorites)
	u.Ratings = maps.Clone(u.Ratings)
	return u
}

// UserStore mirrors the signed-in user
type UserStore struct {
	persisted

	mu   sync.RWMutex
	user *UserMirror
}

// NewUserStore creates a store with nobody signed in
func NewUserStore(s store.Store, opts ...Option) *UserStore {
	return &UserStore{persisted: newPersisted(s, UserKey, opts)}
}

// Load restores the persisted user, if any
func (u *UserStore) Load(ctx context.Context) error {
	env, ok, err := read[*UserMirror](ctx, &u.persisted)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.user = nil
	if ok && env.State != nil && env.State.ID != "" {
		u.user = env.State
	}
	return nil
}

// SignIn replaces the mirrored user wholesale
func (u *UserStore) SignIn(ctx context.Context, user UserMirror) error {
	if user.ID == "" {
		return ErrInvalidUser
	}
	user = user.clone()

	if err := write(ctx, &u.persisted, &user, nil); err != nil {
		return err
	}

	u.mu.Lock()
	u.user = &user
	u.mu.Unlock()

	u.logger.Debug().Str("user", user.ID).Msg("User signed in")
	return nil
}

// SignOut clears the mirror and its persisted record. The mirror is kept when
// the record cannot be deleted, so memory never disagrees with the next Load.
func (u *UserStore) SignOut(ctx context.Context) error {
	if err := u.remove(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	u.user = nil
	u.mu.Unlock()

	u.logger.Debug().Msg("User signed out")
	return nil
}

// Current returns a copy of the signed-in user
func (u *UserStore) Current() (UserMirror, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.user == nil {
		return UserMirror{}, false
	}
	return u.user.clone(), true
}

// InWatchlist reports whether movieID is on the watchlist
func (u *UserStore) InWatchlist(movieID int) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.user != nil && slices.Contains(u.user.Watchlist, movieID)
}

// IsFavorite reports whether movieID is a favorite
func (u *UserStore) IsFavorite(movieID int) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.user != nil && slices.Contains(u.user.Favorites, movieID)
}

// AddToWatchlist adds movieID to the front of the watchlist
func (u *UserStore) AddToWatchlist(ctx context.Context, movieID int) error {
	return u.update(ctx, func(user *UserMirror) {
		if !slices.Contains(user.Watchlist, movieID) {
			user.Watchlist = append([]int{movieID}, user.Watchlist...)
		}
	})
}

// RemoveFromWatchlist removes movieID from the watchlist
func (u *UserStore) RemoveFromWatchlist(ctx context.Context, movieID int) error {
	return u.update(ctx, func(user *UserMirror) {
		user.Watchlist = slices.DeleteFunc(user.Watchlist, func(id int) bool { return id == movieID })
	})
}

// ToggleFavorite adds or removes movieID and reports whether it is now a favorite
func (u *UserStore) ToggleFavorite(ctx context.Context, movieID int) (bool, error) {
	var favorite bool
	err := u.update(ctx, func(user *UserMirror) {
		if slices.Contains(user.Favorites, movieID) {
			user.Favorites = slices.DeleteFunc(user.Favorites, func(id int) bool { return id == movieID })
			return
		}
		user.Favorites = append([]int{movieID}, user.Favorites...)
		favorite = true
	})
	return favorite, err
}

// Rate records a score for movieID; a score of 0 clears the rating
func (u *UserStore) Rate(ctx context.Context, movieID int, score float64) error {
	if score < 0 || score > 10 {
		return fmt.Errorf("%w: %v", ErrInvalidRating, score)
	}
	return u.update(ctx, func(user *UserMirror) {
		if score == 0 {
			delete(user.Ratings, movieID)
			return
		}
		if user.Ratings == nil {
			user.Ratings = make(map[int]float64)
		}
		user.Ratings[movieID] = score
	})
}

// update applies fn to a copy of the user, persists it and then swaps it in
func (u *UserStore) update(ctx context.Context, fn func(*UserMirror)) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.user == nil {
		return ErrSignedOut
	}

	next := u.user.clone()
	fn(&next)

	if err := write(ctx, &u.persisted, &next, nil); err != nil {
		return err
	}
	u.user = &next
	return nil
}
