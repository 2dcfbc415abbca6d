package wishlist

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// SessionState describes which persistence mode the store is in
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateLoading
	StateLocalBacked
	StateCloudSubscribed
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateLocalBacked:
		return "local"
	case StateCloudSubscribed:
		return "cloud"
	default:
		return "unknown"
	}
}

// Store is the single source of truth for the current user's wishlist.
// With no session it holds an empty list and persists nothing; once logged
// in it mirrors every mutation to its backend. Mutations apply to the
// in-memory list first and are never rolled back on a backend write
// failure; the error is logged and returned so the caller can retry.
type Store struct {
	log *slog.Logger
	now func() time.Time

	mu          sync.RWMutex
	state       SessionState
	backend     Backend
	items       map[string]Item
	prefs       *Preferences
	unsubscribe func()
}

// NewStore creates a store in the unauthenticated state
func NewStore(log *slog.Logger) *Store {
	return &Store{
		log:   log,
		now:   time.Now,
		state: StateUnauthenticated,
		items: make(map[string]Item),
		prefs: DefaultPreferences(),
	}
}

// Login attaches a backend and blocks until the initial load resolves.
// If the backend supports push updates the store subscribes and from then
// on treats every delivery as a full replacement of its list. Any previous
// session is torn down first, so listeners never leak across re-auth.
func (s *Store) Login(ctx context.Context, backend Backend) error {
	s.Logout()

	s.mu.Lock()
	s.state = StateLoading
	s.backend = backend
	s.mu.Unlock()

	items, err := backend.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateUnauthenticated
		s.backend = nil
		s.mu.Unlock()
		return err
	}

	prefs, err := backend.LoadPreferences(ctx)
	if err != nil {
		if err != ErrNotFound {
			s.log.Warn("load preferences", "error", err)
		}
		prefs = DefaultPreferences()
	}

	unsubscribe, err := backend.Subscribe(ctx, s.replaceAll)
	if err != nil && err != ErrPushUnsupported {
		s.log.Warn("subscribe to wishlist changes", "error", err)
	}

	s.mu.Lock()
	s.items = itemMap(items)
	s.prefs = prefs
	s.unsubscribe = unsubscribe
	if unsubscribe != nil {
		s.state = StateCloudSubscribed
	} else {
		s.state = StateLocalBacked
	}
	s.mu.Unlock()

	s.log.Info("wishlist session started", "state", s.State().String(), "items", len(items))
	return nil
}

// Logout tears down the subscription, detaches the backend and clears the
// in-memory list.
func (s *Store) Logout() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	s.mu.Lock()
	s.state = StateUnauthenticated
	s.backend = nil
	s.items = make(map[string]Item)
	s.prefs = DefaultPreferences()
	s.mu.Unlock()
}

// State returns the current session state
func (s *Store) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// replaceAll swaps the in-memory list wholesale. Push deliveries represent
// the server's view; they are never merged with local state.
func (s *Store) replaceAll(items []Item) {
	s.mu.Lock()
	s.items = itemMap(items)
	s.mu.Unlock()
}

// Add tracks a game, replacing any existing entry for the same gameID.
// Timestamps are stamped only when the game was not already tracked.
func (s *Store) Add(ctx context.Context, item Item) error {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	if prev, ok := s.items[item.GameID]; ok {
		item.AddedAt = prev.AddedAt
		if item.LastChecked.IsZero() {
			item.LastChecked = prev.LastChecked
		}
	} else {
		now := s.now()
		if item.AddedAt.IsZero() {
			item.AddedAt = now
		}
		if item.LastChecked.IsZero() {
			item.LastChecked = now
		}
	}

	s.items[item.GameID] = item
	backend := s.backend
	s.mu.Unlock()

	if err := backend.Put(ctx, item); err != nil {
		s.log.Error("persist wishlist item", "game_id", item.GameID, "error", err)
		return err
	}

	return nil
}

// Remove stops tracking a game. Removing an untracked game is a no-op.
func (s *Store) Remove(ctx context.Context, gameID string) error {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	_, tracked := s.items[gameID]
	delete(s.items, gameID)
	backend := s.backend
	s.mu.Unlock()

	if !tracked {
		return nil
	}

	if err := backend.Delete(ctx, gameID); err != nil {
		s.log.Error("delete wishlist item", "game_id", gameID, "error", err)
		return err
	}

	return nil
}

// UpdateTargetPrice sets or clears (nil) the alert threshold for a tracked
// game without touching its other fields.
func (s *Store) UpdateTargetPrice(ctx context.Context, gameID string, price *float64) error {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	item, ok := s.items[gameID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	item.TargetPrice = price
	s.items[gameID] = item
	backend := s.backend
	s.mu.Unlock()

	if err := backend.Put(ctx, item); err != nil {
		s.log.Error("persist target price", "game_id", gameID, "error", err)
		return err
	}

	return nil
}

// RecordCheck updates the cached best price after a reconciliation pass.
// The cache is advisory: a fresh pass always overwrites it.
func (s *Store) RecordCheck(ctx context.Context, gameID string, bestPrice float64, checkedAt time.Time) error {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	item, ok := s.items[gameID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	item.CurrentBestPrice = bestPrice
	item.LastChecked = checkedAt
	s.items[gameID] = item
	backend := s.backend
	s.mu.Unlock()

	if err := backend.Put(ctx, item); err != nil {
		s.log.Error("persist price check", "game_id", gameID, "error", err)
		return err
	}

	return nil
}

// IsTracked reports whether a game is on the wishlist. Pure lookup, no I/O.
func (s *Store) IsTracked(gameID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[gameID]
	return ok
}

// Items returns a snapshot of the wishlist, oldest first
func (s *Store) Items() []Item {
	s.mu.RLock()
	items := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	s.mu.RUnlock()

	sortItems(items)
	return items
}

// Preferences returns a copy of the current preference set
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.prefs
}

// SetPreferences replaces the preference set and writes it through
func (s *Store) SetPreferences(ctx context.Context, prefs Preferences) error {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	s.prefs = &prefs
	backend := s.backend
	s.mu.Unlock()

	if err := backend.SavePreferences(ctx, &prefs); err != nil {
		s.log.Error("persist preferences", "error", err)
		return err
	}

	return nil
}

func itemMap(items []Item) map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.GameID] = it
	}
	return m
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return items[i].GameID < items[j].GameID
	})
}
