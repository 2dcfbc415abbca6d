package wishlist

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNotAuthenticated = errors.New("no authenticated session")
	ErrPushUnsupported  = errors.New("backend does not support push updates")
)

// Backend is the persistence capability behind a Store. The local and cloud
// implementations are selected at construction time; operations never
// branch on the backend's concrete type.
type Backend interface {
	// Load returns the full persisted wishlist.
	Load(ctx context.Context) ([]Item, error)

	// Put inserts or replaces a single item.
	Put(ctx context.Context, item Item) error

	// Delete removes an item. Deleting an absent item is not an error.
	Delete(ctx context.Context, gameID string) error

	// LoadPreferences returns the persisted preference set, or ErrNotFound
	// if the user has never saved any.
	LoadPreferences(ctx context.Context) (*Preferences, error)

	// SavePreferences persists the full preference set (write-through).
	SavePreferences(ctx context.Context, prefs *Preferences) error

	// Subscribe registers a callback invoked with a full replacement
	// snapshot whenever the persisted wishlist changes. It returns an
	// unsubscribe func, or ErrPushUnsupported when the backend has no
	// change feed.
	Subscribe(ctx context.Context, fn func([]Item)) (func(), error)

	Close() error
}
