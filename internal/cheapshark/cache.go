package cheapshark

import (
	"context"
	"sync"
)

// StoreCatalog caches the provider's store list for the lifetime of a
// session. Store catalogs are near-static, so the cache is filled on first
// use and never invalidated.
type StoreCatalog struct {
	client *Client

	mu     sync.Mutex
	byID   map[string]Store
	loaded bool
}

// NewStoreCatalog creates an empty catalog backed by the given client
func NewStoreCatalog(client *Client) *StoreCatalog {
	return &StoreCatalog{
		client: client,
		byID:   make(map[string]Store),
	}
}

func (sc *StoreCatalog) ensure(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.loaded {
		return nil
	}

	stores, err := sc.client.Stores(ctx)
	if err != nil {
		return err
	}

	for _, s := range ActiveStores(stores) {
		sc.byID[s.StoreID] = s
	}
	sc.loaded = true
	return nil
}

// StoreName resolves a storeID to its display name. Unknown or inactive
// stores resolve to the raw ID so callers always get something printable.
func (sc *StoreCatalog) StoreName(ctx context.Context, storeID string) string {
	if err := sc.ensure(ctx); err != nil {
		return storeID
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if s, ok := sc.byID[storeID]; ok {
		return s.StoreName
	}
	return storeID
}

// Active returns the cached active stores
func (sc *StoreCatalog) Active(ctx context.Context) ([]Store, error) {
	if err := sc.ensure(ctx); err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	stores := make([]Store, 0, len(sc.byID))
	for _, s := range sc.byID {
		stores = append(stores, s)
	}
	return stores, nil
}
