package wishlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestLocalBackend(t *testing.T) *LocalBackend {
	t.Helper()
	b, err := NewLocalBackend(filepath.Join(t.TempDir(), "test.db"), "user-1")
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBackend(t)

	added := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	item := Item{
		GameID:           "612",
		Title:            "Hollow Knight",
		SteamAppID:       "367520",
		ThumbURL:         "https://img.test/hk.jpg",
		TargetPrice:      price(7.50),
		CurrentBestPrice: 9.99,
		AddedAt:          added,
		LastChecked:      added.Add(2 * time.Hour),
	}

	if err := b.Put(ctx, item); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	got := items[0]
	if got.GameID != item.GameID {
		t.Errorf("gameID = %q, want %q", got.GameID, item.GameID)
	}
	if got.TargetPrice == nil || *got.TargetPrice != 7.50 {
		t.Errorf("target = %v, want 7.50", got.TargetPrice)
	}
	if !got.AddedAt.Equal(added) {
		t.Errorf("addedAt = %v, want %v", got.AddedAt, added)
	}
	if !got.LastChecked.Equal(added.Add(2 * time.Hour)) {
		t.Errorf("lastChecked = %v", got.LastChecked)
	}
	if got.SteamAppID != "367520" || got.ThumbURL != item.ThumbURL {
		t.Errorf("round-trip lost fields: %+v", got)
	}
}

func TestLocalNilTargetRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBackend(t)

	now := time.Now().Truncate(time.Second)
	if err := b.Put(ctx, Item{GameID: "g1", Title: "No Target", AddedAt: now, LastChecked: now}); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if items[0].TargetPrice != nil {
		t.Errorf("target = %v, want nil", *items[0].TargetPrice)
	}
}

func TestLocalLoadOrderFollowsAddedAt(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBackend(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Inserted out of order on purpose
	for _, it := range []Item{
		{GameID: "third", AddedAt: base.Add(2 * time.Minute), LastChecked: base},
		{GameID: "first", AddedAt: base, LastChecked: base},
		{GameID: "second", AddedAt: base.Add(time.Minute), LastChecked: base},
	} {
		it.Title = it.GameID
		if err := b.Put(ctx, it); err != nil {
			t.Fatalf("put %s: %v", it.GameID, err)
		}
	}

	items, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if items[i].GameID != w {
			t.Errorf("items[%d] = %q, want %q", i, items[i].GameID, w)
		}
	}
}

func TestLocalPutReplacesAndDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBackend(t)

	now := time.Now().Truncate(time.Second)
	if err := b.Put(ctx, Item{GameID: "g1", Title: "v1", AddedAt: now, LastChecked: now}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := b.Put(ctx, Item{GameID: "g1", Title: "v2", AddedAt: now, LastChecked: now}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	items, _ := b.Load(ctx)
	if len(items) != 1 || items[0].Title != "v2" {
		t.Fatalf("items = %+v, want single v2", items)
	}

	if err := b.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.Delete(ctx, "g1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	items, _ = b.Load(ctx)
	if len(items) != 0 {
		t.Errorf("items after delete = %+v", items)
	}
}

func TestLocalPreferences(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBackend(t)

	if _, err := b.LoadPreferences(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound before first save", err)
	}

	prefs := &Preferences{Currency: "USD", Language: "es", MinDiscount: 50, FavoriteStoreIDs: []string{"1"}}
	if err := b.SavePreferences(ctx, prefs); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := b.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Currency != "USD" || got.MinDiscount != 50 || len(got.FavoriteStoreIDs) != 1 {
		t.Errorf("prefs = %+v", got)
	}
}

func TestLocalSubscribeUnsupported(t *testing.T) {
	b := newTestLocalBackend(t)

	_, err := b.Subscribe(context.Background(), func([]Item) {})
	if !errors.Is(err, ErrPushUnsupported) {
		t.Errorf("err = %v, want ErrPushUnsupported", err)
	}
}

func TestLocalBackendsAreScopedByUser(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	alice, err := NewLocalBackend(dbPath, "alice")
	if err != nil {
		t.Fatalf("open alice: %v", err)
	}
	defer alice.Close()

	now := time.Now().Truncate(time.Second)
	if err := alice.Put(ctx, Item{GameID: "g1", Title: "A", AddedAt: now, LastChecked: now}); err != nil {
		t.Fatalf("put: %v", err)
	}

	bob, err := NewLocalBackend(dbPath, "bob")
	if err != nil {
		t.Fatalf("open bob: %v", err)
	}
	defer bob.Close()

	items, err := bob.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("bob sees %d of alice's items", len(items))
	}
}
