package cheapshark

import (
	"context"
	"net/http"
	"testing"
)

func TestStoreCatalogFetchesOnce(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[
			{"storeID":"1","storeName":"Steam","isActive":1},
			{"storeID":"2","storeName":"Closed","isActive":0}
		]`))
	})

	catalog := NewStoreCatalog(client)
	ctx := context.Background()

	if got := catalog.StoreName(ctx, "1"); got != "Steam" {
		t.Errorf("StoreName(1) = %q, want Steam", got)
	}
	if got := catalog.StoreName(ctx, "1"); got != "Steam" {
		t.Errorf("StoreName(1) = %q, want Steam", got)
	}
	// Inactive stores are not part of the catalog
	if got := catalog.StoreName(ctx, "2"); got != "2" {
		t.Errorf("StoreName(2) = %q, want raw id", got)
	}
	if got := catalog.StoreName(ctx, "99"); got != "99" {
		t.Errorf("StoreName(99) = %q, want raw id", got)
	}

	if calls != 1 {
		t.Errorf("provider calls = %d, want 1", calls)
	}

	active, err := catalog.Active(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("len(active) = %d, want 1", len(active))
	}
}

func TestStoreCatalogFetchFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	catalog := NewStoreCatalog(client)

	// Resolution degrades to the raw ID when the catalog cannot load
	if got := catalog.StoreName(context.Background(), "1"); got != "1" {
		t.Errorf("StoreName(1) = %q, want raw id on failure", got)
	}
}
