package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/viviquero/dealtracker/internal/cheapshark"
	"github.com/viviquero/dealtracker/internal/wishlist"
)

// PriceCheckResult is the per-item outcome of one reconciliation pass.
// Results are ephemeral: they live for the duration of a pass and the
// report built from it.
type PriceCheckResult struct {
	GameID        string
	Title         string
	BestPrice     float64
	StoreID       string
	StoreName     string
	TargetPrice   *float64
	IsAtTarget    bool
	Savings       float64 // target - best, never negative, zero without a target
	DealURL       string
	OriginalPrice float64
	DiscountPct   float64
}

// dealSource is the slice of the provider client the engine needs
type dealSource interface {
	GameByID(ctx context.Context, gameID string) (*cheapshark.GameInfo, error)
}

// storeNames resolves store IDs to display names
type storeNames interface {
	StoreName(ctx context.Context, storeID string) string
}

// ProgressFunc is invoked before each item's fetch begins, 1-indexed
type ProgressFunc func(current, total int)

// Engine produces a cross-store price snapshot for a batch of tracked
// games. Items are processed strictly sequentially with a fixed pacing
// delay between requests: the provider is rate-limited and a wishlist is
// small, so serialization is the contract here, not an accident.
type Engine struct {
	source  dealSource
	catalog storeNames
	delay   time.Duration
	log     *slog.Logger
}

// NewEngine creates an engine. catalog may be nil, in which case results
// carry the raw store ID as the store name.
func NewEngine(source dealSource, catalog storeNames, delay time.Duration, log *slog.Logger) *Engine {
	return &Engine{
		source:  source,
		catalog: catalog,
		delay:   delay,
		log:     log,
	}
}

// Reconcile fetches current deals for every item and classifies each one
// against its target price. A fetch failure or an empty deal list skips
// that item and never aborts the batch; no retry happens within a pass.
// The pass stops early only when ctx is cancelled.
func (e *Engine) Reconcile(ctx context.Context, items []wishlist.Item, onProgress ProgressFunc) []PriceCheckResult {
	passesTotal.Inc()

	results := make([]PriceCheckResult, 0, len(items))
	total := len(items)

	for i, item := range items {
		if i > 0 {
			select {
			case <-ctx.Done():
				e.log.Warn("reconciliation cancelled", "done", i, "total", total)
				return results
			case <-time.After(e.delay):
			}
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}

		info, err := e.source.GameByID(ctx, item.GameID)
		if err != nil {
			itemsSkippedTotal.Inc()
			e.log.Warn("skipping item: fetch failed", "game_id", item.GameID, "error", err)
			continue
		}
		if len(info.Deals) == 0 {
			itemsSkippedTotal.Inc()
			e.log.Warn("skipping item: no deals", "game_id", item.GameID)
			continue
		}

		results = append(results, e.check(ctx, item, info))
		itemsCheckedTotal.Inc()
	}

	return results
}

// check selects the best deal and derives the per-item result. Ties on
// price keep the first deal in provider order.
func (e *Engine) check(ctx context.Context, item wishlist.Item, info *cheapshark.GameInfo) PriceCheckResult {
	best := info.Deals[0]
	for _, d := range info.Deals[1:] {
		if d.Price < best.Price {
			best = d
		}
	}

	title := item.Title
	if title == "" {
		title = info.Info.Title
	}

	res := PriceCheckResult{
		GameID:        item.GameID,
		Title:         title,
		BestPrice:     best.Price.Float(),
		StoreID:       best.StoreID,
		StoreName:     best.StoreID,
		TargetPrice:   item.TargetPrice,
		DealURL:       cheapshark.DealURL(best.DealID),
		OriginalPrice: best.RetailPrice.Float(),
		DiscountPct:   best.Savings.Float(),
	}

	if e.catalog != nil {
		res.StoreName = e.catalog.StoreName(ctx, best.StoreID)
	}

	if item.TargetPrice != nil {
		res.IsAtTarget = res.BestPrice <= *item.TargetPrice
		if diff := *item.TargetPrice - res.BestPrice; diff > 0 {
			res.Savings = diff
		}
	}

	return res
}
