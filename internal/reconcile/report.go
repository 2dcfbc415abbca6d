package reconcile

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DealReport aggregates a pass into the discounted games worth reporting.
// Built fresh for every send, never persisted.
type DealReport struct {
	ID           string
	Games        []PriceCheckResult
	TotalSavings float64
	GeneratedAt  time.Time
}

// PriceAlert marks a tracked game whose best price reached its target
type PriceAlert struct {
	GameID      string
	Title       string
	Price       float64
	TargetPrice float64
	Savings     float64
	StoreName   string
	DealURL     string
}

// BuildReport filters results to games with an active discount, sorted by
// discount percentage descending (ties keep input order), and sums the
// potential savings over exactly that set.
func BuildReport(results []PriceCheckResult) *DealReport {
	var games []PriceCheckResult
	for _, r := range results {
		if r.DiscountPct > 0 {
			games = append(games, r)
		}
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].DiscountPct > games[j].DiscountPct
	})

	var total float64
	for _, g := range games {
		total += g.OriginalPrice - g.BestPrice
	}

	return &DealReport{
		ID:           uuid.New().String(),
		Games:        games,
		TotalSavings: total,
		GeneratedAt:  time.Now(),
	}
}

// AlertsAtTarget returns the results that hit their target price, in input
// order. Results without a target never alert.
func AlertsAtTarget(results []PriceCheckResult) []PriceAlert {
	var alerts []PriceAlert
	for _, r := range results {
		if !r.IsAtTarget || r.TargetPrice == nil {
			continue
		}
		alerts = append(alerts, PriceAlert{
			GameID:      r.GameID,
			Title:       r.Title,
			Price:       r.BestPrice,
			TargetPrice: *r.TargetPrice,
			Savings:     r.Savings,
			StoreName:   r.StoreName,
			DealURL:     r.DealURL,
		})
	}
	return alerts
}
