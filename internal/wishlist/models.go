package wishlist

import "time"

// Item is a tracked game. At most one Item exists per (user, GameID).
type Item struct {
	GameID           string    `json:"gameID"`
	Title            string    `json:"gameTitle"`
	SteamAppID       string    `json:"steamAppID,omitempty"`
	ThumbURL         string    `json:"thumbnailURL,omitempty"`
	TargetPrice      *float64  `json:"targetPrice,omitempty"`
	CurrentBestPrice float64   `json:"currentBestPrice"`
	AddedAt          time.Time `json:"addedAt"`
	LastChecked      time.Time `json:"lastChecked"`
}

// Preferences holds per-user display and filter defaults. Every field has a
// usable zero/default value; there are no cross-field constraints.
type Preferences struct {
	FavoriteStoreIDs []string `json:"favoriteStoreIDs,omitempty"`
	MinPrice         float64  `json:"minPrice,omitempty"`
	MaxPrice         float64  `json:"maxPrice,omitempty"`
	Currency         string   `json:"currency"` // EUR or USD
	Language         string   `json:"language"`
	MinDiscount      int      `json:"minDiscount,omitempty"`
	SortKey          string   `json:"sortKey,omitempty"`
	OnSaleOnly       bool     `json:"onSaleOnly,omitempty"`
}

// DefaultPreferences returns the preference set used before a user has
// saved anything.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Currency: "EUR",
		Language: "en",
		SortKey:  "Deal Rating",
	}
}
