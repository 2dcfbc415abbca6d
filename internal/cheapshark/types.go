package cheapshark

import (
	"bytes"
	"fmt"
	"strconv"
)

// Amount is a price value. The provider serializes most prices as quoted
// strings ("14.99") but a few fields arrive as bare numbers.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", data, err)
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float() float64 {
	return float64(a)
}

// Store is an entry in the provider's store catalog
type Store struct {
	StoreID   string `json:"storeID"`
	StoreName string `json:"storeName"`
	IsActive  int    `json:"isActive"`
	Images    struct {
		Banner string `json:"banner"`
		Logo   string `json:"logo"`
		Icon   string `json:"icon"`
	} `json:"images"`
}

// Deal is a store-specific sale listing from the deals endpoint
type Deal struct {
	Title              string `json:"title"`
	DealID             string `json:"dealID"`
	StoreID            string `json:"storeID"`
	GameID             string `json:"gameID"`
	SalePrice          Amount `json:"salePrice"`
	NormalPrice        Amount `json:"normalPrice"`
	Savings            Amount `json:"savings"` // percentage
	MetacriticScore    string `json:"metacriticScore"`
	SteamRatingText    string `json:"steamRatingText"`
	SteamRatingPercent string `json:"steamRatingPercent"`
	SteamAppID         string `json:"steamAppID"`
	DealRating         string `json:"dealRating"`
	Thumb              string `json:"thumb"`
}

// GameSummary is a game search result
type GameSummary struct {
	GameID         string `json:"gameID"`
	SteamAppID     string `json:"steamAppID"`
	Cheapest       Amount `json:"cheapest"`
	CheapestDealID string `json:"cheapestDealID"`
	External       string `json:"external"` // game title
	Thumb          string `json:"thumb"`
}

// GameDeal is a current offer inside a game detail response
type GameDeal struct {
	StoreID     string `json:"storeID"`
	DealID      string `json:"dealID"`
	Price       Amount `json:"price"`
	RetailPrice Amount `json:"retailPrice"`
	Savings     Amount `json:"savings"` // percentage
}

// GameInfo is the detail response for a single game
type GameInfo struct {
	Info struct {
		Title      string `json:"title"`
		SteamAppID string `json:"steamAppID"`
		Thumb      string `json:"thumb"`
	} `json:"info"`
	CheapestPriceEver struct {
		Price Amount `json:"price"`
		Date  int64  `json:"date"`
	} `json:"cheapestPriceEver"`
	Deals []GameDeal `json:"deals"`
}

// DealsQuery holds the filter parameters for the deals endpoint.
// Zero values are omitted from the request.
type DealsQuery struct {
	StoreID     string
	UpperPrice  float64
	LowerPrice  float64
	Metacritic  int
	SteamRating int
	Title       string
	SortBy      string
	Desc        bool
	PageNumber  int
	PageSize    int
	OnSale      bool
}
