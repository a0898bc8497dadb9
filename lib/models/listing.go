package models

// Listing is one observed market price for an item at fetch time.
// Listings are fetched fresh on every evaluation and never persisted.
type Listing struct {
	Price int `json:"price"`
}

type Listings []Listing

// Summary aggregates the listings seen in one fetch. Avg is floor-divided.
type Summary struct {
	Min int `json:"min"`
	Avg int `json:"avg"`
	Max int `json:"max"`
}

// AlertEvent is emitted when an item's lowest listed price drops below a
// subscriber's threshold. Consumed immediately by a sender, never stored.
type AlertEvent struct {
	UserID    int64
	Item      string
	MinPrice  int
	Threshold int
}
