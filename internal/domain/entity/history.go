package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry is the last-known state of a product, keyed by ASIN in the
// history store. Price only moves on a new/drop classification; LastSeen
// moves on every observation.
type HistoryEntry struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Link     string          `json:"link"`
	LastSeen time.Time       `json:"last_seen"`
}
