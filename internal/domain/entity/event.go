package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChangeType string

const (
	ChangeNew  ChangeType = "new"
	ChangeDrop ChangeType = "drop"
)

// ChangeEvent is appended to the daily ledger whenever a record classifies as
// new or drop. OldPrice is nil for new.
type ChangeEvent struct {
	Type     ChangeType       `json:"type"`
	ASIN     string           `json:"asin"`
	Title    string           `json:"title"`
	OldPrice *decimal.Decimal `json:"old,omitempty"`
	NewPrice decimal.Decimal  `json:"new"`
	Link     string           `json:"link"`
	Time     time.Time        `json:"time"`
}
