package entity

import (
	"github.com/shopspring/decimal"
)

// ProductRecord is one listing extracted from a search-result page. Price is
// nil when the listing showed no parseable price; such records are observed
// but never classified.
type ProductRecord struct {
	ASIN     string
	Title    string
	Price    *decimal.Decimal
	Link     string
	ImageURL string
}

func (r ProductRecord) HasPrice() bool {
	return r.Price != nil
}
