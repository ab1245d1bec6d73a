package scraper

import (
	"strings"

	"github.com/shopspring/decimal"

	"amazon_offers/internal/domain"
	"amazon_offers/pkg/errcodes"
)

// ParsePrice turns a European-formatted price string ("29,99 €", "1.299,00 €")
// into a decimal. Thousands dots are stripped, the decimal comma becomes a
// dot, anything else but digits is dropped.
func ParsePrice(text string) (*decimal.Decimal, error) {
	cleaned := strings.NewReplacer("€", "", " ", "", " ", "").Replace(text)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	var b strings.Builder

	for _, ch := range cleaned {
		if (ch >= '0' && ch <= '9') || ch == '.' {
			b.WriteRune(ch)
		}
	}

	if b.Len() == 0 {
		return nil, domain.NewError(errcodes.PriceUnparsable, "no digits in price text")
	}

	price, err := decimal.NewFromString(b.String())
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PriceUnparsable, "decimal.NewFromString")
	}

	return &price, nil
}
