package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "plain euro", text: "29,99 €", want: "29.99"},
		{name: "thousands dot", text: "1.299,00 €", want: "1299.00"},
		{name: "no currency sign", text: "5,49", want: "5.49"},
		{name: "narrow space before sign", text: "12,00 €", want: "12.00"},
		{name: "integer", text: "7 €", want: "7"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			price, err := ParsePrice(tc.text)
			rq.NoError(err)
			rq.Equal(tc.want, price.String())
		})
	}
}

func TestParsePriceRejectsTextWithoutDigits(t *testing.T) {
	for _, text := range []string{"", "€", "No disponible"} {
		price, err := ParsePrice(text)
		require.Error(t, err)
		require.Nil(t, price)
	}
}
