package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"amazon_offers/internal/domain"
	"amazon_offers/internal/domain/entity"
	"amazon_offers/pkg/errcodes"
	"amazon_offers/pkg/logx"
)

// parseSearchPage extracts product records from one search-result page.
// Records without title or link are dropped; a missing or unparsable price
// yields a record with a nil price.
func parseSearchPage(ctx context.Context, body io.Reader, baseURL string) ([]entity.ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	if isBlockedPage(doc) {
		return nil, domain.NewError(errcodes.ScrapeBlocked, "robot check page served instead of results")
	}

	var records []entity.ProductRecord

	doc.Find("div.s-result-item").Each(func(_ int, sel *goquery.Selection) {
		asin := extractASIN(sel)
		if asin == "" {
			return
		}

		title := strings.TrimSpace(sel.Find("h2").First().Text())
		link := extractLink(sel, baseURL)

		if title == "" || link == "" {
			return
		}

		record := entity.ProductRecord{
			ASIN:     asin,
			Title:    title,
			Link:     link,
			ImageURL: extractImage(sel),
		}

		priceText := strings.TrimSpace(sel.Find("span.a-offscreen").First().Text())
		if priceText != "" {
			price, err := ParsePrice(priceText)
			if err != nil {
				logger(ctx).Debug(
					"price text unparsable",
					slog.String(logx.FieldASIN, asin),
					slog.String("text", priceText),
				)
			} else {
				record.Price = price
			}
		}

		records = append(records, record)
	})

	return records, nil
}

// extractASIN prefers the container attribute and falls back to the bfk
// variant some layouts use.
func extractASIN(sel *goquery.Selection) string {
	for _, attr := range []string{"data-asin", "data-asin-bfk"} {
		if asin, ok := sel.Attr(attr); ok && len(asin) > 5 {
			return asin
		}
	}

	return ""
}

func extractLink(sel *goquery.Selection, baseURL string) string {
	href, ok := sel.Find("a.a-link-normal[href]").First().Attr("href")
	if !ok || href == "" {
		return ""
	}

	if strings.HasPrefix(href, "/") {
		return baseURL + href
	}

	return href
}

// extractImage tries the lazy-load attributes after the plain src.
func extractImage(sel *goquery.Selection) string {
	img := sel.Find("img").First()

	for _, attr := range []string{"src", "data-src", "data-image-lazy-src"} {
		if src, ok := img.Attr(attr); ok && src != "" {
			return src
		}
	}

	return ""
}
