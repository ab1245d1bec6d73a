package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Robot-check page markers.
var blockedHints = []string{ //nolint:gochecknoglobals
	"enter the characters you see below",
	"escribe los caracteres que ves",
	"api-services-support@amazon.com",
	"to discuss automated access",
	"sorry, we just need to make sure you're not a robot",
	"captcha",
	"503 - service unavailable",
}

func isBlockedPage(doc *goquery.Document) bool {
	if doc.Find("form[action='/errors/validateCaptcha']").Length() > 0 {
		return true
	}

	text := strings.ToLower(doc.Find("body").Text())

	// A served result page always carries result containers; a short page
	// without them is either a block or an error shell.
	if doc.Find("div.s-result-item").Length() > 0 {
		return false
	}

	return containsAny(text, blockedHints)
}

func containsAny(text string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(text, hint) {
			return true
		}
	}

	return false
}
