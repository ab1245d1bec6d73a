package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Scraping.
	ScrapeBlocked     failure.ErrorCode = "ScrapeBlocked"     // CAPTCHA / robot check page served instead of results
	ScrapeBadStatus   failure.ErrorCode = "ScrapeBadStatus"   // non-200 after retries
	PriceUnparsable   failure.ErrorCode = "PriceUnparsable"   // listing price text did not parse
	KeywordNotWatched failure.ErrorCode = "KeywordNotWatched" // removal of a keyword that is not in the watch set

	// Persistence.
	HistoryCorrupted failure.ErrorCode = "HistoryCorrupted"
	LedgerCorrupted  failure.ErrorCode = "LedgerCorrupted"

	// Notifications.
	NotificationFailed failure.ErrorCode = "NotificationFailed"
)
