package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"amazon_offers/internal/domain"
	"amazon_offers/internal/domain/entity"
	"amazon_offers/pkg/contextx"
	"amazon_offers/pkg/errcodes"
	"amazon_offers/pkg/httpx"
	"amazon_offers/pkg/logx"
	"amazon_offers/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const requestTimeout = 15 * time.Second

// Client fetches marketplace search-result pages and extracts product
// records. Retry, header rotation and request logging live in the transport
// stack; callers only see a (possibly partial) batch of records.
type Client struct {
	httpClient *http.Client
	baseURL    string

	requestInterval time.Duration
	lastRequest     time.Time
}

func NewClient(baseURL, acceptLanguage string, maxRetries uint64) *Client {
	provider := httpx.NewBrowserHeaderProvider(acceptLanguage, baseURL+"/")

	transport := httpx.NewRetryRoundTripper(
		httpx.NewLoggingRoundTripper(
			httpx.NewRotatingHeadersRoundTripper(http.DefaultTransport, provider),
			httpx.WithLogFieldMaxLen(2048),
		),
		maxRetries,
	)

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		baseURL:         baseURL,
		requestInterval: 5 * time.Second,
	}
}

// WithPageDelay sets the pacing interval between page fetches.
func (c *Client) WithPageDelay(delay time.Duration) *Client {
	c.requestInterval = delay
	return c
}

// Search scrapes up to pageCount result pages for one term. A failed page is
// logged and skipped; the records of the remaining pages are still returned.
func (c *Client) Search(ctx context.Context, term string, pageCount int) ([]entity.ProductRecord, error) {
	var records []entity.ProductRecord

	for page := 1; page <= pageCount; page++ {
		if err := c.waitForNextSlot(ctx); err != nil {
			return records, err //nolint:wrapcheck
		}

		pageRecords, err := c.fetchPage(ctx, term, page)
		if err != nil {
			reason := "fetch"
			if code, ok := domain.GetCode(err); ok {
				reason = code.String()
			}

			metrics.ScrapeFailuresTotal.WithLabelValues(reason).Inc()
			logger(ctx).Warn("page fetch failed", slog.Int(logx.FieldPage, page), logx.Error(err))

			continue
		}

		records = append(records, pageRecords...)
	}

	metrics.ProductsScrapedTotal.Add(float64(len(records)))

	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, term string, page int) ([]entity.ProductRecord, error) {
	pageURL := c.searchURL(term, page)

	logger(ctx).Debug("fetching search page", slog.String(logx.FieldURL, pageURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError(errcodes.ScrapeBadStatus, fmt.Sprintf("status %d for %s", resp.StatusCode, pageURL))
	}

	pageRecords, err := parseSearchPage(ctx, resp.Body, c.baseURL)
	if err != nil {
		return nil, err
	}

	logger(ctx).Debug("page parsed", slog.Int(logx.FieldPage, page), slog.Int("records", len(pageRecords)))

	return pageRecords, nil
}

func (c *Client) searchURL(term string, page int) string {
	query := url.Values{}
	query.Set("k", term)
	query.Set("page", strconv.Itoa(page))

	return c.baseURL + "/s?" + query.Encode()
}

func (c *Client) waitForNextSlot(ctx context.Context) error {
	if c.lastRequest.IsZero() {
		c.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(c.lastRequest)
	if elapsed >= c.requestInterval {
		c.lastRequest = time.Now()
		return nil
	}

	wait := c.requestInterval - elapsed

	select {
	case <-time.After(wait):
		c.lastRequest = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
