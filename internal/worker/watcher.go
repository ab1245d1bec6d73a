package worker

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"amazon_offers/internal/domain/entity"
	"amazon_offers/internal/domain/service/detector"
	"amazon_offers/internal/infrastructure/persistence"
	"amazon_offers/pkg/contextx"
	"amazon_offers/pkg/logx"
	"amazon_offers/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ScrapeSource interface {
	Search(ctx context.Context, term string, pageCount int) ([]entity.ProductRecord, error)
}

// Watcher drives the poll loop: one cycle scrapes every watched keyword,
// classifies the records, persists the history and gives the digest scheduler
// a chance to fire. Cycles run strictly one after another in a single
// goroutine, so state mutation is never concurrent.
type Watcher struct {
	source   ScrapeSource
	detector *detector.Detector
	history  *persistence.HistoryStore
	digest   *DigestScheduler

	pagesPerKeyword int
	interval        time.Duration
	jitter          time.Duration

	mu       sync.Mutex
	keywords []string
}

func NewWatcher(
	source ScrapeSource,
	det *detector.Detector,
	history *persistence.HistoryStore,
	digest *DigestScheduler,
	interval time.Duration,
) *Watcher {
	return &Watcher{
		source:          source,
		detector:        det,
		history:         history,
		digest:          digest,
		pagesPerKeyword: 3,
		interval:        interval,
		jitter:          time.Minute,
	}
}

func (w *Watcher) WithKeywords(keywords ...string) *Watcher {
	w.SetKeywords(keywords)
	return w
}

func (w *Watcher) WithPagesPerKeyword(pages int) *Watcher {
	if pages > 0 {
		w.pagesPerKeyword = pages
	}
	return w
}

func (w *Watcher) WithJitter(jitter time.Duration) *Watcher {
	w.jitter = jitter
	return w
}

func (w *Watcher) Run(ctx context.Context) error {
	logger(ctx).Info("watcher started", slog.Any("keywords", w.Keywords()))

	for {
		w.RunCycle(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("watcher stopped")
			return ctx.Err()
		case <-time.After(w.nextInterval()):
		}
	}
}

// RunCycle performs one full scrape-classify-persist pass.
func (w *Watcher) RunCycle(ctx context.Context) {
	start := time.Now()

	var eventsFound int

	for _, keyword := range w.Keywords() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		kctx := contextx.WithKeyword(ctx, contextx.Keyword(keyword))

		records, err := w.source.Search(kctx, keyword, w.pagesPerKeyword)
		if err != nil {
			logger(kctx).Error("search failed", slog.String(logx.FieldKeyword, keyword), logx.Error(err))
			continue
		}

		events := w.detector.Process(kctx, records)
		eventsFound += len(events)
	}

	if err := w.history.Save(ctx); err != nil {
		logger(ctx).Error("history save failed", logx.Error(err))
	}

	w.digest.CheckAndSend(ctx)

	metrics.ScanCyclesTotal.Inc()

	if eventsFound > 0 {
		logger(ctx).Info(
			"scan cycle completed",
			slog.Int("events", eventsFound),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		)
	} else {
		logger(ctx).Debug("scan cycle completed without changes")
	}
}

// nextInterval spreads cycles with jitter so the poll cadence does not look
// mechanical to the marketplace.
func (w *Watcher) nextInterval() time.Duration {
	if w.jitter <= 0 {
		return w.interval
	}

	offset := time.Duration(rand.Int64N(int64(2*w.jitter))) - w.jitter

	next := w.interval + offset
	if next < time.Second {
		next = time.Second
	}

	return next
}
