package detector

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"

	"amazon_offers/internal/domain/entity"
	"amazon_offers/pkg/contextx"
	"amazon_offers/pkg/logx"
	"amazon_offers/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type HistoryStore interface {
	Get(asin string) (entity.HistoryEntry, bool)
	Set(asin string, entry entity.HistoryEntry)
}

type Ledger interface {
	Append(ctx context.Context, event entity.ChangeEvent) error
}

type NotificationSink interface {
	SendText(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, photoURL, caption string) error
}

// Detector classifies freshly scraped records against the history store and
// drives notifications and the daily ledger. State updates never depend on
// delivery outcome: a failed send is logged and the history/ledger writes
// happen anyway.
type Detector struct {
	history HistoryStore
	ledger  Ledger
	sink    NotificationSink
	now     func() time.Time
}

func New(history HistoryStore, ledger Ledger, sink NotificationSink) *Detector {
	return &Detector{
		history: history,
		ledger:  ledger,
		sink:    sink,
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (d *Detector) WithClock(now func() time.Time) *Detector {
	d.now = now
	return d
}

// Process runs classification over one batch of records. Records without a
// price are skipped; a panic while handling one record is contained to that
// record.
func (d *Detector) Process(ctx context.Context, records []entity.ProductRecord) []entity.ChangeEvent {
	events := make([]entity.ChangeEvent, 0, len(records))

	for _, record := range records {
		event, classified := d.processRecord(ctx, record)
		if classified {
			events = append(events, event)
		}
	}

	return events
}

func (d *Detector) processRecord(ctx context.Context, record entity.ProductRecord) (event entity.ChangeEvent, classified bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger(ctx).Error(
				"panic while processing record",
				slog.String(logx.FieldASIN, record.ASIN),
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			classified = false
		}
	}()

	if !record.HasPrice() {
		logger(ctx).Debug("record without price skipped", slog.String(logx.FieldASIN, record.ASIN))
		return entity.ChangeEvent{}, false
	}

	now := d.now()

	prev, known := d.history.Get(record.ASIN)
	if !known {
		return d.classifyNew(ctx, record, now), true
	}

	if record.Price.LessThan(prev.Price) {
		return d.classifyDrop(ctx, record, prev, now), true
	}

	// Equal or higher price: observation only.
	prev.LastSeen = now
	d.history.Set(record.ASIN, prev)

	return entity.ChangeEvent{}, false
}

func (d *Detector) classifyNew(ctx context.Context, record entity.ProductRecord, now time.Time) entity.ChangeEvent {
	event := entity.ChangeEvent{
		Type:     entity.ChangeNew,
		ASIN:     record.ASIN,
		Title:    record.Title,
		OldPrice: nil,
		NewPrice: *record.Price,
		Link:     record.Link,
		Time:     now,
	}

	d.notify(ctx, record, newProductMessage(record))

	d.history.Set(record.ASIN, entity.HistoryEntry{
		Title:    record.Title,
		Price:    *record.Price,
		Link:     record.Link,
		LastSeen: now,
	})

	d.appendEvent(ctx, event)
	metrics.ChangeEventsTotal.WithLabelValues(string(entity.ChangeNew)).Inc()

	logger(ctx).Info(
		"new product",
		slog.String(logx.FieldASIN, record.ASIN),
		slog.String(logx.FieldNewPrice, record.Price.String()),
	)

	return event
}

func (d *Detector) classifyDrop(ctx context.Context, record entity.ProductRecord, prev entity.HistoryEntry, now time.Time) entity.ChangeEvent {
	oldPrice := prev.Price

	event := entity.ChangeEvent{
		Type:     entity.ChangeDrop,
		ASIN:     record.ASIN,
		Title:    record.Title,
		OldPrice: &oldPrice,
		NewPrice: *record.Price,
		Link:     record.Link,
		Time:     now,
	}

	d.notify(ctx, record, priceDropMessage(record, oldPrice))

	prev.Price = *record.Price
	prev.LastSeen = now
	d.history.Set(record.ASIN, prev)

	d.appendEvent(ctx, event)
	metrics.ChangeEventsTotal.WithLabelValues(string(entity.ChangeDrop)).Inc()

	logger(ctx).Info(
		"price drop",
		slog.String(logx.FieldASIN, record.ASIN),
		slog.String(logx.FieldOldPrice, oldPrice.String()),
		slog.String(logx.FieldNewPrice, record.Price.String()),
	)

	return event
}

func (d *Detector) appendEvent(ctx context.Context, event entity.ChangeEvent) {
	if err := d.ledger.Append(ctx, event); err != nil {
		logger(ctx).Error("ledger append failed", slog.String(logx.FieldASIN, event.ASIN), logx.Error(err))
	}
}

// notify sends photo-first and falls back to text. Failures are logged, never
// retried here; retry policy belongs to the transport.
func (d *Detector) notify(ctx context.Context, record entity.ProductRecord, message string) {
	if record.ImageURL != "" {
		err := d.sink.SendPhoto(ctx, record.ImageURL, message)
		if err == nil {
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
			return
		}

		logger(ctx).Warn("photo send failed, falling back to text", slog.String(logx.FieldASIN, record.ASIN), logx.Error(err))
	}

	if err := d.sink.SendText(ctx, message); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		logger(ctx).Error("text send failed", slog.String(logx.FieldASIN, record.ASIN), logx.Error(err))
		return
	}

	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}

func newProductMessage(record entity.ProductRecord) string {
	return fmt.Sprintf(
		"🆕 <b>NEW PRODUCT</b>\n"+
			"🛒 <b>%s</b>\n"+
			"💶 Price: %s€\n"+
			"🔗 %s",
		record.Title,
		record.Price.String(),
		record.Link,
	)
}

func priceDropMessage(record entity.ProductRecord, oldPrice decimal.Decimal) string {
	return fmt.Sprintf(
		"📉 <b>PRICE DROP</b>\n"+
			"🛒 <b>%s</b>\n"+
			"⬇ Was: %s€\n"+
			"🟢 Now: %s€\n"+
			"🔗 %s",
		record.Title,
		oldPrice.String(),
		record.Price.String(),
		record.Link,
	)
}
