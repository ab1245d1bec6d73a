package detector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"amazon_offers/internal/domain/entity"
	"amazon_offers/internal/domain/service/detector"
)

type fakeHistory struct {
	entries map[string]entity.HistoryEntry
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{entries: make(map[string]entity.HistoryEntry)}
}

func (h *fakeHistory) Get(asin string) (entity.HistoryEntry, bool) {
	entry, ok := h.entries[asin]
	return entry, ok
}

func (h *fakeHistory) Set(asin string, entry entity.HistoryEntry) {
	h.entries[asin] = entry
}

type fakeLedger struct {
	events []entity.ChangeEvent
	err    error
}

func (l *fakeLedger) Append(_ context.Context, event entity.ChangeEvent) error {
	if l.err != nil {
		return l.err
	}

	l.events = append(l.events, event)
	return nil
}

type fakeSink struct {
	texts    []string
	photos   []string
	photoErr error
	textErr  error
}

func (s *fakeSink) SendText(_ context.Context, text string) error {
	if s.textErr != nil {
		return s.textErr
	}

	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSink) SendPhoto(_ context.Context, photoURL, _ string) error {
	if s.photoErr != nil {
		return s.photoErr
	}

	s.photos = append(s.photos, photoURL)
	return nil
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func record(asin, priceStr string) entity.ProductRecord {
	r := entity.ProductRecord{
		ASIN:  asin,
		Title: "Widget",
		Link:  "https://example.com/dp/" + asin,
	}

	if priceStr != "" {
		r.Price = price(priceStr)
	}

	return r
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProcessSkipsRecordsWithoutPrice(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	ledger := &fakeLedger{}
	sink := &fakeSink{}

	det := detector.New(history, ledger, sink)

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "")})

	rq.Empty(events)
	rq.Empty(ledger.events)
	rq.Empty(sink.texts)
	rq.Empty(sink.photos)
	rq.Empty(history.entries)
}

func TestProcessClassifiesNew(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	ledger := &fakeLedger{}
	sink := &fakeSink{}
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	det := detector.New(history, ledger, sink).WithClock(fixedClock(now))

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "19.99")})

	rq.Len(events, 1)
	rq.Equal(entity.ChangeNew, events[0].Type)
	rq.Nil(events[0].OldPrice)
	rq.True(events[0].NewPrice.Equal(decimal.RequireFromString("19.99")))

	entry, ok := history.Get("A1")
	rq.True(ok)
	rq.True(entry.Price.Equal(decimal.RequireFromString("19.99")))
	rq.Equal(now, entry.LastSeen)

	rq.Len(ledger.events, 1)
	rq.Len(sink.texts, 1)
	rq.Contains(sink.texts[0], "NEW PRODUCT")
	rq.Contains(sink.texts[0], "19.99")
}

func TestProcessClassifiesDrop(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	history.Set("A1", entity.HistoryEntry{
		Title: "Widget",
		Price: decimal.RequireFromString("19.99"),
		Link:  "https://example.com/dp/A1",
	})

	ledger := &fakeLedger{}
	sink := &fakeSink{}

	det := detector.New(history, ledger, sink)

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "14.99")})

	rq.Len(events, 1)
	rq.Equal(entity.ChangeDrop, events[0].Type)
	rq.NotNil(events[0].OldPrice)
	rq.True(events[0].OldPrice.Equal(decimal.RequireFromString("19.99")))
	rq.True(events[0].NewPrice.Equal(decimal.RequireFromString("14.99")))

	entry, _ := history.Get("A1")
	rq.True(entry.Price.Equal(decimal.RequireFromString("14.99")))

	rq.Len(sink.texts, 1)
	rq.Contains(sink.texts[0], "PRICE DROP")
}

func TestProcessEqualPriceIsUnchanged(t *testing.T) {
	rq := require.New(t)

	seen := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	history := newFakeHistory()
	history.Set("A1", entity.HistoryEntry{
		Price:    decimal.RequireFromString("19.99"),
		LastSeen: seen,
	})

	ledger := &fakeLedger{}
	sink := &fakeSink{}

	det := detector.New(history, ledger, sink).WithClock(fixedClock(now))

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "19.99")})

	rq.Empty(events)
	rq.Empty(ledger.events)
	rq.Empty(sink.texts)

	entry, _ := history.Get("A1")
	rq.True(entry.Price.Equal(decimal.RequireFromString("19.99")))
	rq.Equal(now, entry.LastSeen)
}

func TestProcessHigherPriceIsUnchanged(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	history.Set("A1", entity.HistoryEntry{Price: decimal.RequireFromString("19.99")})

	det := detector.New(history, &fakeLedger{}, &fakeSink{})

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "24.99")})

	rq.Empty(events)

	entry, _ := history.Get("A1")
	rq.True(entry.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestProcessIsIdempotent(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	ledger := &fakeLedger{}
	sink := &fakeSink{}

	det := detector.New(history, ledger, sink)

	records := []entity.ProductRecord{record("A1", "19.99"), record("A2", "5.00")}

	first := det.Process(context.Background(), records)
	rq.Len(first, 2)

	second := det.Process(context.Background(), records)
	rq.Empty(second)

	rq.Len(ledger.events, 2)
	rq.Len(sink.texts, 2)
}

func TestProcessUpdatesStateWhenSendFails(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	ledger := &fakeLedger{}
	sink := &fakeSink{textErr: errors.New("telegram down")}

	det := detector.New(history, ledger, sink)

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "19.99")})

	rq.Len(events, 1)
	rq.Len(ledger.events, 1)

	_, ok := history.Get("A1")
	rq.True(ok)
}

func TestProcessPhotoFirstWithTextFallback(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		photoErr   error
		wantPhotos int
		wantTexts  int
	}{
		{
			name:       "Photo send succeeds",
			photoErr:   nil,
			wantPhotos: 1,
			wantTexts:  0,
		},
		{
			name:       "Photo send fails, falls back to text",
			photoErr:   errors.New("bad image"),
			wantPhotos: 0,
			wantTexts:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &fakeSink{photoErr: tc.photoErr}

			det := detector.New(newFakeHistory(), &fakeLedger{}, sink)

			rec := record("A1", "19.99")
			rec.ImageURL = "https://example.com/img.jpg"

			events := det.Process(context.Background(), []entity.ProductRecord{rec})

			rq.Len(events, 1)
			rq.Len(sink.photos, tc.wantPhotos)
			rq.Len(sink.texts, tc.wantTexts)
		})
	}
}

func TestProcessKeepsStateWhenLedgerFails(t *testing.T) {
	rq := require.New(t)

	history := newFakeHistory()
	ledger := &fakeLedger{err: errors.New("disk full")}
	sink := &fakeSink{}

	det := detector.New(history, ledger, sink)

	events := det.Process(context.Background(), []entity.ProductRecord{record("A1", "19.99")})

	rq.Len(events, 1)

	_, ok := history.Get("A1")
	rq.True(ok)
}
