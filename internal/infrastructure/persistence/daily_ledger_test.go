package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"amazon_offers/internal/domain/entity"
	"amazon_offers/internal/infrastructure/persistence"
)

func event(asin string, price string) entity.ChangeEvent {
	return entity.ChangeEvent{
		Type:     entity.ChangeNew,
		ASIN:     asin,
		Title:    "Widget",
		NewPrice: decimal.RequireFromString(price),
		Link:     "https://example.com/dp/" + asin,
	}
}

func TestDailyLedgerAppendAndDrain(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "daily.json")
	ctx := context.Background()
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	ledger := persistence.NewDailyLedger(path).
		WithClock(func() time.Time { return today })

	rq.NoError(ledger.Append(ctx, event("A1", "19.99")))
	rq.NoError(ledger.Append(ctx, event("A2", "5.00")))

	events, err := ledger.DrainToday(ctx)
	rq.NoError(err)
	rq.Len(events, 2)
	rq.Equal("A1", events[0].ASIN)
	rq.Equal("A2", events[1].ASIN)
}

func TestDailyLedgerDrainIsDestructive(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	ledger := persistence.NewDailyLedger(filepath.Join(t.TempDir(), "daily.json")).
		WithClock(func() time.Time { return today })

	rq.NoError(ledger.Append(ctx, event("A1", "19.99")))

	first, err := ledger.DrainToday(ctx)
	rq.NoError(err)
	rq.Len(first, 1)

	second, err := ledger.DrainToday(ctx)
	rq.NoError(err)
	rq.Empty(second)
}

func TestDailyLedgerSeparatesDates(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "daily.json")

	yesterday := time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	clock := yesterday
	ledger := persistence.NewDailyLedger(path).
		WithClock(func() time.Time { return clock })

	rq.NoError(ledger.Append(ctx, event("A1", "19.99")))

	clock = today
	rq.NoError(ledger.Append(ctx, event("A2", "5.00")))

	events, err := ledger.DrainToday(ctx)
	rq.NoError(err)
	rq.Len(events, 1)
	rq.Equal("A2", events[0].ASIN)
}

func TestDailyLedgerSurvivesReload(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "daily.json")
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return today }

	ledger := persistence.NewDailyLedger(path).WithClock(clock)
	rq.NoError(ledger.Append(ctx, event("A1", "19.99")))

	// A fresh instance over the same file sees the appended events.
	reopened := persistence.NewDailyLedger(path).WithClock(clock)

	events, err := reopened.DrainToday(ctx)
	rq.NoError(err)
	rq.Len(events, 1)
}

func TestDailyLedgerDrainEmptyDay(t *testing.T) {
	rq := require.New(t)

	ledger := persistence.NewDailyLedger(filepath.Join(t.TempDir(), "daily.json"))

	events, err := ledger.DrainToday(context.Background())
	rq.NoError(err)
	rq.Empty(events)
}
