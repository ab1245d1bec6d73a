package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"amazon_offers/internal/domain"
	"amazon_offers/internal/domain/entity"
	"amazon_offers/pkg/errcodes"
	"amazon_offers/pkg/logx"
)

// DailyLedger is the durable queue of change events pending the daily digest,
// keyed by ISO date. Every operation goes through the file so restarts never
// lose appended events.
type DailyLedger struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func NewDailyLedger(path string) *DailyLedger {
	return &DailyLedger{
		path: path,
		now:  time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (l *DailyLedger) WithClock(now func() time.Time) *DailyLedger {
	l.now = now
	return l
}

func (l *DailyLedger) Append(ctx context.Context, event entity.ChangeEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	days := l.load(ctx)
	date := l.now().Format(time.DateOnly)
	days[date] = append(days[date], event)

	if err := l.save(days); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	return nil
}

// DrainToday returns today's events and atomically clears them. A second
// drain on the same date returns nothing.
func (l *DailyLedger) DrainToday(ctx context.Context) ([]entity.ChangeEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	days := l.load(ctx)
	date := l.now().Format(time.DateOnly)

	events, ok := days[date]
	if !ok || len(events) == 0 {
		return nil, nil
	}

	delete(days, date)

	if err := l.save(days); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	return events, nil
}

func (l *DailyLedger) load(ctx context.Context) map[string][]entity.ChangeEvent {
	days := make(map[string][]entity.ChangeEvent)

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger(ctx).Error(
				"ledger file unreadable, starting empty",
				slog.String("path", l.path),
				logx.Error(domain.WrapError(err, errcodes.LedgerCorrupted, "read ledger")),
			)
		}

		return days
	}

	if err := json.Unmarshal(data, &days); err != nil {
		logger(ctx).Error(
			"ledger file corrupt, starting empty",
			slog.String("path", l.path),
			logx.Error(domain.WrapError(err, errcodes.LedgerCorrupted, "decode ledger")),
		)

		return make(map[string][]entity.ChangeEvent)
	}

	if days == nil {
		days = make(map[string][]entity.ChangeEvent)
	}

	return days
}

func (l *DailyLedger) save(days map[string][]entity.ChangeEvent) error {
	data, err := json.MarshalIndent(days, "", "    ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if err := writeFileAtomic(l.path, data); err != nil {
		return fmt.Errorf("writeFileAtomic: %w", err)
	}

	return nil
}
