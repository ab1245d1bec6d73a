package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"amazon_offers/internal/domain/entity"
	"amazon_offers/internal/domain/service/detector"
	"amazon_offers/pkg/logx"
	"amazon_offers/pkg/lox"
	"amazon_offers/pkg/metrics"
)

const digestMaxItems = 30

type LedgerDrainer interface {
	DrainToday(ctx context.Context) ([]entity.ChangeEvent, error)
}

// DigestScheduler sends at most one summary per calendar date, the first time
// the wall-clock hour matches the configured hour. The transition is made
// durable through a per-date sentinel file, so neither repeated checks within
// the hour nor a restart can produce a second digest.
type DigestScheduler struct {
	ledger   LedgerDrainer
	sink     detector.NotificationSink
	hour     int
	stateDir string
	now      func() time.Time
}

func NewDigestScheduler(ledger LedgerDrainer, sink detector.NotificationSink, hour int, stateDir string) *DigestScheduler {
	return &DigestScheduler{
		ledger:   ledger,
		sink:     sink,
		hour:     hour,
		stateDir: stateDir,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *DigestScheduler) WithClock(now func() time.Time) *DigestScheduler {
	s.now = now
	return s
}

// CheckAndSend fires the digest when due. Draining consumes today's events
// even past the render cap; they are gone either way.
func (s *DigestScheduler) CheckAndSend(ctx context.Context) {
	now := s.now()
	if now.Hour() != s.hour {
		return
	}

	date := now.Format(time.DateOnly)

	sentinel := s.sentinelPath(date)
	if _, err := os.Stat(sentinel); err == nil {
		return
	}

	events, err := s.ledger.DrainToday(ctx)
	if err != nil {
		logger(ctx).Error("ledger drain failed", logx.Error(err))
		return
	}

	// The sentinel is written even for an empty day, otherwise the check
	// repeats every cycle for the rest of the hour.
	defer s.writeSentinel(ctx, sentinel)

	if len(events) == 0 {
		logger(ctx).Info("no changes for daily digest", slog.String("date", date))
		return
	}

	if err := s.sink.SendText(ctx, renderDigest(date, events)); err != nil {
		logger(ctx).Error("digest send failed", slog.String("date", date), logx.Error(err))
		return
	}

	metrics.DigestsSentTotal.Inc()
	logger(ctx).Info("daily digest sent", slog.String("date", date), slog.Int("events", len(events)))
}

func (s *DigestScheduler) sentinelPath(date string) string {
	return filepath.Join(s.stateDir, "digest_sent_"+date+".flag")
}

func (s *DigestScheduler) writeSentinel(ctx context.Context, path string) {
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		logger(ctx).Error("sentinel write failed", slog.String("path", path), logx.Error(err))
	}
}

func renderDigest(date string, events []entity.ChangeEvent) string {
	lines := []string{fmt.Sprintf("📝 <b>Daily digest — %s</b>", date), ""}

	lines = append(lines, lox.Map(lo.Slice(events, 0, digestMaxItems), renderDigestLine)...)

	if overflow := len(events) - digestMaxItems; overflow > 0 {
		lines = append(lines, fmt.Sprintf("+%d more.", overflow))
	}

	return strings.Join(lines, "\n")
}

func renderDigestLine(event entity.ChangeEvent) string {
	if event.Type == entity.ChangeNew {
		return fmt.Sprintf("🆕 %s\n💶 %s€\n🔗 %s\n", event.Title, event.NewPrice.String(), event.Link)
	}

	old := "?"
	if event.OldPrice != nil {
		old = event.OldPrice.String()
	}

	return fmt.Sprintf("📉 %s\nWas: %s€ → Now: %s€\n🔗 %s\n", event.Title, old, event.NewPrice.String(), event.Link)
}
