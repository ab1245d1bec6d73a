package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"amazon_offers/internal/config"
	"amazon_offers/internal/domain/service/detector"
	"amazon_offers/internal/infrastructure/notifier"
	"amazon_offers/internal/infrastructure/persistence"
	"amazon_offers/internal/infrastructure/scraper"
	"amazon_offers/internal/server"
	"amazon_offers/internal/worker"
	"amazon_offers/pkg/application/modules"
	"amazon_offers/pkg/contextx"
	"amazon_offers/pkg/logx"
	"amazon_offers/pkg/middlewarex"
)

const logFieldMaxLen = 2048

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func run(ctx context.Context, log *slog.Logger) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	ctx = contextx.WithLogger(ctx, log)

	if err := os.MkdirAll(cfg.Storage.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// 2. Persistence
	history := persistence.NewHistoryStore(cfg.Storage.HistoryPath)
	if err := history.Load(ctx); err != nil {
		return fmt.Errorf("history load: %w", err)
	}

	ledger := persistence.NewDailyLedger(cfg.Storage.LedgerPath)

	// 3. Telegram notifier
	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return fmt.Errorf("notifier bot: %w", err)
	}

	log.Info("Testing bot notification...")
	if err := alertBot.SendText(ctx, "🟢 Amazon offers bot started."); err != nil {
		log.Error("❌ Bot test failed! Check Token and ChatID", logx.Error(err))
	} else {
		log.Info("✅ Bot test passed! Message sent.")
	}

	// 4. Scrape source + core
	source := scraper.NewClient(cfg.Scrape.BaseURL, cfg.Scrape.AcceptLanguage, cfg.Scrape.FetchMaxRetries).
		WithPageDelay(cfg.Scrape.PageDelay)

	det := detector.New(history, ledger, alertBot)

	digest := worker.NewDigestScheduler(ledger, alertBot, cfg.Digest.Hour, cfg.Storage.StateDir)

	watcher := worker.NewWatcher(source, det, history, digest, cfg.Scrape.PollInterval).
		WithKeywords(cfg.Scrape.Keywords...).
		WithPagesPerKeyword(cfg.Scrape.PagesPerKeyword).
		WithJitter(cfg.Scrape.PollJitter)

	// 5. Servers + worker under one errgroup
	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Server.MetricsAddress,
	}.Run(ctx, g)

	modules.HTTPServer{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, webServer(ctx, cfg, watcher))

	g.Go(func() error {
		return watcher.Run(ctx)
	})

	log.Info("watcher started", slog.Any("keywords", cfg.Scrape.Keywords))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err //nolint:wrapcheck
	}

	return nil
}

func webServer(ctx context.Context, cfg config.Config, watcher *worker.Watcher) *http.Server {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	server.NewServer(cfg.App.Name, cfg.App.Version, watcher).RegisterRoutes(r)

	return &http.Server{ //nolint:exhaustruct
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}
