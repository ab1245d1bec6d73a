package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	ScanCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offers_scan_cycles_total",
		Help: "Completed scan cycles.",
	})

	ProductsScrapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offers_products_scraped_total",
		Help: "Product records extracted from search pages.",
	})

	ScrapeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offers_scrape_failures_total",
		Help: "Failed page fetches by reason.",
	}, []string{"reason"})

	ChangeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offers_change_events_total",
		Help: "Classified change events by type.",
	}, []string{"type"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offers_notifications_total",
		Help: "Telegram sends by outcome.",
	}, []string{"status"})

	DigestsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offers_digests_sent_total",
		Help: "Daily digest messages sent.",
	})
)
