package config

import "time"

type Scrape struct {
	Keywords        []string      `env:"TAGS" envSeparator:"," envDefault:"decoración navidad"`
	PagesPerKeyword int           `env:"PAGES_PER_TAG" envDefault:"3" validate:"gte=1"`
	BaseURL         string        `env:"AMAZON_BASE_URL" envDefault:"https://www.amazon.es" validate:"url"`
	AcceptLanguage  string        `env:"ACCEPT_LANGUAGE" envDefault:"es-ES,es;q=0.9"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"10m"`
	PollJitter      time.Duration `env:"POLL_JITTER" envDefault:"1m"`
	PageDelay       time.Duration `env:"PAGE_DELAY" envDefault:"6s"`
	FetchMaxRetries uint64        `env:"FETCH_MAX_RETRIES" envDefault:"5"`
}

type Digest struct {
	Hour int `env:"SUMMARY_HOUR" envDefault:"20" validate:"gte=0,lte=23"`
}

type Storage struct {
	HistoryPath string `env:"DATA_FILE" envDefault:"data.json"`
	LedgerPath  string `env:"DAILY_FILE" envDefault:"daily.json"`
	StateDir    string `env:"STATE_DIR" envDefault:"state"`
}

type Server struct {
	Port            int           `env:"PORT" envDefault:"10000" validate:"gt=0"`
	ProbeAddress    string        `env:"PROBE_ADDRESS" envDefault:":8081"`
	MetricsAddress  string        `env:"METRICS_ADDRESS" envDefault:":9090"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}
