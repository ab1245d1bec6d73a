package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	App     App
	Bot     Bot
	Scrape  Scrape
	Digest  Digest
	Storage Storage
	Server  Server
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"amazon-offers"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Bot struct {
	Token  string `env:"TELEGRAM_TOKEN,required"`
	ChatID int64  `env:"CHAT_ID,required"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate.Struct: %w", err)
	}

	config.Scrape.Keywords = normalizeKeywords(config.Scrape.Keywords)

	return config, nil
}

func normalizeKeywords(keywords []string) []string {
	trimmed := lo.FilterMap(keywords, func(keyword string, _ int) (string, bool) {
		keyword = strings.TrimSpace(keyword)
		return keyword, keyword != ""
	})

	return lo.Uniq(trimmed)
}
