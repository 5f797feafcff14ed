// Package config loads swapdesk settings from a yaml file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Feed source names accepted by the config.
const (
	FeedStatic      = "static"
	FeedBinance     = "binance"
	FeedBybit       = "bybit"
	FeedHyperliquid = "hyperliquid"
)

// Defaults mirror the simulated session: 2500 USD starting budget per token,
// eight history entries, quarter-second feed latency, 1.3s settlement.
const (
	defaultFiatBudget    = "2500"
	defaultQuoteCurrency = "USDT"
	defaultHistoryCap    = 8
	defaultFeedLatency   = 250 * time.Millisecond
	defaultSettleLatency = 1300 * time.Millisecond
)

type Config struct {
	Feed          string
	QuoteCurrency string
	FiatBudget    decimal.Decimal
	HistoryCap    int
	FeedLatency   time.Duration
	SettleLatency time.Duration
	IconBaseURL   string
}

type configTmp struct {
	Feed          string        `yaml:"feed,omitempty"`
	QuoteCurrency string        `yaml:"quote_currency,omitempty"`
	FiatBudget    string        `yaml:"fiat_budget,omitempty"`
	HistoryCap    int           `yaml:"history_cap,omitempty"`
	FeedLatency   time.Duration `yaml:"feed_latency,omitempty"`
	SettleLatency time.Duration `yaml:"settle_latency,omitempty"`
	IconBaseURL   string        `yaml:"icon_base_url,omitempty"`
}

// Get parses CLI flags and, when --config is given, overlays the yaml file.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	feedFlag := flag.String("feed", FeedStatic, "price feed source: static, binance, bybit or hyperliquid")
	budgetFlag := flag.String("budget", defaultFiatBudget, "fiat budget used to seed each token balance")
	quoteFlag := flag.String("quote", defaultQuoteCurrency, "quote currency for live feeds, example: USDT")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	budget, err := decimal.NewFromString(*budgetFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --budget provided, --budget=%s", *budgetFlag)
	}

	cfg := Config{
		Feed:          *feedFlag,
		QuoteCurrency: *quoteFlag,
		FiatBudget:    budget,
		HistoryCap:    defaultHistoryCap,
		FeedLatency:   defaultFeedLatency,
		SettleLatency: defaultSettleLatency,
	}
	return cfg, validate(cfg)
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Feed:          tmp.Feed,
		QuoteCurrency: tmp.QuoteCurrency,
		HistoryCap:    tmp.HistoryCap,
		FeedLatency:   tmp.FeedLatency,
		SettleLatency: tmp.SettleLatency,
		IconBaseURL:   tmp.IconBaseURL,
	}
	if cfg.Feed == "" {
		cfg.Feed = FeedStatic
	}
	if cfg.QuoteCurrency == "" {
		cfg.QuoteCurrency = defaultQuoteCurrency
	}
	if cfg.HistoryCap == 0 {
		cfg.HistoryCap = defaultHistoryCap
	}
	if cfg.FeedLatency == 0 {
		cfg.FeedLatency = defaultFeedLatency
	}
	if cfg.SettleLatency == 0 {
		cfg.SettleLatency = defaultSettleLatency
	}

	budgetStr := tmp.FiatBudget
	if budgetStr == "" {
		budgetStr = defaultFiatBudget
	}
	cfg.FiatBudget, err = decimal.NewFromString(budgetStr)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'fiat_budget' param in yaml config: %s, error: %w", tmp.FiatBudget, err)
	}

	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	switch cfg.Feed {
	case FeedStatic, FeedBinance, FeedBybit, FeedHyperliquid:
	default:
		return fmt.Errorf("unsupported feed source %q", cfg.Feed)
	}
	if !cfg.FiatBudget.IsPositive() {
		return fmt.Errorf("fiat budget must be positive, got %s", cfg.FiatBudget.String())
	}
	if cfg.HistoryCap < 0 {
		return fmt.Errorf("history cap must not be negative, got %d", cfg.HistoryCap)
	}
	return nil
}
