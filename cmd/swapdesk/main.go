// Command swapdesk runs a simulated token-swap session in the terminal.
// Prices come from an embedded static feed by default; live read-only
// sources (Binance, Bybit, Hyperliquid) can be selected via configuration.
//
// Usage:
//
//	swapdesk --config config.yaml
//	swapdesk --feed static --budget 2500
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/adshao/go-binance/v2"
	"github.com/hirokisan/bybit/v2"
	hyperliquid "github.com/sonirico/go-hyperliquid"
	"go.uber.org/zap"

	"github.com/ilyakhov/swapdesk/config"
	"github.com/ilyakhov/swapdesk/internal/feed"
	"github.com/ilyakhov/swapdesk/internal/notify"
	"github.com/ilyakhov/swapdesk/internal/services/catalog"
	"github.com/ilyakhov/swapdesk/internal/services/form"
	"github.com/ilyakhov/swapdesk/internal/services/swap"
	"github.com/ilyakhov/swapdesk/internal/tui"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	source, err := buildFeed(cfg)
	if err != nil {
		logger.Fatal("build price feed", zap.Error(err))
	}

	executor := swap.NewExecutor(logger, notify.NewZapNotifier(logger), cfg.HistoryCap, cfg.SettleLatency, nil)
	controller := form.NewController(logger, source, executor, catalog.IconURL(cfg.IconBaseURL), cfg.FiatBudget)
	defer controller.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, controller); err != nil && ctx.Err() == nil {
		logger.Fatal("session failed", zap.Error(err))
	}
}

func buildFeed(cfg config.Config) (feed.Feed, error) {
	switch cfg.Feed {
	case config.FeedBinance:
		return feed.NewBinanceFeed(binance.NewClient("", ""), cfg.QuoteCurrency), nil
	case config.FeedBybit:
		return feed.NewBybitFeed(bybit.NewClient(), cfg.QuoteCurrency), nil
	case config.FeedHyperliquid:
		info := hyperliquid.NewInfo(context.Background(), hyperliquid.MainnetAPIURL, true, nil, nil)
		return feed.NewHyperliquidFeed(info), nil
	default:
		return feed.NewStaticFeed(cfg.FeedLatency, nil), nil
	}
}
