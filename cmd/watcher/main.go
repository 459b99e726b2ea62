// cmd/watcher/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solpaper/solpaper-bot/internal/config"
	"github.com/solpaper/solpaper-bot/internal/discovery"
	"github.com/solpaper/solpaper-bot/internal/logger"
	"go.uber.org/zap"
)

// The watcher reports newly listed pairs without opening any trades.
// Each pair is printed once per process; there is no warm-up pass, so
// the first poll reports everything currently listed within the age
// ceiling.
func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	runDeadline := time.Duration(cfg.DiscoveryTimeout) * time.Second
	registry := discovery.NewRegistry()
	provider := discovery.NewApifyProvider(cfg.ApifyToken, cfg.ApifyActor, cfg.Chain, timeout, runDeadline, log.Logger)
	scout := discovery.NewScout(provider, registry, cfg.MaxPairAgeHours, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdownCh
		log.Info("📡 Signal received: " + sig.String())
		cancel()
	}()

	log.Info("👀 Pair watcher started",
		zap.String("chain", cfg.Chain),
		zap.Float64("max_pair_age_hours", cfg.MaxPairAgeHours),
		zap.Int("poll_seconds", cfg.WatcherPollSecs))

	ticker := time.NewTicker(time.Duration(cfg.WatcherPollSecs) * time.Second)
	defer ticker.Stop()

	reportOnce(ctx, scout, cfg.WatcherLimit, log.Logger)
	for {
		select {
		case <-ctx.Done():
			log.Info("👋 Watcher shutting down")
			return
		case <-ticker.C:
			reportOnce(ctx, scout, cfg.WatcherLimit, log.Logger)
		}
	}
}

func reportOnce(ctx context.Context, scout *discovery.Scout, limit int, log *zap.Logger) {
	fresh, err := scout.PollMany(ctx, limit)
	if err != nil {
		log.Warn("Discovery poll failed", zap.Error(err))
		return
	}

	for _, rec := range fresh {
		log.Info("🆕 New pair listed",
			zap.String("pair", rec.Name()),
			zap.String("address", rec.PairAddress),
			zap.String("dex", rec.DexID),
			zap.Float64("liquidity_usd", rec.LiquidityUsd),
			zap.Float64("volume_24h_usd", rec.VolumeH24Usd),
			zap.Float64("age_hours", rec.AgeHours),
			zap.String("url", rec.URL))
	}
}
