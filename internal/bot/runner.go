// internal/bot/runner.go
package bot

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solpaper/solpaper-bot/internal/config"
	"github.com/solpaper/solpaper-bot/internal/dexscreener"
	"github.com/solpaper/solpaper-bot/internal/discovery"
	"github.com/solpaper/solpaper-bot/internal/export"
	"github.com/solpaper/solpaper-bot/internal/ledger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	logger     *zap.Logger
	config     *config.Config
	registry   *discovery.Registry
	scout      *discovery.Scout
	ledger     *ledger.Ledger
	scheduler  *Scheduler
	exporter   *export.TradeExporter
	shutdownCh chan os.Signal
}

func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	runDeadline := time.Duration(cfg.DiscoveryTimeout) * time.Second

	registry := discovery.NewRegistry()
	provider := discovery.NewApifyProvider(cfg.ApifyToken, cfg.ApifyActor, cfg.Chain, timeout, runDeadline, logger)
	scout := discovery.NewScout(provider, registry, cfg.MaxPairAgeHours, logger)
	resolver := dexscreener.NewClient(cfg.Chain, timeout, cfg.PriceRetries, logger)
	book := ledger.NewLedger(cfg.InvestUsd, cfg.TargetProfitUsd, logger)

	scheduler := NewScheduler(
		scout,
		resolver,
		book,
		time.Duration(cfg.DiscoveryPollSecs)*time.Second,
		time.Duration(cfg.PricePollSecs)*time.Second,
		logger,
	)

	return &Runner{
		logger:     logger,
		config:     cfg,
		registry:   registry,
		scout:      scout,
		ledger:     book,
		scheduler:  scheduler,
		exporter:   export.NewTradeExporter(logger),
		shutdownCh: make(chan os.Signal, 1),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	shutdownCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case sig := <-r.shutdownCh:
			r.logger.Info("📡 Signal received: " + sig.String())
			cancel()
		case <-shutdownCtx.Done():
		}
	}()

	r.logger.Info("🚀 Paper trading bot starting",
		zap.String("chain", r.config.Chain),
		zap.Float64("invest_usd", r.config.InvestUsd),
		zap.Float64("target_profit_usd", r.config.TargetProfitUsd),
		zap.Float64("max_pair_age_hours", r.config.MaxPairAgeHours))

	if err := r.warmup(shutdownCtx); err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}

	g, gctx := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		return r.scheduler.Run(gctx)
	})

	if r.config.MetricsAddr != "" {
		g.Go(func() error {
			return r.serveMetrics(gctx)
		})
	}

	err := g.Wait()

	r.exportJournal()
	r.logStats()
	return err
}

// warmup seeds the seen-pair registry so pairs already listed at
// startup are not traded. With clear_warmup_on_start set the baseline
// is dropped again, which makes the next poll trade whatever is
// currently newest. Useful for exercising the pipeline end to end.
func (r *Runner) warmup(ctx context.Context) error {
	marked, err := r.scout.Warmup(ctx, r.config.WarmupLimit)
	if err != nil {
		return err
	}
	r.logger.Info(fmt.Sprintf("🔥 Warm-up: marked %d recent pairs as seen", marked))

	if r.config.ClearWarmupOnStart {
		r.registry.Clear()
		r.logger.Info("🧪 Warm-up baseline cleared, next poll will trade the newest pair")
		r.scheduler.DiscoverOnce(ctx)
	}
	return nil
}

func (r *Runner) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              r.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("📈 Metrics endpoint listening", zap.String("addr", r.config.MetricsAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (r *Runner) exportJournal() {
	if r.config.ExportDir == "" {
		return
	}
	trades := r.ledger.Trades()
	if len(trades) == 0 {
		return
	}

	for _, format := range []export.ExportFormat{export.FormatCSV, export.FormatJSON} {
		_, err := r.exporter.ExportTrades(trades, export.ExportOptions{
			Format:    format,
			OutputDir: r.config.ExportDir,
		})
		if err != nil {
			r.logger.Warn("Trade journal export failed",
				zap.String("format", string(format)),
				zap.Error(err))
		}
	}
}

func (r *Runner) logStats() {
	stats := r.ledger.Stats()
	r.logger.Info("🏁 Session summary",
		zap.Int("trades_opened", stats.TradeCount),
		zap.Float64("realized_profit_usd", stats.RealizedProfitUsd),
		zap.Bool("position_still_open", stats.Holding))
}

func (r *Runner) Shutdown() {
	r.logger.Info("👋 Bot shutting down gracefully")

	if err := r.logger.Sync(); err != nil {
		if !os.IsNotExist(err) &&
			err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: inappropriate ioctl for device" {
			fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
		}
	}
}
