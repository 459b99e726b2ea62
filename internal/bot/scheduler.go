// internal/bot/scheduler.go
package bot

import (
	"context"
	"time"

	"github.com/solpaper/solpaper-bot/internal/dexscreener"
	"github.com/solpaper/solpaper-bot/internal/discovery"
	"github.com/solpaper/solpaper-bot/internal/ledger"
	"go.uber.org/zap"
)

// PriceResolver resolves a pair address to a current USD quote.
type PriceResolver interface {
	Resolve(ctx context.Context, pairAddress string) (*dexscreener.Quote, error)
	ResolveWithRetry(ctx context.Context, pairAddress string) (*dexscreener.Quote, error)
}

// Scheduler drives the two periodic activities: discovering new pairs
// while idle and valuing the open position while holding. Both run off
// one goroutine, so ledger transitions are never raced between ticks.
type Scheduler struct {
	scout    *discovery.Scout
	resolver PriceResolver
	ledger   *ledger.Ledger

	discoveryInterval time.Duration
	priceInterval     time.Duration

	logger *zap.Logger
}

func NewScheduler(scout *discovery.Scout, resolver PriceResolver, book *ledger.Ledger, discoveryInterval, priceInterval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scout:             scout,
		resolver:          resolver,
		ledger:            book,
		discoveryInterval: discoveryInterval,
		priceInterval:     priceInterval,
		logger:            logger.Named("scheduler"),
	}
}

// Run ticks until the context is canceled. Discovery ticks are skipped
// while a position is held; price ticks are skipped while idle.
func (s *Scheduler) Run(ctx context.Context) error {
	discoveryTicker := time.NewTicker(s.discoveryInterval)
	defer discoveryTicker.Stop()
	priceTicker := time.NewTicker(s.priceInterval)
	defer priceTicker.Stop()

	s.logger.Info("⏱️ Scheduler started",
		zap.Duration("discovery_interval", s.discoveryInterval),
		zap.Duration("price_interval", s.priceInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("⏱️ Scheduler stopped")
			return nil
		case <-discoveryTicker.C:
			if !s.ledger.Holding() {
				s.DiscoverOnce(ctx)
			}
		case <-priceTicker.C:
			if s.ledger.Holding() {
				s.EvaluateOnce(ctx)
			}
		}
	}
}

// DiscoverOnce runs a single discovery cycle: poll for the newest
// unseen pair, resolve its price, and open a simulated position.
// Every failure is logged and the cycle abandoned; the pair is already
// marked seen, so it will not be retried on a later tick.
func (s *Scheduler) DiscoverOnce(ctx context.Context) {
	rec, err := s.scout.PollNewest(ctx)
	if err != nil {
		RecordProviderError("apify")
		s.logger.Warn("Discovery poll failed", zap.Error(err))
		return
	}
	if rec == nil {
		return
	}
	PairsDiscovered.Inc()

	s.logger.Info("🔍 New pair discovered",
		zap.String("pair", rec.Name()),
		zap.String("address", rec.PairAddress),
		zap.String("dex", rec.DexID),
		zap.Float64("liquidity_usd", rec.LiquidityUsd),
		zap.Float64("volume_24h_usd", rec.VolumeH24Usd),
		zap.Float64("age_hours", rec.AgeHours))

	quote, err := s.resolver.Resolve(ctx, rec.PairAddress)
	if err != nil {
		RecordProviderError("dexscreener")
		if dexscreener.IsInvalidPrice(err) {
			s.logger.Warn("Pair skipped, quote has no usable price",
				zap.String("address", rec.PairAddress),
				zap.Error(err))
		} else {
			s.logger.Warn("Price resolution failed, pair skipped",
				zap.String("address", rec.PairAddress),
				zap.Error(err))
		}
		return
	}

	if _, err := s.ledger.Open(rec.PairAddress, quote.Name, quote.PriceUsd); err != nil {
		// Unreachable while discovery ticks are gated on an idle
		// ledger; treat it as a broken invariant, not a bad tick.
		s.logger.DPanic("Open rejected on a discovery tick", zap.Error(err))
		return
	}
	RecordOpen()
}

// EvaluateOnce runs a single valuation cycle against the open position.
func (s *Scheduler) EvaluateOnce(ctx context.Context) {
	pos, ok := s.ledger.Current()
	if !ok || !pos.Open {
		return
	}

	quote, err := s.resolver.ResolveWithRetry(ctx, pos.PairAddress)
	if err != nil {
		RecordProviderError("dexscreener")
		s.logger.Warn("Valuation skipped, price lookup failed",
			zap.String("pair", pos.Name),
			zap.Error(err))
		return
	}

	v, err := s.ledger.Evaluate(quote.PriceUsd)
	if err != nil {
		s.logger.DPanic("Valuation rejected while holding", zap.Error(err))
		return
	}

	if v.Closed {
		RecordClose(v.ProfitUsd)
		return
	}

	s.logger.Info("📊 Position valued",
		zap.String("pair", pos.Name),
		zap.Float64("price", quote.PriceUsd),
		zap.Float64("value_usd", v.Value),
		zap.Float64("pnl_usd", v.ProfitUsd),
		zap.Float64("pnl_pct", v.ProfitPct),
		zap.Float64("target_value", pos.TargetValue))
}
