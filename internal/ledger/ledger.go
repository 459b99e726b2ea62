// internal/ledger/ledger.go
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrPositionOpen is returned when a trade is opened while another
	// position is still held. The ledger tracks one position at a time.
	ErrPositionOpen = errors.New("a position is already open")

	// ErrNoPosition is returned when a valuation is requested while the
	// ledger holds nothing.
	ErrNoPosition = errors.New("no open position")
)

// Position is the single simulated holding.
type Position struct {
	PairAddress string    `json:"pair_address"`
	Name        string    `json:"name"`
	EntryPrice  float64   `json:"entry_price"`
	Coins       float64   `json:"coins"`
	InvestUsd   float64   `json:"invest_usd"`
	TargetValue float64   `json:"target_value"`
	OpenedAt    time.Time `json:"opened_at"`
	Open        bool      `json:"open"`
}

// Valuation is the result of marking the position against a fresh price.
type Valuation struct {
	Value     float64
	ProfitUsd float64
	ProfitPct float64
	Closed    bool
	Position  Position
}

// Stats summarizes the ledger's lifetime activity.
type Stats struct {
	TradeCount        int
	RealizedProfitUsd float64
	Holding           bool
}

// Ledger simulates buys and sells against live prices without touching
// an exchange. It holds at most one position: a new trade cannot open
// until the current one has closed at its profit target.
type Ledger struct {
	mu sync.Mutex

	investUsd       float64
	targetProfitUsd float64

	position       *Position
	tradeCount     int
	realizedProfit float64
	trades         []Trade

	logger *zap.Logger
}

func NewLedger(investUsd, targetProfitUsd float64, logger *zap.Logger) *Ledger {
	return &Ledger{
		investUsd:       investUsd,
		targetProfitUsd: targetProfitUsd,
		logger:          logger.Named("ledger"),
	}
}

// Holding reports whether a position is currently open.
func (l *Ledger) Holding() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position != nil && l.position.Open
}

// Open records a simulated buy of the configured USD amount at the
// given entry price. The coin quantity is derived, never rounded to an
// exchange lot size.
func (l *Ledger) Open(pairAddress, name string, entryPrice float64) (Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.position != nil && l.position.Open {
		return Position{}, ErrPositionOpen
	}
	if entryPrice <= 0 {
		return Position{}, fmt.Errorf("entry price must be positive, got %v", entryPrice)
	}

	l.position = &Position{
		PairAddress: pairAddress,
		Name:        name,
		EntryPrice:  entryPrice,
		Coins:       l.investUsd / entryPrice,
		InvestUsd:   l.investUsd,
		TargetValue: l.investUsd + l.targetProfitUsd,
		OpenedAt:    time.Now(),
		Open:        true,
	}
	l.tradeCount++

	l.logger.Info("📈 Opened position",
		zap.String("pair", name),
		zap.String("address", pairAddress),
		zap.Float64("entry_price", entryPrice),
		zap.Float64("coins", l.position.Coins),
		zap.Float64("invest_usd", l.investUsd),
		zap.Float64("target_value", l.position.TargetValue))

	return *l.position, nil
}

// Evaluate marks the open position against a fresh price. When the
// unrealized profit reaches the target the position closes and the
// completed trade is appended to the journal; losses never close it.
func (l *Ledger) Evaluate(price float64) (Valuation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.position == nil || !l.position.Open {
		return Valuation{}, ErrNoPosition
	}

	pos := l.position
	value := pos.Coins * price
	profit := value - pos.InvestUsd
	profitPct := profit / pos.InvestUsd * 100

	v := Valuation{
		Value:     value,
		ProfitUsd: profit,
		ProfitPct: profitPct,
	}

	if profit >= l.targetProfitUsd {
		now := time.Now()
		pos.Open = false
		l.realizedProfit += profit
		l.trades = append(l.trades, Trade{
			ID:          uuid.NewString(),
			PairAddress: pos.PairAddress,
			PairName:    pos.Name,
			OpenedAt:    pos.OpenedAt,
			ClosedAt:    now,
			EntryPrice:  pos.EntryPrice,
			ExitPrice:   price,
			Coins:       pos.Coins,
			InvestUsd:   pos.InvestUsd,
			PnL:         profit,
			PnLPercent:  profitPct,
			HoldTime:    CalculateHoldTime(pos.OpenedAt, now),
		})
		v.Closed = true

		l.logger.Info("💰 Closed position at profit target",
			zap.String("pair", pos.Name),
			zap.Float64("exit_price", price),
			zap.Float64("value_usd", value),
			zap.Float64("pnl_usd", profit),
			zap.Float64("pnl_pct", profitPct),
			zap.Float64("realized_total", l.realizedProfit))
	}

	v.Position = *pos
	return v, nil
}

// Current returns a copy of the most recent position, open or closed.
func (l *Ledger) Current() (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.position == nil {
		return Position{}, false
	}
	return *l.position, true
}

// Trades returns a copy of the completed trade journal.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Stats returns lifetime counters.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		TradeCount:        l.tradeCount,
		RealizedProfitUsd: l.realizedProfit,
		Holding:           l.position != nil && l.position.Open,
	}
}
