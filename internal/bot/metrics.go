package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the paper-trading core.
//
// Exposed on the /metrics endpoint when metrics_addr is configured.

var TradesOpened = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "solpaper",
		Subsystem: "trading",
		Name:      "trades_opened_total",
		Help:      "Total number of simulated positions opened",
	},
)

var TradesClosed = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "solpaper",
		Subsystem: "trading",
		Name:      "trades_closed_total",
		Help:      "Total number of simulated positions closed at profit target",
	},
)

var RealizedProfit = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "solpaper",
		Subsystem: "trading",
		Name:      "realized_profit_usd_total",
		Help:      "Cumulative realized profit in USD",
	},
)

var OpenPosition = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "solpaper",
		Subsystem: "trading",
		Name:      "open_position",
		Help:      "Whether a position is currently held (1=holding, 0=idle)",
	},
)

var ProviderErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "solpaper",
		Subsystem: "upstream",
		Name:      "provider_errors_total",
		Help:      "Upstream request failures by provider",
	},
	[]string{"provider"}, // apify, dexscreener
)

var PairsDiscovered = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "solpaper",
		Subsystem: "discovery",
		Name:      "pairs_discovered_total",
		Help:      "Number of fresh pairs returned by discovery polls",
	},
)

// RecordOpen records a newly opened position
func RecordOpen() {
	TradesOpened.Inc()
	OpenPosition.Set(1)
}

// RecordClose records a position closed at its target
func RecordClose(profitUsd float64) {
	TradesClosed.Inc()
	OpenPosition.Set(0)
	if profitUsd > 0 {
		RealizedProfit.Add(profitUsd)
	}
}

// RecordProviderError records an upstream failure
func RecordProviderError(provider string) {
	ProviderErrors.WithLabelValues(provider).Inc()
}
