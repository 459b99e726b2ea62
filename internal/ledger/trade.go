package ledger

import (
	"fmt"
	"time"
)

// Trade represents a completed paper trade with all relevant details
type Trade struct {
	ID          string    `json:"id"`
	PairAddress string    `json:"pair_address"`
	PairName    string    `json:"pair_name"`
	OpenedAt    time.Time `json:"opened_at"`
	ClosedAt    time.Time `json:"closed_at"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	Coins       float64   `json:"coins"`
	InvestUsd   float64   `json:"invest_usd"`
	PnL         float64   `json:"pnl"`
	PnLPercent  float64   `json:"pnl_percent"`
	HoldTime    string    `json:"hold_time"`
}

// ToCSV converts trade to CSV record
func (t *Trade) ToCSV() []string {
	return []string{
		t.ID,
		t.PairAddress,
		t.PairName,
		t.OpenedAt.Format(time.RFC3339),
		t.ClosedAt.Format(time.RFC3339),
		formatFloat(t.EntryPrice),
		formatFloat(t.ExitPrice),
		formatFloat(t.Coins),
		formatFloat(t.InvestUsd),
		formatFloat(t.PnL),
		formatFloat(t.PnLPercent),
		t.HoldTime,
	}
}

// CSVHeaders returns the header row for trade CSV files
func CSVHeaders() []string {
	return []string{
		"id",
		"pair_address",
		"pair_name",
		"opened_at",
		"closed_at",
		"entry_price",
		"exit_price",
		"coins",
		"invest_usd",
		"pnl",
		"pnl_percent",
		"hold_time",
	}
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return fmt.Sprintf("%.6f", f)
}

// CalculateHoldTime calculates the duration between open and close
func CalculateHoldTime(openTime, closeTime time.Time) string {
	duration := closeTime.Sub(openTime)
	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh%dm", int(duration.Hours()), int(duration.Minutes())%60)
	}
	days := int(duration.Hours() / 24)
	hours := int(duration.Hours()) % 24
	return fmt.Sprintf("%dd%dh", days, hours)
}
