package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/solpaper/solpaper-bot/internal/ledger"
	"go.uber.org/zap"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format     ExportFormat
	StartTime  time.Time
	EndTime    time.Time
	PairFilter string // Filter by pair address
	OutputDir  string
}

// TradeExporter writes the completed trade journal to disk
type TradeExporter struct {
	logger *zap.Logger
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	return &TradeExporter{
		logger: logger,
	}
}

// ExportTrades exports trades based on the provided options
func (te *TradeExporter) ExportTrades(trades []ledger.Trade, options ExportOptions) (string, error) {
	filtered := te.filterTrades(trades, options)

	if len(filtered) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	// Sort by close time
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ClosedAt.Before(filtered[j].ClosedAt)
	})

	filename := te.generateFilename(options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = te.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = te.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	te.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterTrades applies filters to the trade list
func (te *TradeExporter) filterTrades(trades []ledger.Trade, options ExportOptions) []ledger.Trade {
	var filtered []ledger.Trade

	for _, trade := range trades {
		if !options.StartTime.IsZero() && trade.ClosedAt.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && trade.ClosedAt.After(options.EndTime) {
			continue
		}
		if options.PairFilter != "" && trade.PairAddress != options.PairFilter {
			continue
		}

		filtered = append(filtered, trade)
	}

	return filtered
}

// generateFilename creates a filename based on export options
func (te *TradeExporter) generateFilename(options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "trades_all"
	if options.PairFilter != "" {
		filter := options.PairFilter
		if len(filter) > 8 {
			filter = filter[:8]
		}
		prefix = "trades_" + filter
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// exportToCSV exports trades to CSV format
func (te *TradeExporter) exportToCSV(trades []ledger.Trade, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(ledger.CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, trade := range trades {
		if err := writer.Write(trade.ToCSV()); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	return nil
}

// exportToJSON exports trades to JSON format
func (te *TradeExporter) exportToJSON(trades []ledger.Trade, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time      `json:"export_time"`
		TradeCount int            `json:"trade_count"`
		Trades     []ledger.Trade `json:"trades"`
		Summary    ExportSummary  `json:"summary"`
	}{
		ExportTime: time.Now(),
		TradeCount: len(trades),
		Trades:     trades,
		Summary:    te.calculateSummary(trades),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// calculateSummary calculates summary statistics for the export
func (te *TradeExporter) calculateSummary(trades []ledger.Trade) ExportSummary {
	summary := ExportSummary{
		TotalTrades: len(trades),
	}

	if len(trades) == 0 {
		return summary
	}

	summary.StartDate = trades[0].ClosedAt
	summary.EndDate = trades[len(trades)-1].ClosedAt

	pairSet := make(map[string]bool)

	for _, trade := range trades {
		pairSet[trade.PairAddress] = true

		summary.TotalInvested += trade.InvestUsd
		summary.TotalPnL += trade.PnL

		if trade.PnL > summary.BestPnL {
			summary.BestPnL = trade.PnL
		}
	}

	summary.UniquePairs = len(pairSet)
	summary.AvgPnL = summary.TotalPnL / float64(len(trades))

	return summary
}

// ExportSummary contains summary statistics for exported trades
type ExportSummary struct {
	TotalTrades   int       `json:"total_trades"`
	UniquePairs   int       `json:"unique_pairs"`
	TotalInvested float64   `json:"total_invested"`
	TotalPnL      float64   `json:"total_pnl"`
	AvgPnL        float64   `json:"avg_pnl"`
	BestPnL       float64   `json:"best_pnl"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}
