package export

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/solpaper/solpaper-bot/internal/ledger"
	"go.uber.org/zap"
)

func TestTradeExportCSV(t *testing.T) {
	logger := zap.NewNop()
	exporter := NewTradeExporter(logger)
	tempDir := t.TempDir()

	trades := generateTestTrades()

	options := ExportOptions{
		Format:    FormatCSV,
		OutputDir: tempDir,
	}

	outputPath, err := exporter.ExportTrades(trades, options)
	if err != nil {
		t.Fatalf("Failed to export trades: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Export file is empty")
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	if !strings.HasPrefix(string(content), "id,pair_address,pair_name") {
		t.Error("CSV file is missing the header row")
	}

	t.Logf("Exported CSV to: %s (size: %d bytes)", outputPath, info.Size())
}

func TestTradeExportJSON(t *testing.T) {
	logger := zap.NewNop()
	exporter := NewTradeExporter(logger)
	tempDir := t.TempDir()

	trades := generateTestTrades()

	options := ExportOptions{
		Format:    FormatJSON,
		OutputDir: tempDir,
	}

	outputPath, err := exporter.ExportTrades(trades, options)
	if err != nil {
		t.Fatalf("Failed to export trades: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}

	if len(content) == 0 {
		t.Error("Export file is empty")
	}
	if !strings.Contains(string(content), "\"summary\"") {
		t.Error("JSON export is missing the summary block")
	}

	t.Logf("Exported JSON to: %s (size: %d bytes)", outputPath, len(content))
}

func TestTradeExportFilters(t *testing.T) {
	logger := zap.NewNop()
	exporter := NewTradeExporter(logger)
	tempDir := t.TempDir()

	trades := generateTestTrades()

	// Time filter
	options := ExportOptions{
		Format:    FormatCSV,
		StartTime: time.Now().Add(-50 * time.Minute),
		EndTime:   time.Now().Add(-10 * time.Minute),
		OutputDir: tempDir,
	}

	outputPath, err := exporter.ExportTrades(trades, options)
	if err != nil {
		t.Fatalf("Failed to export with time filter: %v", err)
	}
	t.Logf("Time filtered export: %s", outputPath)

	// Pair filter
	options = ExportOptions{
		Format:     FormatCSV,
		PairFilter: "PAIRADDR1",
		OutputDir:  tempDir,
	}

	outputPath, err = exporter.ExportTrades(trades, options)
	if err != nil {
		t.Fatalf("Failed to export with pair filter: %v", err)
	}
	t.Logf("Pair filtered export: %s", outputPath)

	// No matches
	options = ExportOptions{
		Format:     FormatCSV,
		PairFilter: "NOSUCHPAIR",
		OutputDir:  tempDir,
	}

	if _, err = exporter.ExportTrades(trades, options); err == nil {
		t.Error("Expected error when no trades match the filter")
	}
}

func TestExportSummaryCalculation(t *testing.T) {
	logger := zap.NewNop()
	exporter := NewTradeExporter(logger)

	now := time.Now()
	trades := []ledger.Trade{
		{
			PairAddress: "PAIRADDR1",
			ClosedAt:    now.Add(-1 * time.Hour),
			InvestUsd:   500,
			PnL:         21,
		},
		{
			PairAddress: "PAIRADDR2",
			ClosedAt:    now,
			InvestUsd:   500,
			PnL:         25,
		},
	}

	summary := exporter.calculateSummary(trades)

	if summary.TotalTrades != 2 {
		t.Errorf("Expected 2 total trades, got %d", summary.TotalTrades)
	}
	if summary.UniquePairs != 2 {
		t.Errorf("Expected 2 unique pairs, got %d", summary.UniquePairs)
	}
	if summary.TotalInvested != 1000 {
		t.Errorf("Expected total invested 1000, got %.2f", summary.TotalInvested)
	}
	if summary.TotalPnL != 46 {
		t.Errorf("Expected total PnL 46, got %.2f", summary.TotalPnL)
	}
	if summary.BestPnL != 25 {
		t.Errorf("Expected best PnL 25, got %.2f", summary.BestPnL)
	}
	if summary.AvgPnL != 23 {
		t.Errorf("Expected avg PnL 23, got %.2f", summary.AvgPnL)
	}

	t.Logf("Export summary: %+v", summary)
}

func TestFilenameGeneration(t *testing.T) {
	logger := zap.NewNop()
	exporter := NewTradeExporter(logger)

	tests := []struct {
		options  ExportOptions
		expected string
	}{
		{
			options: ExportOptions{
				Format: FormatCSV,
			},
			expected: "trades_all",
		},
		{
			options: ExportOptions{
				Format:     ExportFormat("json"),
				PairFilter: "PAIRADDR1234",
			},
			expected: "trades_PAIRADDR",
		},
	}

	for _, tt := range tests {
		filename := exporter.generateFilename(tt.options)
		if !strings.HasPrefix(filename, tt.expected) {
			t.Errorf("Expected filename to start with %s, got %s", tt.expected, filename)
		}

		expectedExt := "." + string(tt.options.Format)
		if !strings.HasSuffix(filename, expectedExt) {
			t.Errorf("Expected filename to end with %s, got %s", expectedExt, filename)
		}
	}
}

// Helper function to generate test trades
func generateTestTrades() []ledger.Trade {
	now := time.Now()
	return []ledger.Trade{
		{
			ID:          "trade1",
			PairAddress: "PAIRADDR1",
			PairName:    "WIF/SOL",
			OpenedAt:    now.Add(-1 * time.Hour),
			ClosedAt:    now.Add(-45 * time.Minute),
			EntryPrice:  0.0001,
			ExitPrice:   0.0001042,
			Coins:       5_000_000,
			InvestUsd:   500,
			PnL:         21,
			PnLPercent:  4.2,
			HoldTime:    "15m",
		},
		{
			ID:          "trade2",
			PairAddress: "PAIRADDR2",
			PairName:    "BONK/SOL",
			OpenedAt:    now.Add(-40 * time.Minute),
			ClosedAt:    now.Add(-5 * time.Minute),
			EntryPrice:  0.5,
			ExitPrice:   0.53,
			Coins:       1000,
			InvestUsd:   500,
			PnL:         30,
			PnLPercent:  6,
			HoldTime:    "35m",
		},
	}
}
