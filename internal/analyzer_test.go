package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/finratio/config"
	"github.com/vadiminshakov/finratio/internal/domain"
	"go.uber.org/zap"
)

type stubSource struct {
	sheets map[string]domain.BalanceSheet
	errs   map[string]error
}

func (s *stubSource) QuarterlyBalanceSheet(_ context.Context, symbol string) (domain.BalanceSheet, error) {
	if err, ok := s.errs[symbol]; ok {
		return domain.BalanceSheet{}, err
	}
	sheet, ok := s.sheets[symbol]
	if !ok {
		return domain.BalanceSheet{}, errors.Errorf("no quarterly balance sheet data for %s", symbol)
	}
	return sheet, nil
}

func fullStatement(end time.Time) domain.Statement {
	return domain.Statement{
		EndDate:                    end,
		CurrentAssets:              null.FloatFrom(130),
		CurrentLiabilities:         null.FloatFrom(65),
		Inventory:                  null.FloatFrom(10),
		TotalAssets:                null.FloatFrom(320),
		TotalLiabilities:           null.FloatFrom(160),
		StockholdersEquity:         null.FloatFrom(160),
		TotalNonCurrentAssets:      null.FloatFrom(190),
		TotalNonCurrentLiabilities: null.FloatFrom(95),
	}
}

func twoQuarterSheet(symbol string) domain.BalanceSheet {
	return domain.BalanceSheet{
		Symbol: symbol,
		Statements: []domain.Statement{
			fullStatement(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
			fullStatement(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func testConfig(output string) config.Config {
	return config.Config{
		Companies:       []string{"AAPL", "BAD", "MSFT"},
		Quarters:        8,
		Output:          output,
		HTTPTimeout:     time.Second,
		CurrentRatioMin: decimal.NewFromInt(2),
		DebtToAssetsMax: decimal.New(7, -1),
	}
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "expected PNG at %s", path)
}

func TestAnalyzerRunProducesAllArtifacts(t *testing.T) {
	output := filepath.Join(t.TempDir(), "output")
	source := &stubSource{
		sheets: map[string]domain.BalanceSheet{
			"AAPL": twoQuarterSheet("AAPL"),
			"MSFT": twoQuarterSheet("MSFT"),
		},
		errs: map[string]error{
			"BAD": errors.New("no quarterly balance sheet data for BAD"),
		},
	}

	analyzer, err := NewAnalyzer(testConfig(output), source, zap.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(output, "plots"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, analyzer.Run(context.Background()))

	reportData, err := os.ReadFile(filepath.Join(output, "financial_analysis_report.txt"))
	require.NoError(t, err)
	report := string(reportData)
	assert.Contains(t, report, "Financial Analysis Report")
	assert.Contains(t, report, "AAPL Company Analysis")
	assert.Contains(t, report, "MSFT Company Analysis")
	assert.NotContains(t, report, "BAD")

	requirePNG(t, filepath.Join(output, "plots", "current_ratio_comparison.png"))
	requirePNG(t, filepath.Join(output, "plots", "debt_ratio_radar.png"))
	requirePNG(t, filepath.Join(output, "plots", "AAPL_balance_sheet_composition.png"))
	requirePNG(t, filepath.Join(output, "plots", "MSFT_balance_sheet_composition.png"))
}

func TestAnalyzerRunWithNoAnalyzableCompanies(t *testing.T) {
	output := filepath.Join(t.TempDir(), "output")
	source := &stubSource{errs: map[string]error{
		"AAPL": errors.New("unavailable"),
		"BAD":  errors.New("unavailable"),
		"MSFT": errors.New("unavailable"),
	}}

	analyzer, err := NewAnalyzer(testConfig(output), source, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, analyzer.Run(context.Background()))

	reportData, err := os.ReadFile(filepath.Join(output, "financial_analysis_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reportData), "Financial Analysis Report")

	_, err = os.Stat(filepath.Join(output, "plots", "current_ratio_comparison.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(output, "plots", "debt_ratio_radar.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzerDrawsCompositionForRatioBrokenCompany(t *testing.T) {
	// Missing total liabilities blocks ratio computation but not the
	// composition pies, which never use that item.
	brokenStatement := fullStatement(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	brokenStatement.TotalLiabilities = null.Float{}

	output := filepath.Join(t.TempDir(), "output")
	source := &stubSource{sheets: map[string]domain.BalanceSheet{
		"AAPL": twoQuarterSheet("AAPL"),
		"NOTL": {Symbol: "NOTL", Statements: []domain.Statement{brokenStatement}},
	}}

	cfg := testConfig(output)
	cfg.Companies = []string{"AAPL", "NOTL"}

	analyzer, err := NewAnalyzer(cfg, source, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, analyzer.Run(context.Background()))

	reportData, err := os.ReadFile(filepath.Join(output, "financial_analysis_report.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(reportData), "NOTL Company Analysis")

	requirePNG(t, filepath.Join(output, "plots", "NOTL_balance_sheet_composition.png"))
}

func TestNewAnalyzerFailsWhenOutputPathIsFile(t *testing.T) {
	occupied := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(occupied, []byte("file"), 0o644))

	_, err := NewAnalyzer(testConfig(occupied), &stubSource{}, zap.NewNop())
	require.Error(t, err)
}
