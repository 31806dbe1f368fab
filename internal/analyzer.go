package internal

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/finratio/config"
	"github.com/vadiminshakov/finratio/internal/domain"
	"github.com/vadiminshakov/finratio/internal/services/chart"
	"github.com/vadiminshakov/finratio/internal/services/fetcher"
	"github.com/vadiminshakov/finratio/internal/services/ratios"
	"github.com/vadiminshakov/finratio/internal/services/report"
	"go.uber.org/zap"
)

const reportFilename = "financial_analysis_report.txt"

// Analyzer runs the full analysis pipeline: fetch balance sheets, compute
// ratios, render charts, write the report.
type Analyzer struct {
	Config   config.Config
	fetcher  *fetcher.Service
	ratios   *ratios.Service
	renderer *chart.Renderer
	reporter *report.Generator
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer and prepares its output directories.
func NewAnalyzer(conf config.Config, source fetcher.Source, logger *zap.Logger) (*Analyzer, error) {
	if err := os.MkdirAll(conf.PlotsDir(), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", conf.PlotsDir())
	}

	return &Analyzer{
		Config:   conf,
		fetcher:  fetcher.NewService(source, logger),
		ratios:   ratios.NewService(logger),
		renderer: chart.NewRenderer(conf.PlotsDir(), logger),
		reporter: report.NewGenerator(conf.CurrentRatioMin, conf.DebtToAssetsMax),
		logger:   logger,
	}, nil
}

// Run executes the pipeline. Companies and charts that cannot be produced
// are logged and skipped; only a failure to write the report is fatal.
func (a *Analyzer) Run(ctx context.Context) error {
	a.logger.Info("starting analysis",
		zap.Strings("companies", a.Config.Companies),
		zap.Int("quarters", a.Config.Quarters),
		zap.String("output", a.Config.Output))

	sheets := a.fetcher.FetchAll(ctx, a.Config.Companies)
	if len(sheets) == 0 {
		a.logger.Warn("no balance sheet data available for any company")
	}

	tables := a.ratios.CalculateAll(sheets)

	a.renderCharts(sheets, tables)

	reportPath := filepath.Join(a.Config.Output, reportFilename)
	if err := a.reporter.Write(tables, reportPath); err != nil {
		return errors.Wrap(err, "failed to write analysis report")
	}
	a.logger.Info("report written",
		zap.String("path", reportPath),
		zap.Int("companies", len(tables)))

	a.logger.Info("analysis complete", zap.String("output", a.Config.Output))
	return nil
}

func (a *Analyzer) renderCharts(sheets []domain.BalanceSheet, tables []domain.RatioTable) {
	if _, err := a.renderer.CurrentRatioComparison(tables); err != nil {
		a.logChartOutcome("current ratio comparison", err)
	}

	if _, err := a.renderer.RatioRadar(tables); err != nil {
		a.logChartOutcome("financial ratios radar", err)
	}

	for _, sheet := range sheets {
		if _, err := a.renderer.BalanceSheetComposition(sheet); err != nil {
			a.logChartOutcome(sheet.Symbol+" balance sheet composition", err)
		}
	}
}

// logChartOutcome distinguishes charts skipped for lack of data from real
// render failures. Neither aborts the run.
func (a *Analyzer) logChartOutcome(name string, err error) {
	if errors.Is(err, chart.ErrNoData) {
		a.logger.Info("chart not produced", zap.String("chart", name), zap.Error(err))
		return
	}
	a.logger.Error("failed to render chart", zap.String("chart", name), zap.Error(err))
}
