// Package fetcher retrieves quarterly balance sheets for a set of companies,
// skipping companies the data source cannot serve.
package fetcher

import (
	"context"

	"github.com/vadiminshakov/finratio/internal/domain"
	"go.uber.org/zap"
)

// Source provides quarterly balance sheet data for a single company.
type Source interface {
	QuarterlyBalanceSheet(ctx context.Context, symbol string) (domain.BalanceSheet, error)
}

// Service fetches balance sheets for many companies from a Source.
type Service struct {
	source Source
	logger *zap.Logger
}

func NewService(source Source, logger *zap.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// FetchAll fetches a balance sheet per symbol, preserving input order.
// A company whose data is unavailable is logged and skipped; it never
// fails the whole run.
func (s *Service) FetchAll(ctx context.Context, symbols []string) []domain.BalanceSheet {
	sheets := make([]domain.BalanceSheet, 0, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("balance sheet fetch canceled", zap.Error(err))
			return sheets
		}

		sheet, err := s.source.QuarterlyBalanceSheet(ctx, symbol)
		if err != nil {
			s.logger.Warn("balance sheet unavailable, skipping company",
				zap.String("company", symbol),
				zap.Error(err))
			continue
		}
		if sheet.Empty() {
			s.logger.Warn("no quarterly data returned, skipping company",
				zap.String("company", symbol))
			continue
		}

		latest, _ := sheet.Latest()
		s.logger.Info("fetched balance sheet",
			zap.String("company", sheet.Symbol),
			zap.Int("quarters", len(sheet.Statements)),
			zap.String("latest_period", latest.EndDate.Format("2006-01-02")),
			zap.String("available_items", domain.JoinItems(latest.Available())))

		sheets = append(sheets, sheet)
	}

	return sheets
}
