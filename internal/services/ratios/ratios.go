// Package ratios computes liquidity and solvency ratios from quarterly
// balance sheets.
package ratios

import (
	"math"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/finratio/internal/domain"
	"go.uber.org/zap"
)

// requiredItems must be present in every period for the company to be
// analyzable. Inventory is deliberately absent: companies without inventory
// (banks, software) report none, and the quick ratio treats it as zero.
var requiredItems = []domain.LineItem{
	domain.ItemCurrentAssets,
	domain.ItemCurrentLiabilities,
	domain.ItemTotalAssets,
	domain.ItemTotalLiabilities,
	domain.ItemStockholdersEquity,
}

// Calculate computes the four ratios for every period of one company.
// The returned rows keep the sheet's order, most recent period first.
//
// A single unusable period disqualifies the whole company: partially
// computed histories would silently skew trends and chart comparisons.
func Calculate(sheet domain.BalanceSheet) (domain.RatioTable, error) {
	if sheet.Empty() {
		return domain.RatioTable{}, errors.Errorf("%s: no quarterly data to compute ratios from", sheet.Symbol)
	}

	rows := make([]domain.RatioRow, 0, len(sheet.Statements))
	for _, statement := range sheet.Statements {
		for _, item := range requiredItems {
			if !statement.Item(item).Valid {
				return domain.RatioTable{}, &domain.MissingItemError{
					Symbol:    sheet.Symbol,
					Item:      item,
					Period:    statement.EndDate,
					Available: statement.Available(),
				}
			}
		}

		currentAssets := statement.CurrentAssets.Float64
		currentLiabilities := statement.CurrentLiabilities.Float64
		totalAssets := statement.TotalAssets.Float64
		totalLiabilities := statement.TotalLiabilities.Float64
		equity := statement.StockholdersEquity.Float64
		inventory := statement.Inventory.ValueOrZero()

		if currentLiabilities == 0 {
			return domain.RatioTable{}, &domain.DegenerateRatioError{
				Symbol: sheet.Symbol,
				Ratio:  domain.RatioCurrent,
				Item:   domain.ItemCurrentLiabilities,
				Period: statement.EndDate,
			}
		}
		if totalAssets == 0 {
			return domain.RatioTable{}, &domain.DegenerateRatioError{
				Symbol: sheet.Symbol,
				Ratio:  domain.RatioDebtToAssets,
				Item:   domain.ItemTotalAssets,
				Period: statement.EndDate,
			}
		}
		if equity == 0 {
			return domain.RatioTable{}, &domain.DegenerateRatioError{
				Symbol: sheet.Symbol,
				Ratio:  domain.RatioEquityMultiplier,
				Item:   domain.ItemStockholdersEquity,
				Period: statement.EndDate,
			}
		}

		row := domain.RatioRow{
			Period:           statement.EndDate,
			CurrentRatio:     currentAssets / currentLiabilities,
			QuickRatio:       (currentAssets - inventory) / currentLiabilities,
			DebtToAssets:     totalLiabilities / totalAssets,
			EquityMultiplier: totalAssets / equity,
		}

		// Extreme magnitudes overflow the division even with a non-zero
		// denominator; downstream formatting requires finite ratios.
		for _, check := range []struct {
			ratio string
			value float64
			item  domain.LineItem
		}{
			{domain.RatioCurrent, row.CurrentRatio, domain.ItemCurrentLiabilities},
			{domain.RatioQuick, row.QuickRatio, domain.ItemCurrentLiabilities},
			{domain.RatioDebtToAssets, row.DebtToAssets, domain.ItemTotalAssets},
			{domain.RatioEquityMultiplier, row.EquityMultiplier, domain.ItemStockholdersEquity},
		} {
			if math.IsInf(check.value, 0) || math.IsNaN(check.value) {
				return domain.RatioTable{}, &domain.DegenerateRatioError{
					Symbol: sheet.Symbol,
					Ratio:  check.ratio,
					Item:   check.item,
					Period: statement.EndDate,
				}
			}
		}

		rows = append(rows, row)
	}

	return domain.RatioTable{Symbol: sheet.Symbol, Rows: rows}, nil
}

// Service computes ratios for many companies, skipping the unanalyzable ones.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// CalculateAll computes a ratio table per sheet, preserving input order.
// Companies with incomplete data are logged and skipped.
func (s *Service) CalculateAll(sheets []domain.BalanceSheet) []domain.RatioTable {
	tables := make([]domain.RatioTable, 0, len(sheets))
	for _, sheet := range sheets {
		table, err := Calculate(sheet)
		if err != nil {
			s.logger.Warn("cannot compute ratios, skipping company",
				zap.String("company", sheet.Symbol),
				zap.Error(err))
			continue
		}

		s.logger.Info("computed ratios",
			zap.String("company", table.Symbol),
			zap.Int("periods", len(table.Rows)))
		tables = append(tables, table)
	}

	return tables
}
