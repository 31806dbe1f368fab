// Package report renders the plain-text financial analysis report.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/finratio/internal/domain"
)

const (
	sectionRule = 50
	companyRule = 30

	generatedFormat = "2006-01-02 15:04:05"
	dateFormat      = "2006-01-02"
)

// Generator renders analysis reports. Identical ratio tables and an identical
// clock reading produce a byte-identical document.
type Generator struct {
	now             func() time.Time
	currentRatioMin decimal.Decimal
	debtToAssetsMax decimal.Decimal
}

// NewGenerator creates a report generator with the given recommendation
// thresholds: current ratios below currentRatioMin and debt-to-assets ratios
// above debtToAssetsMax trigger warnings.
func NewGenerator(currentRatioMin, debtToAssetsMax decimal.Decimal) *Generator {
	return &Generator{
		now:             time.Now,
		currentRatioMin: currentRatioMin,
		debtToAssetsMax: debtToAssetsMax,
	}
}

// Generate renders the report for the given companies, in input order.
func (g *Generator) Generate(tables []domain.RatioTable) string {
	var b strings.Builder

	b.WriteString("Financial Analysis Report\n")
	b.WriteString(strings.Repeat("=", sectionRule) + "\n\n")
	fmt.Fprintf(&b, "Report Generated: %s\n\n", g.now().Format(generatedFormat))

	for _, table := range tables {
		latest, ok := table.Latest()
		if !ok {
			continue
		}

		fmt.Fprintf(&b, "%s Company Analysis\n", table.Symbol)
		b.WriteString(strings.Repeat("-", companyRule) + "\n")
		fmt.Fprintf(&b, "Analysis Date: %s\n\n", latest.Period.Format(dateFormat))

		b.WriteString("Key Financial Ratios:\n")
		fmt.Fprintf(&b, "1. Current Ratio: %.2f\n", latest.CurrentRatio)
		b.WriteString("   - Measures short-term liquidity, 2:1 is generally considered reasonable\n")
		fmt.Fprintf(&b, "2. Quick Ratio: %.2f\n", latest.QuickRatio)
		b.WriteString("   - Measures immediate liquidity, 1:1 is generally considered reasonable\n")
		fmt.Fprintf(&b, "3. Debt to Assets Ratio: %.2f%%\n", latest.DebtToAssets*100)
		b.WriteString("   - Measures long-term solvency, below 70% is generally considered safe\n")
		fmt.Fprintf(&b, "4. Equity Multiplier: %.2f\n", latest.EquityMultiplier)
		b.WriteString("   - Measures financial leverage, higher values indicate higher leverage\n\n")

		b.WriteString("Trend Analysis:\n")
		chronological := table.Chronological()
		if len(chronological) < 2 {
			b.WriteString("Unable to calculate trends: insufficient history\n")
		} else {
			writeTrendLine(&b, domain.RatioCurrent, chronological, func(r domain.RatioRow) float64 { return r.CurrentRatio })
			writeTrendLine(&b, domain.RatioDebtToAssets, chronological, func(r domain.RatioRow) float64 { return r.DebtToAssets })
		}
		b.WriteString("\n")

		b.WriteString("Recommendations:\n")
		if decimal.NewFromFloat(latest.CurrentRatio).LessThan(g.currentRatioMin) {
			b.WriteString("- Monitor short-term liquidity position\n")
		}
		if decimal.NewFromFloat(latest.DebtToAssets).GreaterThan(g.debtToAssetsMax) {
			b.WriteString("- High debt ratio, monitor long-term solvency risk\n")
		}

		b.WriteString("\n" + strings.Repeat("=", sectionRule) + "\n\n")
	}

	return b.String()
}

// Write renders the report and writes it to path.
func (g *Generator) Write(tables []domain.RatioTable, path string) error {
	if err := os.WriteFile(path, []byte(g.Generate(tables)), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write report %s", path)
	}
	return nil
}

func writeTrendLine(b *strings.Builder, name string, rows []domain.RatioRow, value func(domain.RatioRow) float64) {
	change, ok := meanChange(rows, value)
	if !ok {
		fmt.Fprintf(b, "%s Average Change Rate: unavailable (zero base value)\n", name)
		return
	}
	fmt.Fprintf(b, "%s Average Change Rate: %.2f%%\n", name, change*100)
}

// meanChange averages the period-over-period relative changes of a ratio over
// chronologically ordered rows. Pairs whose base value is zero are excluded;
// ok is false when no pair is usable.
func meanChange(rows []domain.RatioRow, value func(domain.RatioRow) float64) (float64, bool) {
	var sum float64
	var pairs int
	for i := 1; i < len(rows); i++ {
		base := value(rows[i-1])
		if base == 0 {
			continue
		}
		sum += (value(rows[i]) - base) / base
		pairs++
	}
	if pairs == 0 {
		return 0, false
	}
	return sum / float64(pairs), true
}
