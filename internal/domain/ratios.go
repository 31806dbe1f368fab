package domain

import "time"

// Ratio names as they appear in chart legends and the report.
const (
	RatioCurrent          = "Current_Ratio"
	RatioQuick            = "Quick_Ratio"
	RatioDebtToAssets     = "Debt_to_Assets"
	RatioEquityMultiplier = "Equity_Multiplier"
)

// RatioRow holds the four derived ratios for one reporting period.
type RatioRow struct {
	// Period is the reporting period end.
	Period time.Time
	// CurrentRatio current assets over current liabilities.
	CurrentRatio float64
	// QuickRatio current assets less inventory over current liabilities.
	QuickRatio float64
	// DebtToAssets total liabilities over total assets.
	DebtToAssets float64
	// EquityMultiplier total assets over stockholders equity.
	EquityMultiplier float64
}

// RatioTable holds the derived ratios for one company, most recent
// period first, mirroring the fetched statement order.
type RatioTable struct {
	// Symbol company ticker symbol.
	Symbol string
	// Rows per-period ratios, most recent first.
	Rows []RatioRow
}

// Empty reports whether the table holds no periods.
func (t RatioTable) Empty() bool {
	return len(t.Rows) == 0
}

// Latest returns the most recent period's ratios.
func (t RatioTable) Latest() (RatioRow, bool) {
	if t.Empty() {
		return RatioRow{}, false
	}
	return t.Rows[0], true
}

// Row returns the ratios for the given period end.
func (t RatioTable) Row(period time.Time) (RatioRow, bool) {
	for _, row := range t.Rows {
		if row.Period.Equal(period) {
			return row, true
		}
	}
	return RatioRow{}, false
}

// Chronological returns a copy of the rows ordered oldest first.
func (t RatioTable) Chronological() []RatioRow {
	rows := make([]RatioRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[len(t.Rows)-1-i] = row
	}
	return rows
}
