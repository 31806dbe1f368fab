// Package domain defines core data structures used throughout the analyzer.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// LineItem is a balance sheet row label as reported by the data source.
type LineItem string

const (
	ItemCurrentAssets              LineItem = "Current Assets"
	ItemCurrentLiabilities         LineItem = "Current Liabilities"
	ItemInventory                  LineItem = "Inventory"
	ItemTotalAssets                LineItem = "Total Assets"
	ItemTotalLiabilities           LineItem = "Total Liabilities Net Minority Interest"
	ItemStockholdersEquity         LineItem = "Stockholders Equity"
	ItemTotalNonCurrentAssets      LineItem = "Total Non Current Assets"
	ItemTotalNonCurrentLiabilities LineItem = "Total Non Current Liabilities Net Minority Interest"
)

// AllLineItems lists every line item the pipeline requests from the source.
var AllLineItems = []LineItem{
	ItemCurrentAssets,
	ItemCurrentLiabilities,
	ItemInventory,
	ItemTotalAssets,
	ItemTotalLiabilities,
	ItemStockholdersEquity,
	ItemTotalNonCurrentAssets,
	ItemTotalNonCurrentLiabilities,
}

// Statement is a single quarterly balance sheet snapshot. A line item the
// source did not report is invalid, never silently zero.
type Statement struct {
	// EndDate is the reporting period end.
	EndDate time.Time
	// CurrentAssets total current assets.
	CurrentAssets null.Float
	// CurrentLiabilities total current liabilities.
	CurrentLiabilities null.Float
	// Inventory inventory value, absent for many companies.
	Inventory null.Float
	// TotalAssets total assets.
	TotalAssets null.Float
	// TotalLiabilities total liabilities net of minority interest.
	TotalLiabilities null.Float
	// StockholdersEquity stockholders equity.
	StockholdersEquity null.Float
	// TotalNonCurrentAssets total non-current assets.
	TotalNonCurrentAssets null.Float
	// TotalNonCurrentLiabilities total non-current liabilities net of minority interest.
	TotalNonCurrentLiabilities null.Float
}

// Item returns the value reported for the given line item.
func (s Statement) Item(item LineItem) null.Float {
	switch item {
	case ItemCurrentAssets:
		return s.CurrentAssets
	case ItemCurrentLiabilities:
		return s.CurrentLiabilities
	case ItemInventory:
		return s.Inventory
	case ItemTotalAssets:
		return s.TotalAssets
	case ItemTotalLiabilities:
		return s.TotalLiabilities
	case ItemStockholdersEquity:
		return s.StockholdersEquity
	case ItemTotalNonCurrentAssets:
		return s.TotalNonCurrentAssets
	case ItemTotalNonCurrentLiabilities:
		return s.TotalNonCurrentLiabilities
	default:
		return null.NewFloat(0, false)
	}
}

// Available returns the line items the source actually reported for this
// statement, in canonical order. Used for skip diagnostics.
func (s Statement) Available() []LineItem {
	var items []LineItem
	for _, item := range AllLineItems {
		if s.Item(item).Valid {
			items = append(items, item)
		}
	}
	return items
}

// Empty reports whether the source reported no line items at all.
func (s Statement) Empty() bool {
	return len(s.Available()) == 0
}

// BalanceSheet holds the fetched quarterly statements for one company,
// most recent period first. It is populated once and read-only afterwards.
type BalanceSheet struct {
	// Symbol company ticker symbol.
	Symbol string
	// Statements quarterly snapshots, most recent first.
	Statements []Statement
}

// Empty reports whether the source returned no statements.
func (b BalanceSheet) Empty() bool {
	return len(b.Statements) == 0
}

// Latest returns the most recent statement.
func (b BalanceSheet) Latest() (Statement, bool) {
	if b.Empty() {
		return Statement{}, false
	}
	return b.Statements[0], true
}

// JoinItems renders a line item list for diagnostics.
func JoinItems(items []LineItem) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = string(item)
	}
	return strings.Join(names, ", ")
}

// MissingItemError reports a required line item the source did not provide.
type MissingItemError struct {
	Symbol    string
	Item      LineItem
	Period    time.Time
	Available []LineItem
}

func (e *MissingItemError) Error() string {
	return fmt.Sprintf("%s: required line item %q missing for period %s, available items: %s",
		e.Symbol, string(e.Item), e.Period.Format("2006-01-02"), JoinItems(e.Available))
}

// DegenerateRatioError reports a ratio with no finite value: a zero
// denominator, or a quotient that overflows the float division.
// It is handled exactly like a missing line item: skip and log.
type DegenerateRatioError struct {
	Symbol string
	Ratio  string
	Item   LineItem
	Period time.Time
}

func (e *DegenerateRatioError) Error() string {
	return fmt.Sprintf("%s: %s has no finite value for period %s, check %q",
		e.Symbol, e.Ratio, e.Period.Format("2006-01-02"), string(e.Item))
}
