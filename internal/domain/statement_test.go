package domain

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullStatement(end time.Time) Statement {
	return Statement{
		EndDate:                    end,
		CurrentAssets:              null.FloatFrom(200),
		CurrentLiabilities:         null.FloatFrom(100),
		Inventory:                  null.FloatFrom(10),
		TotalAssets:                null.FloatFrom(1000),
		TotalLiabilities:           null.FloatFrom(750),
		StockholdersEquity:         null.FloatFrom(250),
		TotalNonCurrentAssets:      null.FloatFrom(800),
		TotalNonCurrentLiabilities: null.FloatFrom(650),
	}
}

func TestStatement_Available(t *testing.T) {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		statement Statement
		expected  []LineItem
	}{
		{
			name:      "all items reported",
			statement: fullStatement(end),
			expected:  AllLineItems,
		},
		{
			name: "inventory absent",
			statement: Statement{
				EndDate:            end,
				CurrentAssets:      null.FloatFrom(200),
				CurrentLiabilities: null.FloatFrom(100),
				TotalAssets:        null.FloatFrom(1000),
			},
			expected: []LineItem{ItemCurrentAssets, ItemCurrentLiabilities, ItemTotalAssets},
		},
		{
			name:      "nothing reported",
			statement: Statement{EndDate: end},
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.statement.Available())
		})
	}
}

func TestStatement_Item(t *testing.T) {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	s := fullStatement(end)

	got := s.Item(ItemTotalLiabilities)
	require.True(t, got.Valid)
	assert.Equal(t, 750.0, got.Float64)

	assert.False(t, s.Item(LineItem("No Such Item")).Valid)
}

func TestStatement_Empty(t *testing.T) {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	assert.True(t, Statement{EndDate: end}.Empty())
	assert.False(t, fullStatement(end).Empty())
}

func TestBalanceSheet_Latest(t *testing.T) {
	newest := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	bs := BalanceSheet{
		Symbol:     "AAPL",
		Statements: []Statement{fullStatement(newest), fullStatement(older)},
	}

	latest, ok := bs.Latest()
	require.True(t, ok)
	assert.Equal(t, newest, latest.EndDate)

	_, ok = BalanceSheet{Symbol: "MSFT"}.Latest()
	assert.False(t, ok)
}

func TestDegenerateRatioError_NamesRatioAndItem(t *testing.T) {
	err := &DegenerateRatioError{
		Symbol: "X",
		Ratio:  RatioCurrent,
		Item:   ItemCurrentLiabilities,
		Period: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	msg := err.Error()
	assert.Contains(t, msg, "X")
	assert.Contains(t, msg, "Current_Ratio")
	assert.Contains(t, msg, `"Current Liabilities"`)
	assert.Contains(t, msg, "2025-06-30")
}

func TestMissingItemError_ListsAvailableItems(t *testing.T) {
	err := &MissingItemError{
		Symbol: "GOOGL",
		Item:   ItemStockholdersEquity,
		Period: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Available: []LineItem{
			ItemCurrentAssets,
			ItemTotalAssets,
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "GOOGL")
	assert.Contains(t, msg, `"Stockholders Equity"`)
	assert.Contains(t, msg, "2025-06-30")
	assert.Contains(t, msg, "Current Assets, Total Assets")
}
