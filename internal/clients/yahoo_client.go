package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/finratio/internal/domain"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 30 * time.Second

	// quarterLookbackMonths is the extra window requested beyond the wanted
	// quarters, since the source pads ranges with unreported periods.
	quarterLookbackMonths = 3
)

// timeseriesTypes maps balance sheet line items to the fundamentals-timeseries
// type keys the source expects. Requests list them in AllLineItems order.
var timeseriesTypes = map[domain.LineItem]string{
	domain.ItemCurrentAssets:              "quarterlyCurrentAssets",
	domain.ItemCurrentLiabilities:         "quarterlyCurrentLiabilities",
	domain.ItemInventory:                  "quarterlyInventory",
	domain.ItemTotalAssets:                "quarterlyTotalAssets",
	domain.ItemTotalLiabilities:           "quarterlyTotalLiabilitiesNetMinorityInterest",
	domain.ItemStockholdersEquity:         "quarterlyStockholdersEquity",
	domain.ItemTotalNonCurrentAssets:      "quarterlyTotalNonCurrentAssets",
	domain.ItemTotalNonCurrentLiabilities: "quarterlyTotalNonCurrentLiabilitiesNetMinorityInterest",
}

// YahooClient fetches quarterly balance sheets from the Yahoo Finance
// fundamentals-timeseries API.
type YahooClient struct {
	baseURL    string
	quarters   int
	httpClient *http.Client
}

// NewYahooClient creates a client that returns up to quarters most recent
// quarterly snapshots per company.
func NewYahooClient(quarters int, timeout time.Duration) *YahooClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &YahooClient{
		baseURL:  defaultBaseURL,
		quarters: quarters,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// timeseriesResponse mirrors the fundamentals-timeseries payload. Every
// result entry carries exactly one of the per-type period arrays.
type timeseriesResponse struct {
	Timeseries struct {
		Result []timeseriesResult `json:"result"`
		Error  *yahooError        `json:"error"`
	} `json:"timeseries"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type timeseriesResult struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
	Timestamp                           []int64           `json:"timestamp"`
	QuarterlyCurrentAssets              []*reportedPeriod `json:"quarterlyCurrentAssets"`
	QuarterlyCurrentLiabilities         []*reportedPeriod `json:"quarterlyCurrentLiabilities"`
	QuarterlyInventory                  []*reportedPeriod `json:"quarterlyInventory"`
	QuarterlyTotalAssets                []*reportedPeriod `json:"quarterlyTotalAssets"`
	QuarterlyTotalLiabilities           []*reportedPeriod `json:"quarterlyTotalLiabilitiesNetMinorityInterest"`
	QuarterlyStockholdersEquity         []*reportedPeriod `json:"quarterlyStockholdersEquity"`
	QuarterlyTotalNonCurrentAssets      []*reportedPeriod `json:"quarterlyTotalNonCurrentAssets"`
	QuarterlyTotalNonCurrentLiabilities []*reportedPeriod `json:"quarterlyTotalNonCurrentLiabilitiesNetMinorityInterest"`
}

// reportedPeriod is one quarterly observation. The source pads ranges with
// JSON nulls, hence the pointer slices above.
type reportedPeriod struct {
	AsOfDate      string         `json:"asOfDate"`
	PeriodType    string         `json:"periodType"`
	CurrencyCode  string         `json:"currencyCode"`
	ReportedValue *reportedValue `json:"reportedValue"`
}

type reportedValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// QuarterlyBalanceSheet fetches the most recent quarterly snapshots for the
// given ticker symbol, most recent first. Periods for which the source
// reported no line item at all are dropped at this boundary.
func (c *YahooClient) QuarterlyBalanceSheet(ctx context.Context, symbol string) (domain.BalanceSheet, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return domain.BalanceSheet{}, errors.New("empty company symbol")
	}

	types := make([]string, 0, len(domain.AllLineItems))
	for _, item := range domain.AllLineItems {
		types = append(types, timeseriesTypes[item])
	}

	now := time.Now()
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("type", strings.Join(types, ","))
	query.Set("period1", fmt.Sprintf("%d", now.AddDate(0, -quarterLookbackMonths*(c.quarters+1), 0).Unix()))
	query.Set("period2", fmt.Sprintf("%d", now.Unix()))

	addr := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		c.baseURL, symbol, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return domain.BalanceSheet{}, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BalanceSheet{}, errors.Wrapf(err, "failed to fetch balance sheet for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.BalanceSheet{}, errors.Errorf("yahoo finance returned status %d for %s", resp.StatusCode, symbol)
	}

	var decoded timeseriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.BalanceSheet{}, errors.Wrapf(err, "failed to decode balance sheet response for %s", symbol)
	}
	if apiErr := decoded.Timeseries.Error; apiErr != nil {
		return domain.BalanceSheet{}, errors.Errorf("yahoo finance error for %s: %s %s", symbol, apiErr.Code, apiErr.Description)
	}
	if len(decoded.Timeseries.Result) == 0 {
		return domain.BalanceSheet{}, errors.Errorf("no quarterly balance sheet data for %s", symbol)
	}

	byPeriod := make(map[string]*domain.Statement)
	for _, result := range decoded.Timeseries.Result {
		applyPeriods(byPeriod, result.QuarterlyCurrentAssets, func(s *domain.Statement, v float64) { s.CurrentAssets = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyCurrentLiabilities, func(s *domain.Statement, v float64) { s.CurrentLiabilities = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyInventory, func(s *domain.Statement, v float64) { s.Inventory = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyTotalAssets, func(s *domain.Statement, v float64) { s.TotalAssets = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyTotalLiabilities, func(s *domain.Statement, v float64) { s.TotalLiabilities = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyStockholdersEquity, func(s *domain.Statement, v float64) { s.StockholdersEquity = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyTotalNonCurrentAssets, func(s *domain.Statement, v float64) { s.TotalNonCurrentAssets = null.FloatFrom(v) })
		applyPeriods(byPeriod, result.QuarterlyTotalNonCurrentLiabilities, func(s *domain.Statement, v float64) { s.TotalNonCurrentLiabilities = null.FloatFrom(v) })
	}
	if len(byPeriod) == 0 {
		return domain.BalanceSheet{}, errors.Errorf("no quarterly balance sheet data for %s", symbol)
	}

	dates := make([]string, 0, len(byPeriod))
	for date := range byPeriod {
		dates = append(dates, date)
	}
	// ISO dates, so lexical descending order is most recent first.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if c.quarters > 0 && len(dates) > c.quarters {
		dates = dates[:c.quarters]
	}

	statements := make([]domain.Statement, 0, len(dates))
	for _, date := range dates {
		end, err := time.Parse("2006-01-02", date)
		if err != nil {
			return domain.BalanceSheet{}, errors.Wrapf(err, "malformed period date %q for %s", date, symbol)
		}
		statement := *byPeriod[date]
		statement.EndDate = end
		statements = append(statements, statement)
	}

	return domain.BalanceSheet{Symbol: symbol, Statements: statements}, nil
}

// applyPeriods folds one per-type period array into the per-date statements.
func applyPeriods(byPeriod map[string]*domain.Statement, periods []*reportedPeriod, set func(*domain.Statement, float64)) {
	for _, period := range periods {
		if period == nil || period.ReportedValue == nil || period.AsOfDate == "" {
			continue
		}
		statement, ok := byPeriod[period.AsOfDate]
		if !ok {
			statement = &domain.Statement{}
			byPeriod[period.AsOfDate] = statement
		}
		set(statement, period.ReportedValue.Raw)
	}
}
