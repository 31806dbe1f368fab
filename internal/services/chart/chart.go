// Package chart renders ratio comparison charts as PNG files.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/finratio/internal/domain"
	charts "github.com/vicanso/go-charts/v2"
	"go.uber.org/zap"
)

// ErrNoData marks a chart that cannot be drawn from the available data.
// Callers treat it as "chart not produced", not as a run failure.
var ErrNoData = errors.New("no data to draw chart")

const (
	lineChartFilename       = "current_ratio_comparison.png"
	radarChartFilename      = "debt_ratio_radar.png"
	compositionFilenameTmpl = "%s_balance_sheet_composition.png"

	lineChartWidth  = 1200
	lineChartHeight = 600
	radarChartSize  = 800
	pieChartSize    = 700

	periodFormat = "2006-01-02"
)

// Renderer draws analysis charts into its directory. Every render call
// returns the path of the written artifact; a wrapped ErrNoData means the
// chart was not produced and no file exists.
type Renderer struct {
	dir    string
	logger *zap.Logger
}

func NewRenderer(dir string, logger *zap.Logger) *Renderer {
	return &Renderer{dir: dir, logger: logger}
}

// CurrentRatioComparison draws one current ratio line per company. The
// x-axis is the union of all reporting periods, so companies on off-calendar
// fiscal years keep their own quarter ends; a company's line covers only the
// periods it reported and leaves gaps elsewhere.
func (r *Renderer) CurrentRatioComparison(tables []domain.RatioTable) (string, error) {
	if len(tables) == 0 {
		return "", errors.Wrap(ErrNoData, "no companies with computed ratios")
	}
	periods := allPeriods(tables)
	if len(periods) == 0 {
		return "", errors.Wrap(ErrNoData, "no reporting periods to draw")
	}

	labels := make([]string, 0, len(periods))
	for _, period := range periods {
		labels = append(labels, period.Format(periodFormat))
	}

	names := make([]string, 0, len(tables))
	values := make([][]float64, 0, len(tables))
	for _, table := range tables {
		series := make([]float64, 0, len(periods))
		for _, period := range periods {
			row, ok := table.Row(period)
			if !ok {
				series = append(series, charts.GetNullValue())
				continue
			}
			series = append(series, row.CurrentRatio)
		}
		names = append(names, table.Symbol)
		values = append(values, series)
	}

	painter, err := charts.LineRender(
		values,
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(lineChartWidth),
		charts.HeightOptionFunc(lineChartHeight),
		charts.TitleTextOptionFunc("Current Ratio Comparison"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(names, charts.PositionRight),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to render current ratio chart")
	}

	path := filepath.Join(r.dir, lineChartFilename)
	if err := r.writePNG(painter, path); err != nil {
		return "", err
	}

	r.logger.Info("chart written",
		zap.String("chart", "current_ratio_comparison"),
		zap.String("path", path),
		zap.Int("companies", len(tables)),
		zap.Int("periods", len(periods)))
	return path, nil
}

// RatioRadar draws all four ratios per company at the most recent period the
// companies share.
func (r *Renderer) RatioRadar(tables []domain.RatioTable) (string, error) {
	if len(tables) == 0 {
		return "", errors.Wrap(ErrNoData, "no companies with computed ratios")
	}
	periods := commonPeriods(tables)
	if len(periods) == 0 {
		return "", errors.Wrap(ErrNoData, "companies share no reporting periods")
	}
	latest := periods[len(periods)-1]

	categories := []string{"Debt to Assets", "Current Ratio", "Quick Ratio", "Equity Multiplier"}

	names := make([]string, 0, len(tables))
	values := make([][]float64, 0, len(tables))
	maxima := make([]float64, len(categories))
	for _, table := range tables {
		row, _ := table.Row(latest)
		series := []float64{row.DebtToAssets, row.CurrentRatio, row.QuickRatio, row.EquityMultiplier}
		for i, v := range series {
			if v > maxima[i] {
				maxima[i] = v
			}
		}
		names = append(names, table.Symbol)
		values = append(values, series)
	}
	// Headroom so the largest series does not touch the chart border.
	for i := range maxima {
		maxima[i] *= 1.2
		if maxima[i] <= 0 {
			maxima[i] = 1
		}
	}

	painter, err := charts.RadarRender(
		values,
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(radarChartSize),
		charts.HeightOptionFunc(radarChartSize),
		charts.TitleTextOptionFunc("Financial Ratios Radar Chart"),
		charts.LegendLabelsOptionFunc(names, charts.PositionLeft),
		charts.RadarIndicatorOptionFunc(categories, maxima),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to render ratio radar chart")
	}

	path := filepath.Join(r.dir, radarChartFilename)
	if err := r.writePNG(painter, path); err != nil {
		return "", err
	}

	r.logger.Info("chart written",
		zap.String("chart", "ratio_radar"),
		zap.String("path", path),
		zap.Int("companies", len(tables)),
		zap.String("period", latest.Format(periodFormat)))
	return path, nil
}

// compositionSlice is one pie slice of the balance sheet composition chart.
type compositionSlice struct {
	label string
	item  domain.LineItem
}

var (
	assetSlices = []compositionSlice{
		{label: "Current Assets", item: domain.ItemCurrentAssets},
		{label: "Non-current Assets", item: domain.ItemTotalNonCurrentAssets},
	}
	liabilityEquitySlices = []compositionSlice{
		{label: "Current Liabilities", item: domain.ItemCurrentLiabilities},
		{label: "Non-current Liabilities", item: domain.ItemTotalNonCurrentLiabilities},
		{label: "Shareholders' Equity", item: domain.ItemStockholdersEquity},
	}
)

// BalanceSheetComposition draws two pies for the company's latest quarter,
// assets on the left and liabilities plus equity on the right.
//
// A missing line item yields a MissingItemError naming what the source did
// provide. A non-positive slice value yields ErrNoData: such a pie would
// be misleading rather than informative.
func (r *Renderer) BalanceSheetComposition(sheet domain.BalanceSheet) (string, error) {
	latest, ok := sheet.Latest()
	if !ok {
		return "", errors.Wrapf(ErrNoData, "%s has no quarterly data", sheet.Symbol)
	}
	period := latest.EndDate.Format(periodFormat)

	for _, slices := range [][]compositionSlice{assetSlices, liabilityEquitySlices} {
		for _, slice := range slices {
			value := latest.Item(slice.item)
			if !value.Valid {
				return "", &domain.MissingItemError{
					Symbol:    sheet.Symbol,
					Item:      slice.item,
					Period:    latest.EndDate,
					Available: latest.Available(),
				}
			}
			if value.Float64 <= 0 {
				return "", errors.Wrapf(ErrNoData, "%s: non-positive %s (%.2f) for period %s",
					sheet.Symbol, slice.label, value.Float64, period)
			}
		}
	}

	leftTitle := fmt.Sprintf("%s Assets Composition", sheet.Symbol)
	left, err := renderPie(latest, assetSlices, leftTitle, period)
	if err != nil {
		return "", errors.Wrapf(err, "failed to render assets pie for %s", sheet.Symbol)
	}

	rightTitle := fmt.Sprintf("%s Liabilities and Equity Composition", sheet.Symbol)
	right, err := renderPie(latest, liabilityEquitySlices, rightTitle, period)
	if err != nil {
		return "", errors.Wrapf(err, "failed to render liabilities pie for %s", sheet.Symbol)
	}

	combined, err := compositeSideBySide(left, right)
	if err != nil {
		return "", errors.Wrapf(err, "failed to combine composition pies for %s", sheet.Symbol)
	}

	path := filepath.Join(r.dir, fmt.Sprintf(compositionFilenameTmpl, sheet.Symbol))
	if err := os.WriteFile(path, combined, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write chart %s", path)
	}

	r.logger.Info("chart written",
		zap.String("chart", "balance_sheet_composition"),
		zap.String("company", sheet.Symbol),
		zap.String("path", path),
		zap.String("period", period))
	return path, nil
}

func renderPie(statement domain.Statement, slices []compositionSlice, title, period string) ([]byte, error) {
	labels := make([]string, 0, len(slices))
	values := make([]float64, 0, len(slices))
	for _, slice := range slices {
		labels = append(labels, slice.label)
		values = append(values, statement.Item(slice.item).Float64)
	}

	painter, err := charts.PieRender(
		values,
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(pieChartSize),
		charts.HeightOptionFunc(pieChartSize),
		charts.TitleOptionFunc(charts.TitleOption{
			Text:    title,
			Subtext: period,
			Left:    charts.PositionCenter,
		}),
		charts.LegendLabelsOptionFunc(labels, charts.PositionLeft),
		charts.PieSeriesShowLabel(),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// compositeSideBySide joins two PNG images horizontally on a white canvas.
func compositeSideBySide(left, right []byte) ([]byte, error) {
	leftImg, err := png.Decode(bytes.NewReader(left))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode left pie")
	}
	rightImg, err := png.Decode(bytes.NewReader(right))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode right pie")
	}

	lb, rb := leftImg.Bounds(), rightImg.Bounds()
	height := lb.Dy()
	if rb.Dy() > height {
		height = rb.Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, lb.Dx()+rb.Dx(), height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, lb.Dx(), lb.Dy()), leftImg, lb.Min, draw.Over)
	draw.Draw(canvas, image.Rect(lb.Dx(), 0, lb.Dx()+rb.Dx(), rb.Dy()), rightImg, rb.Min, draw.Over)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, errors.Wrap(err, "failed to encode combined chart")
	}
	return out.Bytes(), nil
}

func (r *Renderer) writePNG(painter *charts.Painter, path string) error {
	buf, err := painter.Bytes()
	if err != nil {
		return errors.Wrap(err, "failed to encode chart")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write chart %s", path)
	}
	return nil
}

// allPeriods returns every reporting period present in any table, in
// chronological order.
func allPeriods(tables []domain.RatioTable) []time.Time {
	byKey := make(map[string]time.Time)
	for _, table := range tables {
		for _, row := range table.Rows {
			byKey[row.Period.Format(periodFormat)] = row.Period
		}
	}

	periods := make([]time.Time, 0, len(byKey))
	for _, at := range byKey {
		periods = append(periods, at)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// commonPeriods returns the reporting periods present in every table,
// in chronological order. A period repeated within one table counts once,
// so membership in the result guarantees a row in each table.
func commonPeriods(tables []domain.RatioTable) []time.Time {
	type periodCount struct {
		at    time.Time
		count int
	}

	counts := make(map[string]*periodCount)
	for _, table := range tables {
		seen := make(map[string]bool, len(table.Rows))
		for _, row := range table.Rows {
			key := row.Period.Format(periodFormat)
			if seen[key] {
				continue
			}
			seen[key] = true

			pc, ok := counts[key]
			if !ok {
				pc = &periodCount{at: row.Period}
				counts[key] = pc
			}
			pc.count++
		}
	}

	shared := make([]time.Time, 0, len(counts))
	for _, pc := range counts {
		if pc.count == len(tables) {
			shared = append(shared, pc.at)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].Before(shared[j]) })
	return shared
}
