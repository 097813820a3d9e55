package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/dnldd/stockchart/indicator"
	"github.com/dnldd/stockchart/shared"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	// chartWidth is the rendered chart width.
	chartWidth = "1200px"
	// chartHeight is the rendered chart height.
	chartHeight = "600px"
	// maOpacity is the opacity of moving average overlays.
	maOpacity = 0.65
	// volumeOpacity is the opacity of the volume bars.
	volumeOpacity = 0.35
	// volumeColor is the fill color of the volume bars.
	volumeColor = "#b0c4de"
)

// newPriceLine creates a line chart with the shared axis, legend, tooltip and
// grid options applied.
func newPriceLine(title string, yAxisName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "30px",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Date",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  yAxisName,
			Scale: opts.Bool(true),
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
				LineStyle: &opts.LineStyle{
					Opacity: 0.3,
				},
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	return line
}

// lineData converts the provided values to chart points, mapping NaN rows to
// empty points so overlays start where enough history exists.
func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for idx := range values {
		if math.IsNaN(values[idx]) {
			data[idx] = opts.LineData{Value: "-"}
			continue
		}

		data[idx] = opts.LineData{Value: values[idx]}
	}

	return data
}

// RenderSingle renders a price history chart for a single ticker with its
// moving average overlays and an optional volume bar series on a secondary
// axis. A figure is always returned, an empty series yields an empty chart.
func RenderSingle(series *indicator.Series, showVolume bool) *Figure {
	title := fmt.Sprintf("%s Stock Price History", series.Ticker)
	line := newPriceLine(title, "Price ($)")

	line.SetXAxis(series.Dates()).
		AddSeries(fmt.Sprintf("%s Close", series.Ticker), lineData(series.Closes()),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))

	for idx := range series.Columns {
		column := series.Columns[idx]
		line.AddSeries(fmt.Sprintf("%d-day MA", column.Window), lineData(column.Values),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 1.5, Opacity: maOpacity}))
	}

	if showVolume {
		line.ExtendYAxis(opts.YAxis{
			Name: "Volume",
			Type: "value",
			Show: opts.Bool(true),
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		})

		volumes := make([]opts.BarData, len(series.Candles))
		for idx := range series.Candles {
			volumes[idx] = opts.BarData{Value: series.Candles[idx].Volume}
		}

		bar := charts.NewBar()
		bar.SetXAxis(series.Dates()).
			AddSeries("Volume", volumes,
				charts.WithBarChartOpts(opts.BarChart{YAxisIndex: 1}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: volumeColor, Opacity: volumeOpacity}))

		line.Overlap(bar)
	}

	return &Figure{
		Title: title,
		line:  line,
	}
}

// comparisonAxis merges the candle dates of the provided series into one
// ascending shared axis. The date layout sorts lexicographically in
// chronological order.
func comparisonAxis(seriesList []*shared.TimeSeries) []string {
	seen := make(map[string]bool)
	axis := make([]string, 0)
	for idx := range seriesList {
		for _, date := range seriesList[idx].Dates() {
			if !seen[date] {
				seen[date] = true
				axis = append(axis, date)
			}
		}
	}

	sort.Strings(axis)

	return axis
}

// alignedData places each value under its date on the shared axis, leaving an
// empty point wherever a series has no bar for an axis date.
func alignedData(dates []string, values []float64, axis []string) []opts.LineData {
	byDate := make(map[string]float64, len(dates))
	for idx := range dates {
		byDate[dates[idx]] = values[idx]
	}

	data := make([]opts.LineData, len(axis))
	for idx := range axis {
		value, ok := byDate[axis[idx]]
		if !ok {
			data[idx] = opts.LineData{Value: "-"}
			continue
		}

		data[idx] = opts.LineData{Value: value}
	}

	return data
}

// RenderComparison renders one line per ticker on shared axes, each series
// aligned by date on the merged axis of all series. With normalize set, each
// series is rebased so its first close equals 100; an empty series cannot be
// rebased and fails with an empty series error.
func RenderComparison(seriesList []*shared.TimeSeries, normalize bool) (*Figure, error) {
	title := "Stock Price Comparison"
	yAxisName := "Price ($)"
	if normalize {
		title = "Normalized Stock Price Comparison"
		yAxisName = "Normalized Price (%)"
	}

	line := newPriceLine(title, yAxisName)
	axis := comparisonAxis(seriesList)
	line.SetXAxis(axis)

	for idx := range seriesList {
		series := seriesList[idx]

		closes := series.Closes()
		if normalize {
			var err error
			closes, err = Normalize(series)
			if err != nil {
				return nil, err
			}
		}

		line.AddSeries(series.Ticker, alignedData(series.Dates(), closes, axis),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	}

	return &Figure{
		Title: title,
		line:  line,
	}, nil
}
