package indicator

import (
	"fmt"
	"math"

	"github.com/dnldd/stockchart/shared"
)

// Column represents a derived moving average column of a series. Values holds
// one entry per candle, NaN marks rows with insufficient history.
type Column struct {
	Window int
	Values []float64
}

// Name returns the conventional column name for the provided window, eg. MA20.
func (c *Column) Name() string {
	return fmt.Sprintf("MA%d", c.Window)
}

// Valid reports whether the column has a defined value at the provided row.
func (c *Column) Valid(idx int) bool {
	return idx >= 0 && idx < len(c.Values) && !math.IsNaN(c.Values[idx])
}

// Series represents a time series augmented with moving average columns.
type Series struct {
	shared.TimeSeries
	Columns []Column
}

// WithMovingAverages derives trailing moving average columns over the closing
// prices of the provided series for each of the provided windows. The input
// series is never mutated, an augmented copy is returned. Requesting the same
// window twice overwrites the same column.
func WithMovingAverages(series *shared.TimeSeries, windows []int) (*Series, error) {
	for _, window := range windows {
		if window <= 0 {
			return nil, fmt.Errorf("window %d: %w", window, shared.ErrInvalidWindow)
		}
	}

	augmented := &Series{
		TimeSeries: *series.Clone(),
		Columns:    make([]Column, 0, len(windows)),
	}

	for _, window := range windows {
		column := movingAverage(augmented.Candles, window)

		replaced := false
		for idx := range augmented.Columns {
			if augmented.Columns[idx].Window == window {
				augmented.Columns[idx] = column
				replaced = true
				break
			}
		}

		if !replaced {
			augmented.Columns = append(augmented.Columns, column)
		}
	}

	return augmented, nil
}

// movingAverage computes the trailing mean of closing prices over the provided
// window using a rolling sum. Rows before the window-th candle are NaN. A
// window larger than the series yields an all-NaN column.
func movingAverage(candles []shared.Candlestick, window int) Column {
	values := make([]float64, len(candles))

	var sum float64
	for idx := range candles {
		sum += candles[idx].Close
		if idx >= window {
			sum -= candles[idx-window].Close
		}

		if idx >= window-1 {
			values[idx] = sum / float64(window)
		} else {
			values[idx] = math.NaN()
		}
	}

	return Column{
		Window: window,
		Values: values,
	}
}
