package chart

import (
	"fmt"

	"github.com/dnldd/stockchart/shared"
)

// normalizedBase is the rebased value of the first observation of a
// normalized series.
const normalizedBase = 100

// Normalize rebases the closing prices of the provided series so the first
// observation equals 100, enabling relative performance comparisons across
// tickers with different absolute prices.
func Normalize(series *shared.TimeSeries) ([]float64, error) {
	if series.IsEmpty() {
		return nil, fmt.Errorf("normalizing %s: %w", series.Ticker, shared.ErrEmptySeries)
	}

	base := series.Candles[0].Close
	if base == 0 {
		return nil, fmt.Errorf("normalizing %s: first close is zero", series.Ticker)
	}

	normalized := make([]float64, len(series.Candles))
	for idx := range series.Candles {
		normalized[idx] = series.Candles[idx].Close / base * normalizedBase
	}

	return normalized, nil
}
