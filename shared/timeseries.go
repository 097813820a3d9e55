package shared

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the format layout for chart axis dates.
	DateLayout = "2006-01-02"
)

// Candlestick represents a unit of daily market data for a ticker.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time
}

// TimeSeries represents an ordered historical price series for a ticker.
// Candle dates are strictly increasing.
type TimeSeries struct {
	Ticker  string
	Candles []Candlestick
}

// NewTimeSeries initializes an empty time series for the provided ticker.
func NewTimeSeries(ticker string) *TimeSeries {
	return &TimeSeries{
		Ticker: ticker,
	}
}

// Validate asserts the series has strictly increasing candle dates.
func (s *TimeSeries) Validate() error {
	for idx := 1; idx < len(s.Candles); idx++ {
		prev := s.Candles[idx-1].Date
		curr := s.Candles[idx].Date
		if !curr.After(prev) {
			return fmt.Errorf("series %s: candle dates not strictly increasing at index %d (%s -> %s)",
				s.Ticker, idx, prev.Format(DateLayout), curr.Format(DateLayout))
		}
	}

	return nil
}

// IsEmpty reports whether the series has no candles.
func (s *TimeSeries) IsEmpty() bool {
	return len(s.Candles) == 0
}

// Closes returns the closing prices of the series in order.
func (s *TimeSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for idx := range s.Candles {
		closes[idx] = s.Candles[idx].Close
	}

	return closes
}

// Dates returns the candle dates of the series formatted for chart axes.
func (s *TimeSeries) Dates() []string {
	dates := make([]string, len(s.Candles))
	for idx := range s.Candles {
		dates[idx] = s.Candles[idx].Date.Format(DateLayout)
	}

	return dates
}

// Clone returns an independent copy of the series.
func (s *TimeSeries) Clone() *TimeSeries {
	candles := make([]Candlestick, len(s.Candles))
	copy(candles, s.Candles)

	return &TimeSeries{
		Ticker:  s.Ticker,
		Candles: candles,
	}
}
