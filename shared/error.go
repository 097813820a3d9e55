package shared

import "errors"

var (
	// ErrEmptySeries is returned when an operation requires at least one candle.
	ErrEmptySeries = errors.New("series has no candles")
	// ErrNoData is returned when the provider has no data for a ticker and period.
	ErrNoData = errors.New("no data returned")
	// ErrInvalidWindow is returned for non-positive moving average windows.
	ErrInvalidWindow = errors.New("moving average window must be positive")
)
