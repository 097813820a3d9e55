package shared

import (
	"context"
)

// HistoryFetcher defines the requirements for fetching historical market data.
type HistoryFetcher interface {
	// FetchSeries fetches the daily historical price series for the provided
	// ticker over the provided period.
	FetchSeries(ctx context.Context, ticker string, period Period) (*TimeSeries, error)
}
