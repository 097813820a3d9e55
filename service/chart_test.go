package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dnldd/stockchart/shared"
	"github.com/peterldowns/testy/assert"
)

// fakeFetcher serves canned series keyed by ticker. Comparison mode fetches
// concurrently, so the bookkeeping is guarded.
type fakeFetcher struct {
	series     map[string]*shared.TimeSeries
	fetchedMtx sync.Mutex
	fetched    []string
}

func (f *fakeFetcher) FetchSeries(_ context.Context, ticker string, _ shared.Period) (*shared.TimeSeries, error) {
	f.fetchedMtx.Lock()
	f.fetched = append(f.fetched, ticker)
	f.fetchedMtx.Unlock()

	series, ok := f.series[ticker]
	if !ok {
		return nil, fmt.Errorf("fetching %s: %w", ticker, shared.ErrNoData)
	}

	return series, nil
}

func makeSeries(ticker string, closes ...float64) *shared.TimeSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	series := shared.NewTimeSeries(ticker)
	series.Candles = make([]shared.Candlestick, len(closes))
	for idx := range closes {
		series.Candles[idx] = shared.Candlestick{
			Open:   closes[idx],
			High:   closes[idx] + 1,
			Low:    closes[idx] - 1,
			Close:  closes[idx],
			Volume: 300,
			Date:   start.AddDate(0, 0, idx),
		}
	}

	return series
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		series: map[string]*shared.TimeSeries{
			"AAA": makeSeries("AAA", 10, 11, 12, 13),
			"BBB": makeSeries("BBB", 200, 190, 210, 220),
		},
	}
}

func htmlFiles(t *testing.T, dir string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	assert.NoError(t, err)

	return matches
}

func TestChartConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ChartConfig
		wantErr []string
	}{
		{
			name: "valid config",
			cfg: ChartConfig{
				Tickers:   []string{"AAA", "BBB"},
				Period:    shared.OneYear,
				MAWindows: []int{20, 50},
				OutputDir: "charts",
				Fetcher:   &fakeFetcher{},
			},
			wantErr: nil,
		},
		{
			name: "missing tickers",
			cfg: ChartConfig{
				OutputDir: "charts",
				Fetcher:   &fakeFetcher{},
			},
			wantErr: []string{"no tickers provided for chart service"},
		},
		{
			name: "empty ticker",
			cfg: ChartConfig{
				Tickers:   []string{"AAA", ""},
				OutputDir: "charts",
				Fetcher:   &fakeFetcher{},
			},
			wantErr: []string{"ticker cannot be an empty string"},
		},
		{
			name: "non-positive window and missing fetcher",
			cfg: ChartConfig{
				Tickers:   []string{"AAA"},
				MAWindows: []int{0},
				OutputDir: "charts",
			},
			wantErr: []string{
				"moving average window 0 must be positive",
				"history fetcher cannot be nil",
			},
		},
		{
			name: "missing output directory",
			cfg: ChartConfig{
				Tickers: []string{"AAA"},
				Fetcher: &fakeFetcher{},
			},
			wantErr: []string{"output directory cannot be an empty string"},
		},
	}

	for _, test := range tests {
		err := test.cfg.Validate()
		if len(test.wantErr) == 0 {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}

		if err == nil {
			t.Errorf("%s: expected error, got nil", test.name)
			continue
		}

		for _, want := range test.wantErr {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("%s: expected error containing %q, got %v", test.name, want, err)
			}
		}
	}
}

func TestChartServiceRunSingle(t *testing.T) {
	fetcher := newFakeFetcher()
	outputDir := t.TempDir()

	svc, err := NewChartService(&ChartConfig{
		Tickers:   []string{"AAA", "BBB"},
		Period:    shared.OneYear,
		MAWindows: []int{2},
		OutputDir: outputDir,
		NoOpen:    true,
		Fetcher:   fetcher,
	})
	assert.NoError(t, err)

	// Ensure one figure is produced per ticker in independent mode.
	assert.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, fetcher.fetched, []string{"AAA", "BBB"})
	assert.Equal(t, len(htmlFiles(t, outputDir)), 2)

	// Ensure a provider failure terminates the run with an error.
	svc, err = NewChartService(&ChartConfig{
		Tickers:   []string{"MISSING"},
		Period:    shared.OneYear,
		OutputDir: outputDir,
		NoOpen:    true,
		Fetcher:   fetcher,
	})
	assert.NoError(t, err)
	assert.Error(t, svc.Run(context.Background()))
}

func TestChartServiceRunComparison(t *testing.T) {
	fetcher := newFakeFetcher()
	outputDir := t.TempDir()

	svc, err := NewChartService(&ChartConfig{
		Tickers:   []string{"AAA", "BBB"},
		Period:    shared.OneYear,
		Compare:   true,
		Normalize: true,
		OutputDir: outputDir,
		NoOpen:    true,
		Fetcher:   fetcher,
	})
	assert.NoError(t, err)

	// Ensure comparison mode produces a single figure for all tickers.
	assert.NoError(t, svc.Run(context.Background()))

	files := htmlFiles(t, outputDir)
	assert.Equal(t, len(files), 1)

	rendered, err := os.ReadFile(files[0])
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(rendered), "Normalized Stock Price Comparison"))
}

func TestChartServiceComparisonFallback(t *testing.T) {
	fetcher := newFakeFetcher()
	outputDir := t.TempDir()

	svc, err := NewChartService(&ChartConfig{
		Tickers:   []string{"AAA"},
		Period:    shared.OneYear,
		Compare:   true,
		Normalize: true,
		OutputDir: outputDir,
		NoOpen:    true,
		Fetcher:   fetcher,
	})
	assert.NoError(t, err)

	// Ensure comparison mode with a single ticker falls back to an
	// individual chart.
	assert.NoError(t, svc.Run(context.Background()))

	files := htmlFiles(t, outputDir)
	assert.Equal(t, len(files), 1)

	rendered, err := os.ReadFile(files[0])
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(rendered), "AAA Stock Price History"))
}
