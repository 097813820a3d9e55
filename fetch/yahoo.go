package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dnldd/stockchart/shared"
	"github.com/tidwall/gjson"
)

const (
	// defaultBaseURL is the Yahoo Finance chart api base url.
	defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	// userAgent is sent with every request, the api rejects clients without one.
	userAgent = "Mozilla/5.0"
	// dailyInterval is the candle interval for daily historical data.
	dailyInterval = "1d"
)

// YahooConfig represents the configuration for the Yahoo Finance client.
type YahooConfig struct {
	// BaseURL is the chart api base url.
	BaseURL string
}

// YahooClient represents the Yahoo Finance chart api client. It is safe for
// concurrent use, comparison mode fetches all tickers at once.
type YahooClient struct {
	cfg   *YahooConfig
	httpc http.Client
}

// Ensure the YahooClient implements the HistoryFetcher interface.
var _ shared.HistoryFetcher = (*YahooClient)(nil)

// NewYahooClient instantiates a new Yahoo Finance client.
func NewYahooClient(cfg *YahooConfig) *YahooClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &YahooClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 30},
	}
}

// formURL creates full urls including parameters for the api.
func (c *YahooClient) formURL(path string, params string) string {
	var buf strings.Builder
	buf.Grow(len(c.cfg.BaseURL) + len(path) + len(params) + 1)
	buf.WriteString(c.cfg.BaseURL)
	buf.WriteString(path)
	buf.WriteString("?")
	buf.WriteString(params)

	return buf.String()
}

// FetchDailyHistory fetches daily historical market data for the provided
// ticker over the provided period.
func (c *YahooClient) FetchDailyHistory(ctx context.Context, ticker string, period shared.Period) (*gjson.Result, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker cannot be an empty string")
	}

	params := url.Values{}
	params.Add("interval", dailyInterval)
	params.Add("range", period.String())

	formedURL := c.formURL("/"+url.PathEscape(ticker), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", ticker, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching daily history (%s) for %s: %w", period.String(), ticker, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	data := gjson.ParseBytes(body)
	if apiErr := data.Get("chart.error"); apiErr.Exists() && apiErr.Type != gjson.Null {
		return nil, fmt.Errorf("fetching daily history for %s: provider error: %s",
			ticker, apiErr.Get("description").String())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching daily history for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	return &data, nil
}

// ParseSeries parses a validated time series from the provided chart api data.
//
// The api returns columnar arrays keyed by timestamp. Bars with no quote data
// (holidays, halts) are skipped.
func (c *YahooClient) ParseSeries(data *gjson.Result, ticker string) (*shared.TimeSeries, error) {
	result := data.Get("chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("parsing series for %s: %w", ticker, shared.ErrNoData)
	}

	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	if len(opens) < len(timestamps) || len(highs) < len(timestamps) || len(lows) < len(timestamps) ||
		len(closes) < len(timestamps) || len(volumes) < len(timestamps) {
		return nil, fmt.Errorf("parsing series for %s: quote columns shorter than timestamps", ticker)
	}

	series := shared.NewTimeSeries(ticker)
	series.Candles = make([]shared.Candlestick, 0, len(timestamps))

	for idx := range timestamps {
		if closes[idx].Type == gjson.Null {
			continue
		}

		candle := shared.Candlestick{
			Open:   opens[idx].Float(),
			High:   highs[idx].Float(),
			Low:    lows[idx].Float(),
			Close:  closes[idx].Float(),
			Volume: volumes[idx].Float(),
			Date:   time.Unix(timestamps[idx].Int(), 0).UTC(),
		}

		series.Candles = append(series.Candles, candle)
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("parsing series for %s: %w", ticker, err)
	}

	return series, nil
}

// FetchSeries fetches and parses the daily historical price series for the
// provided ticker over the provided period.
func (c *YahooClient) FetchSeries(ctx context.Context, ticker string, period shared.Period) (*shared.TimeSeries, error) {
	data, err := c.FetchDailyHistory(ctx, ticker, period)
	if err != nil {
		return nil, err
	}

	return c.ParseSeries(data, ticker)
}
