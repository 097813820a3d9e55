package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dnldd/stockchart/chart"
	"github.com/dnldd/stockchart/indicator"
	"github.com/dnldd/stockchart/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"golang.org/x/sync/errgroup"
)

// ChartConfig represents the configuration struct for the chart service.
type ChartConfig struct {
	// Tickers represents the charted tickers.
	Tickers []string
	// Period is the historical lookback range.
	Period shared.Period
	// MAWindows are the moving average windows to overlay.
	MAWindows []int
	// ShowVolume toggles the volume overlay on single ticker charts.
	ShowVolume bool
	// Compare enables comparison mode, charting all tickers on one figure.
	Compare bool
	// Normalize rebases compared series to a common starting value.
	Normalize bool
	// OutputDir is the directory rendered charts are written to.
	OutputDir string
	// NoOpen suppresses opening rendered charts in the browser.
	NoOpen bool
	// Fetcher is the historical market data source.
	Fetcher shared.HistoryFetcher
}

// Validate asserts the config sane inputs.
func (cfg *ChartConfig) Validate() error {
	var errs error

	if len(cfg.Tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no tickers provided for chart service"))
	}
	for _, ticker := range cfg.Tickers {
		if ticker == "" {
			errs = errors.Join(errs, fmt.Errorf("ticker cannot be an empty string"))
			break
		}
	}
	for _, window := range cfg.MAWindows {
		if window <= 0 {
			errs = errors.Join(errs, fmt.Errorf("moving average window %d must be positive", window))
		}
	}
	if cfg.OutputDir == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("history fetcher cannot be nil"))
	}

	return errs
}

// ChartService represents the stock charting pipeline.
type ChartService struct {
	cfg    *ChartConfig
	logger *zerolog.Logger
}

// NewChartService initializes a new chart service.
func NewChartService(cfg *ChartConfig) (*ChartService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating chart service config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	logger := log.With().Str("service", "stockchart").Logger()

	if !cfg.Period.Known() {
		logger.Warn().Msgf("period %q is not part of the provider's documented range vocabulary, "+
			"passing it through", cfg.Period.String())
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	return &ChartService{
		cfg:    cfg,
		logger: &logger,
	}, nil
}

// Run executes the charting pipeline, producing one comparison figure when
// comparison mode is active with at least two tickers, otherwise one figure
// per ticker.
func (s *ChartService) Run(ctx context.Context) error {
	if s.cfg.Compare {
		if len(s.cfg.Tickers) >= 2 {
			return s.chartComparison(ctx)
		}

		s.logger.Warn().Msg("comparison mode requires at least two tickers, charting individually")
	}

	for _, ticker := range s.cfg.Tickers {
		if err := s.chartSingle(ctx, ticker); err != nil {
			return fmt.Errorf("charting %s: %w", ticker, err)
		}
	}

	return nil
}

// chartSingle fetches, augments and charts a single ticker.
func (s *ChartService) chartSingle(ctx context.Context, ticker string) error {
	series, err := s.cfg.Fetcher.FetchSeries(ctx, ticker, s.cfg.Period)
	if err != nil {
		return fmt.Errorf("fetching series: %w", err)
	}

	if series.IsEmpty() {
		s.logger.Warn().Msgf("no data returned for %s over %s, chart will be empty",
			ticker, s.cfg.Period.String())
	}

	augmented, err := indicator.WithMovingAverages(series, s.cfg.MAWindows)
	if err != nil {
		return fmt.Errorf("deriving moving averages: %w", err)
	}

	fig := chart.RenderSingle(augmented, s.cfg.ShowVolume)

	return s.present(fig)
}

// chartComparison fetches all tickers concurrently and charts them on shared
// axes. Fetches write into index addressed slots so the rendered series order
// matches the requested ticker order.
func (s *ChartService) chartComparison(ctx context.Context) error {
	seriesList := make([]*shared.TimeSeries, len(s.cfg.Tickers))

	g, gctx := errgroup.WithContext(ctx)
	for idx, ticker := range s.cfg.Tickers {
		idx, ticker := idx, ticker
		g.Go(func() error {
			series, err := s.cfg.Fetcher.FetchSeries(gctx, ticker, s.cfg.Period)
			if err != nil {
				return fmt.Errorf("fetching series for %s: %w", ticker, err)
			}

			seriesList[idx] = series
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fig, err := chart.RenderComparison(seriesList, s.cfg.Normalize)
	if err != nil {
		return fmt.Errorf("rendering comparison: %w", err)
	}

	return s.present(fig)
}

// present saves the figure to the output directory and opens it in the
// browser unless suppressed.
func (s *ChartService) present(fig *chart.Figure) error {
	path := filepath.Join(s.cfg.OutputDir, figureFileName(fig.Title))
	if err := fig.Save(path); err != nil {
		return err
	}

	s.logger.Info().Msgf("chart saved to %s", path)

	if s.cfg.NoOpen {
		return nil
	}

	if err := chart.Open(path); err != nil {
		// A missing browser opener should not fail the run, the chart is
		// already on disk.
		s.logger.Warn().Msgf("opening chart: %v", err)
	}

	return nil
}

// figureFileName derives a unique html file name from the provided title.
func figureFileName(title string) string {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	return fmt.Sprintf("%s-%s.html", slug, uuid.New().String()[:8])
}
