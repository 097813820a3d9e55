package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dnldd/stockchart/fetch"
	"github.com/dnldd/stockchart/service"
	"github.com/dnldd/stockchart/shared"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "", os.Args[1:])
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	windows, err := cfg.ParseMovingAverages()
	if err != nil {
		log.Fatalf("parsing moving averages: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chartCfg := service.ChartConfig{
		Tickers:    cfg.Tickers,
		Period:     shared.Period(cfg.Period),
		MAWindows:  windows,
		ShowVolume: !cfg.NoVolume,
		Compare:    cfg.Compare,
		Normalize:  !cfg.NoNormalize,
		OutputDir:  cfg.Output,
		NoOpen:     cfg.NoOpen,
		Fetcher:    fetch.NewYahooClient(&fetch.YahooConfig{}),
	}
	svc, err := service.NewChartService(&chartCfg)
	if err != nil {
		log.Fatalf("creating chart service: %v", err)
	}

	go handleTermination(ctx, cancel)

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("charting: %v", err)
	}
}
