package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/dnldd/stockchart/shared"
	"github.com/joho/godotenv"
)

// Config is the configuration struct for the charting tool.
type Config struct {
	// Tickers represents the charted ticker symbols.
	Tickers []string
	// Period is the historical lookback range.
	Period string
	// MovingAverages is the comma separated list of moving average windows.
	MovingAverages string
	// NoVolume suppresses the volume overlay.
	NoVolume bool
	// Compare enables comparison mode.
	Compare bool
	// NoNormalize plots raw prices in comparison mode.
	NoNormalize bool
	// Output is the directory rendered charts are written to.
	Output string
	// NoOpen suppresses opening rendered charts in the browser.
	NoOpen bool

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if len(cfg.Tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no tickers provided, expected a comma separated list"))
	}
	if cfg.Period == "" {
		errs = errors.Join(errs, fmt.Errorf("period cannot be an empty string"))
	}
	if cfg.Output == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}
	if _, err := cfg.ParseMovingAverages(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// ParseMovingAverages parses the configured moving average windows.
func (cfg *Config) ParseMovingAverages() ([]int, error) {
	if cfg.MovingAverages == "" {
		return nil, nil
	}

	fields := strings.Split(cfg.MovingAverages, ",")
	windows := make([]int, 0, len(fields))
	for _, field := range fields {
		window, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("parsing moving average window %q: %w", field, err)
		}
		if window <= 0 {
			return nil, fmt.Errorf("moving average window %d: %w", window, shared.ErrInvalidWindow)
		}

		windows = append(windows, window)
	}

	return windows, nil
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(fs *flag.FlagSet, name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		if defValue == "" {
			defValue = val.Elem().String()
		}
		fs.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		fs.BoolVar(value.(*bool), name, def, usage)
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line arguments.
func loadConfig(cfg *Config, path string, args []string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	fs := flag.NewFlagSet("stockchart", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: stockchart [flags] <tickers>\n\n"+
			"  <tickers> is a comma separated list of ticker symbols, eg. AAPL,MSFT\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	// Flag defaults, overridable by environment variables and flags.
	cfg.Period = shared.DefaultPeriod.String()
	cfg.Output = "charts"

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag(fs, "period", &cfg.Period, "the historical lookback range (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	if err != nil {
		return err
	}
	err = cfg.registerFlag(fs, "moving-averages", &cfg.MovingAverages, "comma separated moving average windows, eg. 20,50,200")
	if err != nil {
		return err
	}
	err = cfg.registerFlag(fs, "no-volume", &cfg.NoVolume, "suppress the volume overlay")
	if err != nil {
		return err
	}
	err = cfg.registerFlag(fs, "compare", &cfg.Compare, "chart all tickers on one comparison figure")
	if err != nil {
		return err
	}
	err = cfg.registerFlag(fs, "no-normalize", &cfg.NoNormalize, "plot raw prices instead of rebasing comparisons to 100")
	if err != nil {
		return err
	}
	err = cfg.registerFlag(fs, "output", &cfg.Output, "the directory rendered charts are written to")
	if err != nil {
		return err
	}
	err = cfg.registerFlag(fs, "no-open", &cfg.NoOpen, "do not open rendered charts in the browser")
	if err != nil {
		return err
	}

	// Parse command-line flags, the remaining positional argument is the
	// ticker list.
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() > 0 {
		cfg.Tickers = strings.Split(fs.Arg(0), ",")
		for idx := range cfg.Tickers {
			cfg.Tickers[idx] = strings.ToUpper(strings.TrimSpace(cfg.Tickers[idx]))
		}
	}

	return cfg.Validate()
}
