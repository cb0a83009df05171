package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonathan/look-composer/internal/assembly"
	"github.com/jonathan/look-composer/internal/config"
	"github.com/jonathan/look-composer/internal/fetch"
	"github.com/jonathan/look-composer/internal/jobstore"
	"github.com/jonathan/look-composer/internal/sources"
)

// defaultRetailers are enabled when configuration names none.
var defaultRetailers = []string{"zalando", "asos"}

// newLogger builds the process logger. Verbose mode switches to
// human-readable console output at debug level.
func newLogger(verbose bool) zerolog.Logger {
	if verbose {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

// buildAdapters wires the product sources from configuration, in retailer
// priority order: structured retailers first, then web search, then the
// affiliate API.
func buildAdapters(cfg config.Config, logger zerolog.Logger) []sources.Adapter {
	retailers := cfg.Retailers
	if len(retailers) == 0 {
		retailers = defaultRetailers
	}

	var adapters []sources.Adapter
	for _, name := range retailers {
		adapter := sources.NewStructuredPageAdapter(name, fetch.PlatformByName(name), logger)
		adapter.UseBrowser = cfg.UseBrowser
		adapters = append(adapters, adapter)
	}

	if cfg.WebSearch {
		adapters = append(adapters, sources.NewWebQueryAdapter(logger))
	}

	if cfg.AwinAPIToken != "" && cfg.AwinPublisherID != "" {
		adapters = append(adapters, sources.NewAwinAdapter(sources.AwinConfig{
			APIToken:    cfg.AwinAPIToken,
			PublisherID: cfg.AwinPublisherID,
		}, logger))
	}

	return adapters
}

// buildWorker assembles the worker with configured budgets over the default
// ones.
func buildWorker(cfg config.Config, store jobstore.Store, logger zerolog.Logger) *assembly.Worker {
	w := assembly.NewWorker(buildAdapters(cfg, logger), store, logger)

	defaults := assembly.DefaultBudgets()
	w.Budgets = assembly.Budgets{
		PerRetailer: cfg.RetailerTimeout(defaults.PerRetailer),
		PerSlot:     cfg.SlotTimeout(defaults.PerSlot),
		Global:      cfg.GlobalTimeout(defaults.Global),
	}
	return w
}

// openStore returns the configured job store and a close func. An empty
// database URL selects the in-memory store.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (jobstore.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Debug().Msg("no database configured, using in-memory store")
		return jobstore.NewMemoryStore(), func() {}, nil
	}

	pg, err := jobstore.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// loadEngineConfig layers environment values under an optional config file.
func loadEngineConfig(configPath string) (config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
