package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/pricedesk/internal/clients/eodhd"
	"github.com/bobmcallan/pricedesk/internal/clients/yahoo"
	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/services/fetch"
	"github.com/bobmcallan/pricedesk/internal/services/policy"
	"github.com/bobmcallan/pricedesk/internal/services/quote"
	"github.com/bobmcallan/pricedesk/internal/services/registry"
	"github.com/bobmcallan/pricedesk/internal/services/returns"
	"github.com/bobmcallan/pricedesk/internal/services/snapshot"
	"github.com/bobmcallan/pricedesk/internal/storage"
)

// App holds all initialized services, clients, and stores.
// It is the shared core used by both cmd/pricedesk-server and cmd/pricedesk.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Yahoo       *yahoo.Client
	EODHD       *eodhd.Client // nil without an API key
	Fetcher     *fetch.Fetcher
	Resolver    *policy.Resolver
	Baselines   interfaces.BaselineStore
	Quotes      *quote.Service
	Registry    *registry.Registry
	Snapshots   *snapshot.Service
	Recorder    interfaces.SnapshotRecorder
	StartupTime time.Time

	scheduler *cron.Cron
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolvePath keeps absolute paths and paths that exist relative to the
// working directory; anything else is placed beside the binary.
func resolvePath(binDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(binDir, path)
}

// LoadConfig resolves the config file: the given path, PRICEDESK_CONFIG,
// pricedesk.toml beside the binary, then config/pricedesk.toml.
func LoadConfig(configPath string) (*common.Config, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("PRICEDESK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "pricedesk.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/pricedesk.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Backend != storage.BackendSurrealDB {
		config.Storage.Path = resolvePath(binDir, config.Storage.Path)
	}
	config.Registry.Path = resolvePath(binDir, config.Registry.Path)
	config.Scheduler.RecordPath = resolvePath(binDir, config.Scheduler.RecordPath)
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}
	return config, nil
}

// NewApp loads configuration and initializes everything. configPath may be
// empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig wires clients, the tier chain, stores and services.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	ctx := context.Background()

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithBatchSize(config.Clients.Yahoo.BatchSize),
	)

	var eodhdClient *eodhd.Client
	if config.Clients.EODHD.APIKey != "" {
		eodhdClient = eodhd.NewClient(config.Clients.EODHD.APIKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("EODHD API key not configured - eodhd tier and quote fallback disabled")
	}

	fetcher, err := newFetcher(config, yahooClient, eodhdClient, logger)
	if err != nil {
		return nil, err
	}

	resolver := policy.NewResolver(policy.Config{
		PriceReturn:   config.Returns.PriceReturn,
		ExtraSuffixes: config.Policy.PreHolidaySuffixes,
		ExtraRegions:  config.Policy.PreHolidayRegions,
	})

	var fallback interfaces.LiveQuoteSource
	if eodhdClient != nil {
		fallback = eodhdClient
	}
	quotes := quote.NewService(yahooClient, fallback, logger)

	reg, err := loadRegistry(config.Registry.Path, logger)
	if err != nil {
		return nil, err
	}

	baselines, err := storage.NewBaselineStore(ctx, config.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize baseline store: %w", err)
	}

	recorder, err := storage.NewSnapshotRecorder(config.Scheduler.RecordPath, logger)
	if err != nil {
		baselines.Close()
		return nil, fmt.Errorf("failed to initialize snapshot recorder: %w", err)
	}

	snapshots := snapshot.NewService(fetcher, resolver, baselines, quotes, returns.Options{
		GraceDays:       config.Returns.GraceDays,
		ManualBaselines: config.Returns.ManualBaselines,
		LivePrice:       config.Returns.LivePrice,
	}, logger, snapshot.WithLocation(config.Returns.Location()))

	a := &App{
		Config:      config,
		Logger:      logger,
		Yahoo:       yahooClient,
		EODHD:       eodhdClient,
		Fetcher:     fetcher,
		Resolver:    resolver,
		Baselines:   baselines,
		Quotes:      quotes,
		Registry:    reg,
		Snapshots:   snapshots,
		Recorder:    recorder,
		StartupTime: startupStart,
	}

	logger.Info().
		Strs("tiers", fetcher.TierNames()).
		Int("instruments", reg.Len()).
		Str("storage", config.Storage.Backend).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newFetcher builds the configured tier chain. Tiers whose client is not
// configured are skipped with a warning.
func newFetcher(config *common.Config, yahooClient *yahoo.Client, eodhdClient *eodhd.Client, logger *common.Logger) (*fetch.Fetcher, error) {
	catalog := fetch.Catalog{
		Batch: map[string]interfaces.BatchBarSource{
			fetch.TierYahooBatch: yahooClient.Batch(),
		},
		Single: map[string]interfaces.BarSource{
			fetch.TierYahoo:         yahooClient,
			fetch.TierYahooLookback: fetch.NewLookbackSource(yahooClient, fetch.TierYahooLookback, config.Fetch.LookbackYears),
		},
	}
	if eodhdClient != nil {
		catalog.Single[fetch.TierEODHD] = eodhdClient
	}

	names := make([]string, 0, len(config.Fetch.Tiers))
	for _, name := range config.Fetch.Tiers {
		if name == fetch.TierEODHD && eodhdClient == nil {
			logger.Warn().Str("tier", name).Msg("Skipping tier without credentials")
			continue
		}
		names = append(names, name)
	}

	batch, tiers, err := catalog.Chain(names)
	if err != nil {
		return nil, fmt.Errorf("invalid fetch tiers: %w", err)
	}

	return fetch.NewFetcher(batch, tiers, logger,
		fetch.WithTierTimeout(config.Fetch.GetTierTimeout()),
		fetch.WithMaxConcurrency(config.Fetch.MaxConcurrency),
	), nil
}

// loadRegistry reads the instrument list. A missing file yields an empty
// registry so requests must name their symbols.
func loadRegistry(path string, logger *common.Logger) (*registry.Registry, error) {
	if path == "" {
		return registry.New(nil), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn().Str("path", path).Msg("Instrument registry not found - starting empty")
		return registry.New(nil), nil
	}
	reg, err := registry.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load instrument registry: %w", err)
	}
	return reg, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, close recorder, close baseline store.
func (a *App) Close() {
	a.StopScheduler()
	if a.Recorder != nil {
		if err := a.Recorder.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close snapshot recorder")
		}
		a.Recorder = nil
	}
	if a.Baselines != nil {
		if err := a.Baselines.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close baseline store")
		}
		a.Baselines = nil
	}
}
