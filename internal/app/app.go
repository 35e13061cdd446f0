// Package app wires configuration, the document store, the market data
// client, and the services into a single application core shared by the
// server binary and the tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bi-al1/stock-dashboard/internal/clients/yahoo"
	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/services/health"
	"github.com/bi-al1/stock-dashboard/internal/services/portfolio"
	"github.com/bi-al1/stock-dashboard/internal/services/report"
	"github.com/bi-al1/stock-dashboard/internal/services/watchlist"
	"github.com/bi-al1/stock-dashboard/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Store            interfaces.DocumentStore
	Market           interfaces.MarketDataClient
	WatchlistService interfaces.WatchlistService
	PortfolioService interfaces.PortfolioService
	HealthService    interfaces.HealthService
	ReportService    interfaces.ReportService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the store, clients, and services. configPath may be
// empty, in which case KABU_CONFIG and then the binary directory are tried.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("KABU_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "kabu.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/kabu.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve a relative file-store path against the binary directory so
	// the server is self-contained wherever it is launched from
	if config.Store.File.Path != "" && !filepath.IsAbs(config.Store.File.Path) {
		config.Store.File.Path = filepath.Join(binDir, config.Store.File.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewDocumentStore(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	market := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithSymbolSuffix(config.Clients.Yahoo.SymbolSuffix),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	paths := config.Store.Paths
	a := &App{
		Config:           config,
		Logger:           logger,
		Store:            store,
		Market:           market,
		WatchlistService: watchlist.NewService(store, market, paths.Watchlist, logger),
		PortfolioService: portfolio.NewService(store, market, paths.Portfolio, logger),
		HealthService:    health.NewService(store, market, paths.Portfolio, logger),
		ReportService:    report.NewService(store, paths, logger),
		StartupTime:      time.Now(),
	}

	logger.Info().
		Str("backend", config.Store.Backend).
		Str("environment", config.Environment).
		Msg("Application initialized")
	return a, nil
}
