// Package cli provides the command-line interface for the dividend screener.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dividend-hunter/internal/cache"
	"dividend-hunter/internal/config"
	"dividend-hunter/internal/history"
	"dividend-hunter/internal/logging"
	"dividend-hunter/internal/metrics"
	"dividend-hunter/internal/pool"
	"dividend-hunter/internal/provider"
	"dividend-hunter/internal/refresh"
	"dividend-hunter/internal/service"
	"dividend-hunter/internal/store"
	"dividend-hunter/internal/universe"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Service *service.Service
	Pool    *pool.Pool
	Store   store.Store
}

// Close releases pooled workers and the persistence backend.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close store")
		}
	}
}

// NewApp wires the full application from configuration.
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	yahoo := provider.NewYahooProvider(provider.YahooConfig{
		BaseURL: cfg.Provider.BaseURL,
		Timeout: cfg.Provider.Timeout,
	})

	var dataStore store.Store
	var err error
	switch cfg.Data.Backend {
	case "sqlite":
		dataStore, err = store.NewSQLiteStore(cfg.Data.Dir + "/divhunter.db")
	default:
		dataStore, err = store.NewFileStore(cfg.Data.Dir)
	}
	if err != nil {
		return nil, err
	}

	tickers, err := universe.Load(cfg.Data.UniverseFile)
	if err != nil {
		return nil, err
	}

	workers := pool.New(cfg.Refresh.PoolSize)
	snapCache := cache.New(cfg.Refresh.SnapshotTTL)
	trends := history.New(cfg.Refresh.HistoryCap)
	builder := metrics.NewBuilder(yahoo, cfg.Refresh.DividendTail, logger)

	orchestrator := refresh.New(refresh.Config{
		Builder:    builder,
		Pool:       workers,
		Cache:      snapCache,
		Trends:     trends,
		Store:      dataStore,
		BatchSize:  cfg.Refresh.BatchSize,
		BatchPause: cfg.Refresh.BatchPause,
		Logger:     logging.WithComponent(logger, "refresh"),
	})

	svc := service.New(service.Config{
		Cache:        snapCache,
		Trends:       trends,
		Builder:      builder,
		Pool:         workers,
		Orchestrator: orchestrator,
		Store:        dataStore,
		Universe:     tickers,
		Logger:       logging.WithComponent(logger, "service"),
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Service: svc,
		Pool:    workers,
		Store:   dataStore,
	}, nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "divhunter",
		Short: "Dividend Hunter - S&P 500 dividend stock screener",
		Long: `Dividend Hunter screens the S&P 500 for dividend stocks and ranks them
by yield, dividend growth, payout safety and track record.

Data comes from Yahoo Finance and is cached locally for 24 hours.
Run 'divhunter refresh' first to populate the cache, then explore with
'divhunter list', 'divhunter top' and 'divhunter show <ticker>'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			// Commands read through the snapshot cache; hydrate it from disk
			// before any of them run.
			if err := app.Service.Warm(cmd.Context()); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to load persisted data")
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/divhunter)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRefreshCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newTopCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newTrendCmd(app))
	rootCmd.AddCommand(newSectorsCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Dividend Hunter v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Data")
	output.Printf("  Directory:       %s\n", cfg.Data.Dir)
	output.Printf("  Backend:         %s\n", cfg.Data.Backend)
	if cfg.Data.UniverseFile != "" {
		output.Printf("  Universe File:   %s\n", cfg.Data.UniverseFile)
	}
	output.Println()

	output.Bold("Refresh")
	output.Printf("  Batch Size:      %d\n", cfg.Refresh.BatchSize)
	output.Printf("  Batch Pause:     %s\n", cfg.Refresh.BatchPause)
	output.Printf("  Pool Size:       %d\n", cfg.Refresh.PoolSize)
	output.Printf("  Snapshot TTL:    %s\n", cfg.Refresh.SnapshotTTL)
	output.Printf("  History Cap:     %d\n", cfg.Refresh.HistoryCap)
	output.Printf("  Dividend Tail:   %d\n", cfg.Refresh.DividendTail)
	output.Println()

	output.Bold("Provider")
	output.Printf("  Base URL:        %s\n", cfg.Provider.BaseURL)
	output.Printf("  Timeout:         %s\n", cfg.Provider.Timeout)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Log.Level)
	output.Printf("  Console:         %v\n", cfg.Log.Console)
	output.Printf("  File:            %v\n", cfg.Log.File)
}
