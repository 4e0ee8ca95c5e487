package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/mmcdole/iplay/internal/catalog"
	"github.com/mmcdole/iplay/internal/config"
	"github.com/mmcdole/iplay/internal/emby"
	"github.com/mmcdole/iplay/internal/engine"
	"github.com/mmcdole/iplay/internal/log"
	"github.com/mmcdole/iplay/internal/metrics"
	"github.com/mmcdole/iplay/internal/store"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configPath string
	jsonOutput bool
)

// app holds everything a command needs; built once per invocation
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	kv          *store.Store
	connector   *emby.Connector
	engine      *engine.Engine
	stopMetrics context.CancelFunc
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "iplay",
	Short: "Emby client: sessions, catalog, playback info",
	Long: `iplay - command-line client for Emby media servers

Log in to one or more servers, switch between them, and browse
albums, actors and media from the active one.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return current.close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/iplay/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("iplay {{.Version}}\n")
}

func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting iplay", "version", Version, "command", cmd.Name())

	kv, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	connector := emby.NewConnector(
		emby.WithIdentity(emby.Identity{
			Client:   cfg.Client.Name,
			Device:   cfg.Client.Device,
			DeviceID: cfg.Client.DeviceID,
			Version:  cfg.Client.Version,
			Language: cfg.Client.Language,
		}),
		emby.WithTimeout(cfg.Sync.RequestTimeout),
		emby.WithMaxRetries(cfg.Sync.MaxRetries),
		emby.WithLogger(logger),
	)

	eng := engine.New(kv, connector, catalog.Config{
		MaxStreamingBitrate: cfg.Video.MaxStreamingBitrate,
		LatestConcurrency:   cfg.Sync.LatestConcurrency,
	}, logger)

	a := &app{cfg: cfg, logger: logger, kv: kv, connector: connector, engine: eng}

	if cfg.Metrics.Addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopMetrics = cancel
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	if _, err := eng.Restore(cmd.Context()); err != nil {
		logger.Warn("restore failed", "error", err)
	}

	current = a
	return nil
}

func (a *app) close() error {
	if a == nil {
		return nil
	}
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
	if err := a.engine.Close(); err != nil {
		a.logger.Warn("engine close failed", "error", err)
	}
	return a.kv.Close()
}

// printJSON writes v as indented JSON to stdout
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
