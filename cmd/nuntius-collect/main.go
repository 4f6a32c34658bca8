package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/app"
	"github.com/ternarybob/nuntius/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	watch       = flag.Bool("watch", false, "Keep running and ingest on the configured cron schedule")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

// nuntius-collect runs the ingestion pipeline without the HTTP server:
// one pass by default, or on the configured schedule with -watch.
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("Nuntius version %s\n", common.GetVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("nuntius.toml"); err == nil {
			configFiles = append(configFiles, "nuntius.toml")
		} else if _, err := os.Stat("deployments/local/nuntius.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/nuntius.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// Collection only makes sense with ingestion on
	config.Ingest.Enabled = true

	if err := config.Validate(); err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	if *watch {
		runWatch(application, config, logger)
		return
	}

	runOnce(application, logger)
}

func runOnce(application *app.App, logger arbor.ILogger) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reports, err := application.IngestService.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Ingestion run failed")
		os.Exit(1)
	}

	for _, report := range reports {
		logger.Info().
			Str("source", report.Source).
			Int("discovered", report.Discovered).
			Int("stored", report.Stored).
			Int("duplicates", report.Duplicates).
			Int("empty", report.Empty).
			Int("failed", report.Failed).
			Dur("duration", report.Duration).
			Msg("Ingestion report")
	}
}

func runWatch(application *app.App, config *common.Config, logger arbor.ILogger) {
	if config.Ingest.Schedule == "" {
		logger.Fatal().Msg("-watch requires ingest.schedule to be configured")
		os.Exit(1)
	}

	if err := application.Scheduler.Start(config.Ingest.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start ingestion scheduler")
		os.Exit(1)
	}

	logger.Info().
		Str("schedule", config.Ingest.Schedule).
		Msg("Watching - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received")
	application.Scheduler.Stop()
}
