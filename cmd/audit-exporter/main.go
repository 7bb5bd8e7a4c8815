// audit-exporter runs one export of cloud.gov audit events: it logs in
// with the cf CLI, fetches events for the trailing window, and writes
// the raw and processed CSV files. It exits 0 only when both files are
// written and the raw file is verified on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cloud-gov/audit-exporter/config"
	"github.com/cloud-gov/audit-exporter/internal/observability"
	"github.com/cloud-gov/audit-exporter/services/cloudfoundry"
	"github.com/cloud-gov/audit-exporter/services/export"
	"github.com/cloud-gov/audit-exporter/services/pipeline"
)

func main() {
	cleanupOnly := flag.Bool("cleanup", false, "delete *.csv from the export directory and exit 0")
	windowDays := flag.Int("window", 0, "override EXPORT_WINDOW_DAYS for this run")
	flag.Parse()

	if *cleanupOnly {
		// Cleanup is a best-effort side channel invoked after artifact
		// handoff; it never signals failure to the scheduler.
		runCleanup()
		return
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit-exporter: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Environment, cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit-exporter: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *windowDays > 0 {
		cfg.Export.WindowDays = *windowDays
	}

	client := cloudfoundry.NewClient(
		cloudfoundry.NewExecRunner(cfg.CF.CLIPath),
		cloudfoundry.Config{
			APIEndpoint:    cfg.CF.APIEndpoint,
			PageSize:       cfg.Export.PageSize,
			MaxPages:       cfg.Export.MaxPages,
			CommandTimeout: cfg.CF.CommandTimeout,
		},
		logger,
	)
	writer := export.NewWriter(cfg.Export.Dir, logger)

	service := pipeline.NewService(client, client, writer, pipeline.Config{
		Credentials: cloudfoundry.Credentials{
			Username: cfg.CF.Username,
			Password: cfg.CF.Password,
		},
		ExportDir:  cfg.Export.Dir,
		WindowDays: cfg.Export.WindowDays,
		Transform:  export.KeepActions(cfg.Export.ProcessedActions),
	}, logger)

	result, err := service.Run(context.Background())
	if err != nil {
		logger.Error("export failed",
			zap.String("state", string(result.State)),
			zap.Error(err))
		os.Exit(1)
	}

	logger.Info("audit logs exported",
		zap.String("raw", result.RawPath),
		zap.String("processed", result.ProcessedPath),
		zap.Int("events", result.EventCount))
}

func runCleanup() {
	dir := os.Getenv("EXPORT_DIR")
	if dir == "" {
		dir = "exports"
	}

	logger, err := observability.NewLogger(os.Getenv("ENVIRONMENT"), "info", "json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit-exporter: failed to initialize logger: %v\n", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	if _, err := export.CleanupCSV(dir, logger); err != nil {
		logger.Warn("cleanup finished with errors", zap.Error(err))
	}
}
