package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entryladder/entryladder/internal/model"
	"github.com/entryladder/entryladder/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion cycle and exit",
	Long:  "Fetch all sources once, classify, persist entry-level postings, and print run counters.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and classify but do not persist anything")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var st model.PostingStore
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		st = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		st = sqlStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := buildPipeline(cfg, st, logger).Run(ctx)
	if err != nil {
		logger.Error("ingestion run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("done",
		"fetched", stats.Fetched,
		"filtered", stats.Filtered,
		"saved", stats.Saved,
		"duplicates", stats.Duplicates,
	)
	return nil
}
