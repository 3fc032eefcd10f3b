package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/entryladder/entryladder/internal/browse"
	"github.com/entryladder/entryladder/internal/classify"
	"github.com/entryladder/entryladder/internal/lang"
	"github.com/entryladder/entryladder/internal/store"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse saved entry-level postings",
	Long:  "Open an interactive browser over the most recently posted saved postings.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseLimit, "limit", 100, "maximum number of postings to load")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	postings, err := sqlStore.ListRecent(context.Background(), browseLimit)
	if err != nil {
		logger.Error("failed to load postings", "error", err)
		os.Exit(1)
	}

	// The store does not persist classifications; rebuild them so the
	// detail view can show the provenance.
	classify.NewClassifier(lang.NewDetector(), logger).Annotate(postings)

	return browse.Run(postings)
}
