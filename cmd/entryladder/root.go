package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/entryladder/entryladder/internal/classify"
	"github.com/entryladder/entryladder/internal/config"
	"github.com/entryladder/entryladder/internal/lang"
	"github.com/entryladder/entryladder/internal/merge"
	"github.com/entryladder/entryladder/internal/model"
	"github.com/entryladder/entryladder/internal/pipeline"
	"github.com/entryladder/entryladder/internal/retry"
	"github.com/entryladder/entryladder/internal/source"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "entryladder",
	Short: "Entry-level job radar: multi-source ingestion and classification",
	Long:  "entryladder pulls postings from several job boards, deduplicates them, and keeps the ones that look entry-level.",
	// Default to `start` so that `entryladder` with no args runs the daemon.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: ENTRYLADDER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > ENTRYLADDER_CONFIG env var > "./config.yaml".
// A missing implicit config file falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("ENTRYLADDER_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildPipeline wires the three source fetchers, the collector, and the
// classifier around the given store.
func buildPipeline(cfg *config.Config, st model.PostingStore, logger *slog.Logger) *pipeline.Pipeline {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	policy := retry.Policy{
		MaxAttempts:    cfg.Fetch.MaxAttempts,
		InitialBackoff: cfg.Fetch.InitialBackoff,
	}

	fetchers := []model.SourceFetcher{
		source.NewArbeitnowFetcher(cfg.Sources.Arbeitnow.URL, cfg.Sources.Arbeitnow.Pages, httpClient, policy, logger),
		source.NewRemotiveFetcher(cfg.Sources.Remotive.URL, httpClient, policy, logger),
		source.NewMuseFetcher(cfg.Sources.TheMuse.URL, httpClient, policy, logger),
	}

	collector := merge.NewCollector(fetchers, logger)
	classifier := classify.NewClassifier(lang.NewDetector(), logger)
	return pipeline.New(collector, classifier, st, logger)
}
