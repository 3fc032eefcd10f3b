// Package pipeline owns one full ingestion run:
// collect → classify → persist, with at-most-one run in flight.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/entryladder/entryladder/internal/classify"
	"github.com/entryladder/entryladder/internal/merge"
	"github.com/entryladder/entryladder/internal/model"
	"github.com/entryladder/entryladder/internal/store"
)

// ErrRunInProgress reports that a run was skipped because another run
// holds the lock. Overlapping triggers are skipped, never queued.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// RunStats summarizes one ingestion run.
type RunStats struct {
	Fetched    int // unique postings after merge
	Filtered   int // classified entry-level
	Saved      int // newly persisted
	Duplicates int // already stored, or lost a save race
}

// Pipeline wires the collector, classifier, and store into the single
// operation the scheduler or CLI invokes.
type Pipeline struct {
	collector  *merge.Collector
	classifier *classify.Classifier
	store      model.PostingStore
	logger     *slog.Logger
	runMu      sync.Mutex
}

func New(collector *merge.Collector, classifier *classify.Classifier, st model.PostingStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		collector:  collector,
		classifier: classifier,
		store:      st,
		logger:     logger,
	}
}

// Run executes one ingestion run. A second concurrent call returns
// ErrRunInProgress immediately. A panic escaping any stage is recovered
// and reported as a failed run so the next trigger proceeds normally.
func (p *Pipeline) Run(ctx context.Context) (stats RunStats, err error) {
	if !p.runMu.TryLock() {
		p.logger.Info("another ingestion run is in progress, skipping")
		return RunStats{}, ErrRunInProgress
	}
	defer p.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ingestion run panicked: %v", r)
			p.logger.Error("ingestion run failed", "error", err)
		}
	}()

	postings := p.collector.Collect(ctx)
	stats.Fetched = len(postings)

	entryLevel := p.classifier.FilterEntryLevel(postings)
	stats.Filtered = len(entryLevel)

	for i := range entryLevel {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		switch saveErr := p.persist(ctx, &entryLevel[i]); {
		case errors.Is(saveErr, store.ErrDuplicate):
			stats.Duplicates++
		case saveErr != nil:
			p.logger.Error("failed to save posting",
				"url", entryLevel[i].URL,
				"title", entryLevel[i].Title,
				"error", saveErr,
			)
		default:
			stats.Saved++
		}
	}

	p.logger.Info("ingestion run complete",
		"fetched", stats.Fetched,
		"filtered", stats.Filtered,
		"saved", stats.Saved,
		"duplicates", stats.Duplicates,
	)
	return stats, nil
}

// persist saves one posting, reporting an existing URL or a lost insert
// race as store.ErrDuplicate.
func (p *Pipeline) persist(ctx context.Context, posting *model.Posting) error {
	if strings.TrimSpace(posting.URL) != "" {
		existing, err := p.store.FindByURL(ctx, posting.URL)
		if err != nil {
			return fmt.Errorf("checking for existing posting: %w", err)
		}
		if existing != nil {
			return store.ErrDuplicate
		}
	}
	return p.store.Save(ctx, posting)
}
