// Package merge collects postings from every source and reduces them to
// one unique, recency-sorted set keyed by identity.
package merge

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/entryladder/entryladder/internal/identity"
	"github.com/entryladder/entryladder/internal/model"
)

// Collector fans out to all registered fetchers, isolates per-source
// failures, and merges the results.
type Collector struct {
	fetchers []model.SourceFetcher
	logger   *slog.Logger
}

func NewCollector(fetchers []model.SourceFetcher, logger *slog.Logger) *Collector {
	return &Collector{fetchers: fetchers, logger: logger}
}

// Collect runs every fetcher concurrently (each is independent; paginated
// fetchers keep their pages sequential internally), then merges the
// results single-threaded once all sources have reported. A failing source
// contributes whatever it returned before failing, possibly nothing, and
// never aborts the others.
func (c *Collector) Collect(ctx context.Context) []model.Posting {
	results := make([][]model.Posting, len(c.fetchers))

	var wg sync.WaitGroup
	for i, f := range c.fetchers {
		wg.Add(1)
		go func(i int, f model.SourceFetcher) {
			defer wg.Done()
			postings, err := f.Fetch(ctx)
			if err != nil {
				c.logger.Error("source fetch failed", "source", f.Name(), "error", err)
			}
			results[i] = postings
		}(i, f)
	}
	wg.Wait()

	// Insertion-ordered merge in fetcher registration order, so the
	// surviving set is deterministic for a given set of source results.
	var keys []string
	byKey := make(map[string]model.Posting)
	for _, postings := range results {
		for _, p := range postings {
			key := identity.KeyFor(p)
			existing, ok := byKey[key]
			if !ok {
				byKey[key] = p
				keys = append(keys, key)
				continue
			}
			// Prefer the earliest known posting time as the canonical
			// record; ties and nil dates keep the first seen.
			if p.PostedAt != nil && existing.PostedAt != nil && p.PostedAt.Before(*existing.PostedAt) {
				byKey[key] = p
			}
		}
	}

	merged := make([]model.Posting, 0, len(keys))
	for _, k := range keys {
		merged = append(merged, byKey[k])
	}
	sortByRecency(merged)

	c.logger.Info("collected postings from all sources",
		"sources", len(c.fetchers),
		"unique", len(merged),
	)
	return merged
}

// sortByRecency orders postings by posted-at descending, then created-at
// descending, then id descending, with nils last at every level.
func sortByRecency(postings []model.Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		if c := compareTimeDesc(postings[i].PostedAt, postings[j].PostedAt); c != 0 {
			return c < 0
		}
		if c := compareTimeDesc(postings[i].CreatedAt, postings[j].CreatedAt); c != 0 {
			return c < 0
		}
		return compareIDDesc(postings[i].ID, postings[j].ID) < 0
	})
}

func compareTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case a.Before(*b):
		return 1
	}
	return 0
}

func compareIDDesc(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}
