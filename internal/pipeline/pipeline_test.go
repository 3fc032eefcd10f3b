package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/entryladder/entryladder/internal/classify"
	"github.com/entryladder/entryladder/internal/lang"
	"github.com/entryladder/entryladder/internal/merge"
	"github.com/entryladder/entryladder/internal/model"
	"github.com/entryladder/entryladder/internal/store"
)

type stubFetcher struct {
	name     string
	postings []model.Posting
	started  chan struct{} // closed when Fetch begins, if set
	block    chan struct{} // when set, Fetch waits until closed
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context) ([]model.Posting, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.postings, nil
}

// memStore is an in-memory PostingStore keyed by URL.
type memStore struct {
	mu     sync.Mutex
	byURL  map[string]model.Posting
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{byURL: make(map[string]model.Posting)}
}

func (m *memStore) FindByURL(ctx context.Context, url string) (*model.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byURL[url]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *memStore) Save(ctx context.Context, p *model.Posting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byURL[p.URL]; ok {
		return store.ErrDuplicate
	}
	m.nextID++
	id := m.nextID
	p.ID = &id
	now := time.Now()
	p.CreatedAt = &now
	m.byURL[p.URL] = *p
	return nil
}

func (m *memStore) ListRecent(ctx context.Context, limit int) ([]model.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Posting, 0, len(m.byURL))
	for _, p := range m.byURL {
		out = append(out, p)
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(st model.PostingStore, fetchers ...model.SourceFetcher) *Pipeline {
	logger := discardLogger()
	collector := merge.NewCollector(fetchers, logger)
	classifier := classify.NewClassifier(lang.NewDetector(), logger)
	return New(collector, classifier, st, logger)
}

func samplePostings() []model.Posting {
	return []model.Posting{
		{Title: "Junior Developer", Description: "No experience needed", URL: "https://example.com/jobs/1", Source: "a"},
		{Title: "Graduate Analyst", Description: "Recent graduate programme", URL: "https://example.com/jobs/2", Source: "a"},
		{Title: "Senior Staff Engineer", Description: "10+ years required", URL: "https://example.com/jobs/3", Source: "a"},
	}
}

func TestRun_CountsAndPersists(t *testing.T) {
	st := newMemStore()
	p := newTestPipeline(st, &stubFetcher{name: "a", postings: samplePostings()})

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Fetched != 3 {
		t.Fatalf("Fetched = %d, want 3", stats.Fetched)
	}
	if stats.Filtered != 2 {
		t.Fatalf("Filtered = %d, want the senior posting dropped", stats.Filtered)
	}
	if stats.Saved != 2 || stats.Duplicates != 0 {
		t.Fatalf("Saved = %d, Duplicates = %d, want 2 and 0", stats.Saved, stats.Duplicates)
	}
	if len(st.byURL) != 2 {
		t.Fatalf("store holds %d postings, want 2", len(st.byURL))
	}
}

func TestRun_SecondPassCountsDuplicates(t *testing.T) {
	st := newMemStore()
	p := newTestPipeline(st, &stubFetcher{name: "a", postings: samplePostings()})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.Saved != 0 || stats.Duplicates != 2 {
		t.Fatalf("Saved = %d, Duplicates = %d, want everything skipped as duplicates", stats.Saved, stats.Duplicates)
	}
}

func TestRun_SaveRaceCountsAsDuplicate(t *testing.T) {
	// FindByURL sees nothing, but Save still reports a duplicate, as when a
	// concurrent writer wins the insert race.
	st := &raceStore{}
	p := newTestPipeline(st, &stubFetcher{name: "a", postings: samplePostings()[:1]})

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Duplicates != 1 || stats.Saved != 0 {
		t.Fatalf("Saved = %d, Duplicates = %d, want the lost race counted as a duplicate", stats.Saved, stats.Duplicates)
	}
}

type raceStore struct{}

func (r *raceStore) FindByURL(ctx context.Context, url string) (*model.Posting, error) {
	return nil, nil
}

func (r *raceStore) Save(ctx context.Context, p *model.Posting) error {
	return store.ErrDuplicate
}

func (r *raceStore) ListRecent(ctx context.Context, limit int) ([]model.Posting, error) {
	return nil, nil
}

func TestRun_SkipsWhenAnotherRunInProgress(t *testing.T) {
	started := make(chan struct{})
	gate := make(chan struct{})
	st := newMemStore()
	p := newTestPipeline(st, &stubFetcher{name: "a", started: started, block: gate})

	firstDone := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background())
		firstDone <- err
	}()

	// The fetch only starts once the first run holds the lock.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started fetching")
	}

	if _, err := p.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("overlapping Run returned %v, want ErrRunInProgress", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Once the first run releases the lock, the next trigger proceeds.
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run after release: %v", err)
	}
}

func TestRun_CancelledContextStopsPersisting(t *testing.T) {
	st := newMemStore()
	p := newTestPipeline(st, &stubFetcher{name: "a", postings: samplePostings()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if stats.Saved != 0 {
		t.Fatalf("saved %d postings under a cancelled context", stats.Saved)
	}
}
