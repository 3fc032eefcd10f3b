package model

import (
	"context"
	"time"
)

// Posting is the unified representation of a job listing from any source.
type Posting struct {
	ID          *int64     // database identity, nil until saved
	Title       string     // job title
	Company     string     // company name
	Location    string     // location string
	URL         string     // provider listing URL, may be blank or malformed
	Description string     // plain-text description (HTML stripped at fetch time)
	Source      string     // provider name ("arbeitnow", "remotive", "themuse")
	PostedAt    *time.Time // nullable (not every provider supplies a date)
	CreatedAt   *time.Time // our clock, set on persistence

	// Classification is attached by the pipeline for callers that want
	// explainability; persistence ignores it.
	Classification *ClassificationScore
}

// SourceFetcher fetches postings from one external provider.
type SourceFetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]Posting, error)
}

// PostingStore persists merged postings with a unique constraint on URL.
type PostingStore interface {
	FindByURL(ctx context.Context, url string) (*Posting, error)
	Save(ctx context.Context, p *Posting) error
	ListRecent(ctx context.Context, limit int) ([]Posting, error)
}
