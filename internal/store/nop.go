package store

import (
	"context"

	"github.com/entryladder/entryladder/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Nothing is persisted,
// so every classified posting counts as newly saved.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) FindByURL(ctx context.Context, url string) (*model.Posting, error) {
	return nil, nil
}

func (s *NopStore) Save(ctx context.Context, p *model.Posting) error { return nil }

func (s *NopStore) ListRecent(ctx context.Context, limit int) ([]model.Posting, error) {
	return nil, nil
}
