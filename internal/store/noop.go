package store

import (
	"context"
	"database/sql"

	"github.com/ItIsUday/artron/internal/model"
)

// NoopStore is a Store that records nothing (used when no database is configured).
type NoopStore struct{}

var _ Store = (*NoopStore)(nil)

func (NoopStore) CreateRun(context.Context, *model.Run) error { return nil }
func (NoopStore) FinishRun(context.Context, *model.Run) error { return nil }

func (NoopStore) GetRun(context.Context, string) (*model.Run, error) {
	return nil, sql.ErrNoRows
}

func (NoopStore) ListRuns(context.Context, int) ([]*model.Run, error) { return nil, nil }

func (NoopStore) RecordDownload(context.Context, *model.Download) error { return nil }

func (NoopStore) ListDownloads(context.Context, string) ([]*model.Download, error) {
	return nil, nil
}

func (NoopStore) Close() error { return nil }
