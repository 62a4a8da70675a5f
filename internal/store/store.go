package store

import (
	"context"

	"github.com/ItIsUday/artron/internal/model"
)

// Store defines the persistence interface for the run ledger.
// The ledger records what happened; it is never consulted to skip work.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, run *model.Run) error
	FinishRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*model.Run, error)

	// Downloads
	RecordDownload(ctx context.Context, d *model.Download) error
	ListDownloads(ctx context.Context, runID string) ([]*model.Download, error)

	// Lifecycle
	Close() error
}
