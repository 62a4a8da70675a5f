package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ItIsUday/artron/internal/model"
)

// runColumns is the column list used for SELECT statements on the runs table.
const runColumns = `id, status, catalog_url, output_dir, targets, planned,
	succeeded, failed, started_at, finished_at, error`

// downloadColumns is the column list used for SELECT statements on the downloads table.
const downloadColumns = `run_id, target_id, epoch, identifier, path, bytes,
	status, error, created_at`

// defaultRunLimit caps ListRuns when the caller passes no limit.
const defaultRunLimit = 20

// executor is the subset of *sql.DB the query functions use.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateRun(ctx context.Context, db executor, r *model.Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (
			id, status, catalog_url, output_dir, targets, planned,
			succeeded, failed, started_at, finished_at, error
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)`,
		r.ID,
		string(r.Status),
		r.CatalogURL,
		r.OutputDir,
		r.Targets,
		r.Planned,
		r.Succeeded,
		r.Failed,
		r.StartedAt,
		nullTimePtr(r.FinishedAt),
		nullString(r.Error),
	)
	return err
}

// queryFinishRun writes the final counters and status of a run.
// It returns sql.ErrNoRows if the run does not exist.
func queryFinishRun(ctx context.Context, db executor, r *model.Run) error {
	res, err := db.ExecContext(ctx, `
		UPDATE runs SET
			status = $2, targets = $3, planned = $4, succeeded = $5, failed = $6,
			finished_at = $7, error = $8
		WHERE id = $1`,
		r.ID,
		string(r.Status),
		r.Targets,
		r.Planned,
		r.Succeeded,
		r.Failed,
		nullTimePtr(r.FinishedAt),
		nullString(r.Error),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryGetRun(ctx context.Context, db executor, id string) (*model.Run, error) {
	row := db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id)
	return scanRun(row)
}

func queryListRuns(ctx context.Context, db executor, limit int) ([]*model.Run, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func queryRecordDownload(ctx context.Context, db executor, d *model.Download) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO downloads (
			run_id, target_id, epoch, identifier, path, bytes,
			status, error, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.RunID,
		d.TargetID,
		d.Epoch,
		d.Identifier,
		nullString(d.Path),
		d.Bytes,
		string(d.Status),
		nullString(d.Error),
		d.CreatedAt,
	)
	return err
}

func queryListDownloads(ctx context.Context, db executor, runID string) ([]*model.Download, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+downloadColumns+` FROM downloads WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Download
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
