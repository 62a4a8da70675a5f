package postgres

import (
	"database/sql"
	"time"

	"github.com/ItIsUday/artron/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRun scans a single row into a model.Run.
// The row must contain columns in the order defined by runColumns.
func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var (
		finishedAt sql.NullTime
		errText    sql.NullString
	)

	err := row.Scan(
		&r.ID,
		&r.Status,
		&r.CatalogURL,
		&r.OutputDir,
		&r.Targets,
		&r.Planned,
		&r.Succeeded,
		&r.Failed,
		&r.StartedAt,
		&finishedAt,
		&errText,
	)
	if err != nil {
		return nil, err
	}

	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	r.Error = errText.String
	return &r, nil
}

// scanDownload scans a single row into a model.Download.
// The row must contain columns in the order defined by downloadColumns.
func scanDownload(row scannable) (*model.Download, error) {
	var d model.Download
	var (
		path    sql.NullString
		errText sql.NullString
	)

	err := row.Scan(
		&d.RunID,
		&d.TargetID,
		&d.Epoch,
		&d.Identifier,
		&path,
		&d.Bytes,
		&d.Status,
		&errText,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Path = path.String
	d.Error = errText.String
	return &d, nil
}

// nullTimePtr converts a *time.Time to sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts an empty string to a NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
