package model

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// IsValid checks whether the run status is a known value.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning, RunStatusComplete, RunStatusFailed:
		return true
	}
	return false
}

// Run is a ledger record of one invocation of the pipeline.
type Run struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	CatalogURL string     `json:"catalog_url"`
	OutputDir  string     `json:"output_dir"`
	Targets    int        `json:"targets"`
	Planned    int        `json:"planned"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// DownloadStatus is the outcome of a single light-curve download.
type DownloadStatus string

const (
	DownloadStatusSucceeded DownloadStatus = "succeeded"
	DownloadStatusFailed    DownloadStatus = "failed"
)

// IsValid checks whether the download status is a known value.
func (s DownloadStatus) IsValid() bool {
	return s == DownloadStatusSucceeded || s == DownloadStatusFailed
}

// Download is a ledger record of one identifier handed to the archive client.
type Download struct {
	RunID      string         `json:"run_id"`
	TargetID   string         `json:"target_id"`
	Epoch      int            `json:"epoch"`
	Identifier string         `json:"identifier"`
	Path       string         `json:"path,omitempty"`
	Bytes      int64          `json:"bytes"`
	Status     DownloadStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
