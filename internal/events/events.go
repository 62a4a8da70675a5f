// Package events publishes pipeline progress to the event bus so runs can be
// watched from another terminal or machine.
package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicRunStarted        = "artron.run.started"
	TopicRunFinished       = "artron.run.finished"
	TopicDownloadSucceeded = "artron.download.succeeded"
	TopicDownloadFailed    = "artron.download.failed"

	// TopicAll matches every artron topic.
	TopicAll = "artron.>"
)

// Event types

type RunStarted struct {
	RunID      string    `json:"run_id"`
	CatalogURL string    `json:"catalog_url"`
	OutputDir  string    `json:"output_dir"`
	Targets    int       `json:"targets"`
	Planned    int       `json:"planned"`
	StartedAt  time.Time `json:"started_at"`
}

type RunFinished struct {
	RunID     string        `json:"run_id"`
	Status    string        `json:"status"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

type DownloadSucceeded struct {
	RunID      string `json:"run_id"`
	TargetID   string `json:"target_id"`
	Epoch      int    `json:"epoch"`
	Identifier string `json:"identifier"`
	Path       string `json:"path"`
	Bytes      int64  `json:"bytes"`
}

type DownloadFailed struct {
	RunID      string `json:"run_id"`
	TargetID   string `json:"target_id"`
	Epoch      int    `json:"epoch"`
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
