// Package manifest exports a download plan as JSONL so it can be reviewed,
// archived, or fed to another downloader.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/resolve"
)

// Version is written in every header record.
const Version = "1"

// Record types.
const (
	TypeHeader  = "header"
	TypeJob     = "job"
	TypeDropped = "dropped"
)

// Header is the first JSONL record written by WriteJSONL.
type Header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id,omitempty"`
	TargetCount  int       `json:"target_count"`
	JobCount     int       `json:"job_count"`
	DroppedCount int       `json:"dropped_count"`
}

// Record wraps a single JSONL line with a type discriminator.
type Record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Manifest is everything a single export covers.
type Manifest struct {
	RunID      string
	Resolution *model.Resolution
	Jobs       []resolve.Job
}

// WriteJSONL writes m to w: a header, then one record per job in plan
// order, then one record per dropped target.
func WriteJSONL(w io.Writer, m Manifest) error {
	var (
		targets int
		dropped []string
	)
	if m.Resolution != nil {
		targets = m.Resolution.Len()
		dropped = m.Resolution.Dropped
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:      Version,
		Type:         TypeHeader,
		Timestamp:    time.Now().UTC(),
		RunID:        m.RunID,
		TargetCount:  targets,
		JobCount:     len(m.Jobs),
		DroppedCount: len(dropped),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, j := range m.Jobs {
		if err := enc.Encode(Record{Type: TypeJob, Data: j}); err != nil {
			return fmt.Errorf("encode job %s: %w", j.Identifier, err)
		}
	}
	for _, id := range dropped {
		if err := enc.Encode(Record{Type: TypeDropped, Data: map[string]string{"target_id": id}}); err != nil {
			return fmt.Errorf("encode dropped %s: %w", id, err)
		}
	}
	return nil
}

// Marshal renders m as a JSONL payload.
func Marshal(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
