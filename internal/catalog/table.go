// Package catalog reads the ExoFOP TOI table and selects the rows the
// pipeline resolves.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ItIsUday/artron/internal/model"
)

// Columns names the catalog columns the pipeline reads. The labels follow
// the ExoFOP export and are configuration, not part of the format.
type Columns struct {
	TargetID    string `toml:"target_id"`
	Disposition string `toml:"disposition"`
	Epochs      string `toml:"epochs"`
}

// DefaultColumns matches the ExoFOP TOI CSV export.
var DefaultColumns = Columns{
	TargetID:    "TIC ID",
	Disposition: "TFOPWG Disposition",
	Epochs:      "Sectors",
}

func (c Columns) withDefaults() Columns {
	if c.TargetID == "" {
		c.TargetID = DefaultColumns.TargetID
	}
	if c.Disposition == "" {
		c.Disposition = DefaultColumns.Disposition
	}
	if c.Epochs == "" {
		c.Epochs = DefaultColumns.Epochs
	}
	return c
}

// ParseCSV reads a CSV catalog with a header row into a Table.
// Only the configured columns are kept; a missing column or a malformed
// record is a *model.CatalogFormatError.
func ParseCSV(r io.Reader, cols Columns) (model.Table, error) {
	cols = cols.withDefaults()

	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Table{}, &model.CatalogFormatError{Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return model.Table{}, csvError(err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	pos := make([]int, 3)
	for i, name := range []string{cols.TargetID, cols.Disposition, cols.Epochs} {
		p, ok := idx[name]
		if !ok {
			return model.Table{}, &model.CatalogFormatError{Line: 1, Column: name, Reason: "column not found in header"}
		}
		pos[i] = p
	}

	var t model.Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Table{}, csvError(err)
		}
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, model.CatalogRow{
			TargetID:    strings.TrimSpace(rec[pos[0]]),
			Disposition: model.Disposition(strings.TrimSpace(rec[pos[1]])),
			Epochs:      strings.TrimSpace(rec[pos[2]]),
			Line:        line,
		})
	}
	return t, nil
}

// ParseBytes is ParseCSV over an in-memory catalog.
func ParseBytes(data []byte, cols Columns) (model.Table, error) {
	return ParseCSV(bytes.NewReader(data), cols)
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &model.CatalogFormatError{Line: pe.Line, Reason: pe.Err.Error()}
	}
	return fmt.Errorf("read catalog: %w", err)
}
