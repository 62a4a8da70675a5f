// Package resolve turns a filtered TOI table into the set of TESS-SPOC light
// curves to fetch and encodes the archive identifier for each of them.
//
// Everything in this package is a pure function of its arguments and is safe
// for concurrent use with disjoint inputs.
package resolve

import (
	"errors"
	"strings"

	"github.com/ItIsUday/artron/internal/model"
)

// Column labels used in errors raised while resolving rows.
const (
	ColumnTargetID = "target_id"
	ColumnEpochs   = "epoch_list"
)

// ResolveTargets maps each target in t to the sectors of its epoch list that
// are members of valid. Targets left with no sector are omitted from the
// mapping and listed in Resolution.Dropped instead. Target ids are keyed
// without leading zeros, and a row repeating a target merges its sectors into
// the existing entry.
//
// A malformed target id or sector token aborts resolution with a
// *model.CatalogFormatError; the catalog is authoritative, so a partial
// mapping would silently under-cover targets.
func ResolveTargets(t model.Table, valid EpochSet) (*model.Resolution, error) {
	if valid == nil {
		valid = DefaultEpochs
	}
	res := model.NewResolution()
	dropped := make(map[string]bool)

	for _, row := range t.Rows {
		id := strings.TrimSpace(row.TargetID)
		if !isDigits(id) {
			return nil, &model.CatalogFormatError{
				Line:   row.Line,
				Column: ColumnTargetID,
				Value:  row.TargetID,
				Reason: "target id must be a non-empty string of digits",
			}
		}
		id = canonicalTargetID(id)

		epochs, err := ParseEpochs(row.Epochs)
		if err != nil {
			var cfe *model.CatalogFormatError
			if errors.As(err, &cfe) {
				cfe.Line = row.Line
				cfe.Column = ColumnEpochs
			}
			return nil, err
		}

		kept := epochs[:0]
		for _, e := range epochs {
			if valid.Contains(e) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			if _, ok := res.Get(id); !ok && !dropped[id] {
				dropped[id] = true
				res.Dropped = append(res.Dropped, id)
			}
			continue
		}
		res.Add(id, kept...)
	}

	// A target dropped on one row may have been resolved by a later row.
	if len(res.Dropped) > 0 {
		still := res.Dropped[:0]
		for _, id := range res.Dropped {
			if _, ok := res.Get(id); !ok {
				still = append(still, id)
			}
		}
		res.Dropped = still
	}
	if len(res.Dropped) == 0 {
		res.Dropped = nil
	}
	return res, nil
}
