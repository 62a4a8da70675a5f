package resolve

import (
	"fmt"

	"github.com/ItIsUday/artron/internal/model"
)

// Job is one light curve to hand to the archive client.
type Job struct {
	model.Pair
	Identifier string `json:"identifier"`
	FileName   string `json:"file_name"`
}

// Plan expands a resolution into one Job per (target, sector) pair, in target
// order and then sector order. Jobs are independent of each other and may be
// run in any order.
//
// The first pair that cannot be encoded aborts planning, so no download
// starts for a run that would fetch a wrong or truncated identifier.
func Plan(r *model.Resolution) ([]Job, error) {
	jobs := make([]Job, 0, r.PairCount())
	for _, t := range r.Targets {
		for _, e := range t.Epochs {
			id, err := EncodeIdentifier(t.TargetID, e)
			if err != nil {
				return nil, fmt.Errorf("plan %s sector %d: %w", t.TargetID, e, err)
			}
			jobs = append(jobs, Job{
				Pair:       model.Pair{TargetID: t.TargetID, Epoch: e},
				Identifier: id,
				FileName:   FileName(id),
			})
		}
	}
	return jobs, nil
}
