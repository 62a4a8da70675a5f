package catalog

import "github.com/ItIsUday/artron/internal/model"

// ConfirmedDispositions are the codes FilterConfirmed accepts.
var ConfirmedDispositions = []model.Disposition{
	model.DispositionConfirmedPlanet,
	model.DispositionKnownPlanet,
}

// FilterConfirmed keeps the rows whose disposition is a confirmed (CP) or
// known (KP) planet. Row order is preserved and the input is not modified.
func FilterConfirmed(t model.Table) model.Table {
	return FilterDispositions(t, ConfirmedDispositions...)
}

// FilterDispositions keeps the rows whose disposition is one of accepted.
// Rows with any other code, including unknown or blank codes, are dropped.
func FilterDispositions(t model.Table, accepted ...model.Disposition) model.Table {
	keep := make(map[model.Disposition]bool, len(accepted))
	for _, d := range accepted {
		keep[d] = true
	}
	var out model.Table
	for _, r := range t.Rows {
		if keep[r.Disposition] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
