package model

// Disposition is the TFOPWG vetting outcome recorded for a catalog row.
// The set of codes is open; rows with unknown codes are carried through
// parsing and simply fail to match a filter.
type Disposition string

const (
	DispositionConfirmedPlanet    Disposition = "CP"
	DispositionKnownPlanet        Disposition = "KP"
	DispositionPlanetCandidate    Disposition = "PC"
	DispositionAmbiguousCandidate Disposition = "APC"
	DispositionFalsePositive      Disposition = "FP"
	DispositionFalseAlarm         Disposition = "FA"
)

// String returns the catalog code.
func (d Disposition) String() string {
	return string(d)
}

// IsKnown reports whether the disposition is one of the documented codes.
func (d Disposition) IsKnown() bool {
	switch d {
	case DispositionConfirmedPlanet, DispositionKnownPlanet, DispositionPlanetCandidate,
		DispositionAmbiguousCandidate, DispositionFalsePositive, DispositionFalseAlarm:
		return true
	}
	return false
}

// IsPlanet reports whether the disposition marks a confirmed or known planet.
func (d Disposition) IsPlanet() bool {
	return d == DispositionConfirmedPlanet || d == DispositionKnownPlanet
}

// CatalogRow is one entry of the TOI table, reduced to the columns the
// resolver needs. Rows are never mutated after parsing.
type CatalogRow struct {
	TargetID    string      `json:"target_id"`
	Disposition Disposition `json:"disposition"`
	Epochs      string      `json:"epochs"` // raw comma-separated sector list
	Line        int         `json:"line"`   // 1-based CSV record number, header is line 1
}

// Table is an ordered sequence of catalog rows.
type Table struct {
	Rows []CatalogRow `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}
