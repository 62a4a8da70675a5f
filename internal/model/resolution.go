package model

// Pair names a single light curve: one target observed in one sector.
type Pair struct {
	TargetID string `json:"target_id"`
	Epoch    int    `json:"epoch"`
}

// ResolvedTarget is a target together with the sectors it will be fetched for.
// Epochs keep catalog order and never contain duplicates.
type ResolvedTarget struct {
	TargetID string `json:"target_id"`
	Epochs   []int  `json:"epochs"`
}

// Resolution is the target -> epochs mapping produced by the resolver.
// Targets iterate in order of first appearance in the source table.
type Resolution struct {
	Targets []ResolvedTarget `json:"targets"`

	// Dropped lists targets whose epochs were all outside the valid set.
	Dropped []string `json:"dropped,omitempty"`

	index map[string]int
}

// NewResolution returns an empty resolution.
func NewResolution() *Resolution {
	return &Resolution{index: make(map[string]int)}
}

// Add appends epochs to the entry for targetID, creating it on first use.
// Epochs already recorded for the target are skipped. Adding no epochs is a
// no-op, so an entry is never created with an empty epoch list.
func (r *Resolution) Add(targetID string, epochs ...int) {
	if len(epochs) == 0 {
		return
	}
	r.ensureIndex()
	i, ok := r.index[targetID]
	if !ok {
		r.Targets = append(r.Targets, ResolvedTarget{TargetID: targetID})
		i = len(r.Targets) - 1
		r.index[targetID] = i
	}
	t := &r.Targets[i]
	for _, e := range epochs {
		if !containsInt(t.Epochs, e) {
			t.Epochs = append(t.Epochs, e)
		}
	}
}

// Get returns the epochs resolved for targetID.
func (r *Resolution) Get(targetID string) ([]int, bool) {
	r.ensureIndex()
	i, ok := r.index[targetID]
	if !ok {
		return nil, false
	}
	return r.Targets[i].Epochs, true
}

// Len returns the number of targets in the mapping.
func (r *Resolution) Len() int {
	return len(r.Targets)
}

// PairCount returns the total number of (target, epoch) pairs.
func (r *Resolution) PairCount() int {
	n := 0
	for _, t := range r.Targets {
		n += len(t.Epochs)
	}
	return n
}

// Map returns the resolution as a plain map. The map is a copy.
func (r *Resolution) Map() map[string][]int {
	m := make(map[string][]int, len(r.Targets))
	for _, t := range r.Targets {
		m[t.TargetID] = append([]int(nil), t.Epochs...)
	}
	return m
}

// ensureIndex rebuilds the lookup index, which is absent after JSON decoding.
func (r *Resolution) ensureIndex() {
	if r.index != nil {
		return
	}
	r.index = make(map[string]int, len(r.Targets))
	for i, t := range r.Targets {
		r.index[t.TargetID] = i
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
