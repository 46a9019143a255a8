package domain

// Selection holds the three dashboard control values.
type Selection struct {
	Species    []string `json:"species"`
	Boroughs   []string `json:"boroughs"`
	MaxSteward int      `json:"max_steward"`
}

// StewardCeiling returns the tier named by MaxSteward. It panics on an
// out-of-range ceiling, like StewardsUpTo.
func (s Selection) StewardCeiling() Steward {
	return StewardsUpTo(s.MaxSteward)[s.MaxSteward]
}

// Filter returns the rows whose species and borough are both selected and
// whose steward tier does not exceed the ceiling. An empty species or borough
// set selects nothing. The result is a fresh slice; table order is kept but
// callers must not depend on it.
func Filter(t *Table, sel Selection) []Tree {
	allowed := StewardsUpTo(sel.MaxSteward)

	if len(sel.Species) == 0 || len(sel.Boroughs) == 0 {
		return []Tree{}
	}

	species := toSet(sel.Species)
	boroughs := toSet(sel.Boroughs)

	var stewards [MaxSteward + 1]bool
	for _, s := range allowed {
		stewards[s] = true
	}

	out := []Tree{}
	for _, row := range t.Rows() {
		if _, ok := species[row.Species]; !ok {
			continue
		}
		if _, ok := boroughs[row.Borough]; !ok {
			continue
		}
		if row.Steward < StewardNone || row.Steward > Steward4orMore || !stewards[row.Steward] {
			continue
		}
		out = append(out, row)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
