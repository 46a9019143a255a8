package domain

import (
	"fmt"
	"strings"
)

// Health is the categorical tree-condition label recorded by census volunteers.
type Health string

const (
	HealthPoor Health = "Poor"
	HealthFair Health = "Fair"
	HealthGood Health = "Good"
)

// HealthOrder is the display order for every list or chart keyed by health.
var HealthOrder = []Health{HealthPoor, HealthFair, HealthGood}

// healthColors maps each health category to the CSS color used by all views.
var healthColors = map[Health]string{
	HealthPoor: "red",
	HealthFair: "orange",
	HealthGood: "green",
}

// ParseHealth validates a raw health label. Matching is exact after trimming.
func ParseHealth(s string) (Health, error) {
	switch h := Health(strings.TrimSpace(s)); h {
	case HealthPoor, HealthFair, HealthGood:
		return h, nil
	default:
		return "", fmt.Errorf("unknown health %q", s)
	}
}

// Index returns the position of h in HealthOrder, or -1.
func (h Health) Index() int {
	for i, v := range HealthOrder {
		if v == h {
			return i
		}
	}
	return -1
}

// Color returns the display color for h.
func (h Health) Color() string {
	return healthColors[h]
}

// Steward is the ordinal number of stewardship signs observed on a tree.
// The zero value is StewardNone.
type Steward int

const (
	StewardNone Steward = iota
	Steward1or2
	Steward3or4
	Steward4orMore
)

// MaxSteward is the highest valid steward ceiling.
const MaxSteward = int(Steward4orMore)

var stewardNames = [...]string{"None", "1or2", "3or4", "4orMore"}

// stewardLabels are the slider mark labels.
var stewardLabels = [...]string{"None", "1 or 2", "3 or 4", "4 or More"}

// StewardOrder lists every tier in ordinal order.
var StewardOrder = []Steward{StewardNone, Steward1or2, Steward3or4, Steward4orMore}

// ParseSteward maps a census steward value ("None", "1or2", "3or4", "4orMore")
// to its ordinal tier.
func ParseSteward(s string) (Steward, error) {
	s = strings.TrimSpace(s)
	for i, name := range stewardNames {
		if s == name {
			return Steward(i), nil
		}
	}
	return 0, fmt.Errorf("unknown steward %q", s)
}

// String returns the census value for the tier, e.g. "3or4".
func (s Steward) String() string {
	if s < StewardNone || s > Steward4orMore {
		return fmt.Sprintf("Steward(%d)", int(s))
	}
	return stewardNames[s]
}

// Label returns the human-readable slider label, e.g. "3 or 4".
func (s Steward) Label() string {
	if s < StewardNone || s > Steward4orMore {
		return s.String()
	}
	return stewardLabels[s]
}

// StewardsUpTo returns the inclusive tier set {None .. max}. It panics when max
// is outside 0..MaxSteward: callers validate user input before reaching here.
func StewardsUpTo(max int) []Steward {
	if max < 0 || max > MaxSteward {
		panic(fmt.Sprintf("domain: steward ceiling %d out of range [0,%d]", max, MaxSteward))
	}
	out := make([]Steward, max+1)
	copy(out, StewardOrder[:max+1])
	return out
}

// Tree is one materialized row of the street tree census.
type Tree struct {
	ID      string  `json:"tree_id"`
	Health  Health  `json:"health"`
	Species string  `json:"spc_common"`
	Steward Steward `json:"steward"`
	Borough string  `json:"borough"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`

	// State-plane coordinates, carried through but unused by the views.
	XSP float64 `json:"x_sp"`
	YSP float64 `json:"y_sp"`
}
