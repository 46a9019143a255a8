package domain

import "fmt"

// BarGroup is one (steward, health) bucket of the bar chart.
type BarGroup struct {
	Steward Steward `json:"steward"`
	Health  Health  `json:"health"`
	Count   int     `json:"count"`
}

// CountByStewardHealth groups rows by (steward, health). Only non-empty
// groups are returned, ordered by steward tier and then by HealthOrder.
func CountByStewardHealth(rows []Tree) []BarGroup {
	var counts [MaxSteward + 1][3]int
	for i := range rows {
		h := rows[i].Health.Index()
		s := rows[i].Steward
		if h < 0 || s < StewardNone || s > Steward4orMore {
			continue
		}
		counts[s][h]++
	}

	groups := []BarGroup{}
	for _, s := range StewardOrder {
		for hi, h := range HealthOrder {
			if n := counts[s][hi]; n > 0 {
				groups = append(groups, BarGroup{Steward: s, Health: h, Count: n})
			}
		}
	}
	return groups
}

// Proportion is the share of one health category within a subset.
type Proportion struct {
	Health   Health  `json:"health"`
	Fraction float64 `json:"fraction"`
}

// Percent formats the fraction as a percentage with two decimals, e.g. "64.29%".
func (p Proportion) Percent() string {
	return fmt.Sprintf("%.2f%%", p.Fraction*100)
}

// String renders the summary line, e.g. "Good : 64.29%".
func (p Proportion) String() string {
	return string(p.Health) + " : " + p.Percent()
}

// HealthProportions returns the normalized frequency of each health value
// present in rows, in HealthOrder. Absent categories are omitted; an empty
// input yields an empty list.
func HealthProportions(rows []Tree) []Proportion {
	var counts [3]int
	total := 0
	for i := range rows {
		if h := rows[i].Health.Index(); h >= 0 {
			counts[h]++
			total++
		}
	}

	out := []Proportion{}
	if total == 0 {
		return out
	}
	for i, h := range HealthOrder {
		if counts[i] == 0 {
			continue
		}
		out = append(out, Proportion{Health: h, Fraction: float64(counts[i]) / float64(total)})
	}
	return out
}
