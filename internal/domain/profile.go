package domain

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// BoroughCount is the number of trees recorded in one borough.
type BoroughCount struct {
	Borough string `json:"borough"`
	Trees   int    `json:"trees"`
}

// Profile summarizes the loaded table for startup logs and the dataset endpoint.
type Profile struct {
	Rows     int            `json:"rows"`
	Species  int            `json:"species"`
	Boroughs []BoroughCount `json:"boroughs"`
	Extent   Extent         `json:"extent"`

	// Distribution of tree counts per species.
	SpeciesMeanTrees   float64 `json:"species_mean_trees"`
	SpeciesMedianTrees float64 `json:"species_median_trees"`
	SpeciesMaxTrees    float64 `json:"species_max_trees"`
}

// ProfileTable computes a Profile. An empty table yields a zero-valued
// distribution rather than an error.
func ProfileTable(t *Table) (Profile, error) {
	p := Profile{
		Rows:    t.Len(),
		Species: len(t.species),
		Extent:  t.Extent(),
	}

	perBorough := make(map[string]int, len(t.boroughs))
	perSpecies := make(map[string]int, len(t.species))
	for _, row := range t.Rows() {
		perBorough[row.Borough]++
		perSpecies[row.Species]++
	}
	for _, b := range t.boroughs {
		p.Boroughs = append(p.Boroughs, BoroughCount{Borough: b, Trees: perBorough[b]})
	}

	if len(perSpecies) == 0 {
		return p, nil
	}
	counts := make([]float64, 0, len(perSpecies))
	for _, sp := range t.species {
		counts = append(counts, float64(perSpecies[sp]))
	}

	var err error
	if p.SpeciesMeanTrees, err = stats.Mean(counts); err != nil {
		return p, fmt.Errorf("species mean: %w", err)
	}
	if p.SpeciesMedianTrees, err = stats.Median(counts); err != nil {
		return p, fmt.Errorf("species median: %w", err)
	}
	if p.SpeciesMaxTrees, err = stats.Max(counts); err != nil {
		return p, fmt.Errorf("species max: %w", err)
	}
	return p, nil
}
