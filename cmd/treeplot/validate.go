package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
)

// NYC bounding box with a small margin; census points outside it are suspect.
const (
	nycMinLat = 40.45
	nycMaxLat = 40.95
	nycMinLon = -74.30
	nycMaxLon = -73.65
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// errValidationFailed is returned after the report has been printed.
var errValidationFailed = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check dataset integrity and aggregate consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			phases := []*phase{
				validateVocabularies(table),
				validateSpeciesNames(table),
				validateCoordinates(table),
				validateAggregates(table),
			}
			if !report(cmd, table, phases) {
				return errValidationFailed
			}
			return nil
		},
	}
}

func report(cmd *cobra.Command, table *domain.Table, phases []*phase) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Street Tree Dataset Validation ===")
	fmt.Fprintln(out)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d trees, %d species, %d boroughs\n",
		table.Len(), len(table.Species()), len(table.Boroughs()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
	} else {
		fmt.Fprintln(out, "\nValidation FAILED.")
	}
	return allPassed
}

func validateVocabularies(table *domain.Table) *phase {
	p := &phase{name: "Health and steward vocabularies"}
	for _, row := range table.Rows() {
		if row.Health.Index() < 0 {
			p.errorf("tree %s: unknown health %q", row.ID, row.Health)
		}
		if int(row.Steward) < 0 || int(row.Steward) > domain.MaxSteward {
			p.errorf("tree %s: steward %d out of range", row.ID, int(row.Steward))
		}
		if row.Borough == "" {
			p.errorf("tree %s: empty borough", row.ID)
		}
	}
	return p
}

func validateSpeciesNames(table *domain.Table) *phase {
	p := &phase{name: "Species names normalized"}
	for _, s := range table.Species() {
		if n := domain.NormalizeSpecies(s); n != s {
			p.errorf("species %q normalizes to %q", s, n)
		}
	}
	return p
}

func validateCoordinates(table *domain.Table) *phase {
	p := &phase{name: "Coordinates inside New York City"}
	for _, row := range table.Rows() {
		if row.Lat < nycMinLat || row.Lat > nycMaxLat || row.Lon < nycMinLon || row.Lon > nycMaxLon {
			p.errorf("tree %s: (%.5f, %.5f) outside the city", row.ID, row.Lat, row.Lon)
		}
	}
	return p
}

// validateAggregates checks, for every steward ceiling over the whole table,
// that the bar groups account for every filtered row, the proportions sum to
// one, and raising the ceiling never loses rows.
func validateAggregates(table *domain.Table) *phase {
	p := &phase{name: "Aggregates consistent across steward ceilings"}
	prev := -1
	for ceiling := 0; ceiling <= domain.MaxSteward; ceiling++ {
		sel := domain.Selection{Species: table.Species(), Boroughs: table.Boroughs(), MaxSteward: ceiling}
		rows := domain.Filter(table, sel)

		total := 0
		for _, g := range domain.CountByStewardHealth(rows) {
			total += g.Count
			if int(g.Steward) > ceiling {
				p.errorf("ceiling %d: bar group for tier %s", ceiling, g.Steward)
			}
		}
		if total != len(rows) {
			p.errorf("ceiling %d: bar groups count %d trees, filter kept %d", ceiling, total, len(rows))
		}

		if len(rows) > 0 {
			sum := 0.0
			for _, pr := range domain.HealthProportions(rows) {
				sum += pr.Fraction
			}
			if math.Abs(sum-1) > 1e-9 {
				p.errorf("ceiling %d: proportions sum to %f", ceiling, sum)
			}
		}

		if len(rows) < prev {
			p.errorf("ceiling %d: %d rows, fewer than the %d at ceiling %d", ceiling, len(rows), prev, ceiling-1)
		}
		prev = len(rows)
	}
	if prev != table.Len() {
		p.errorf("ceiling %d keeps %d of %d trees", domain.MaxSteward, prev, table.Len())
	}
	return p
}
