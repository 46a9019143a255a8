package domain

import (
	"math"
	"slices"
)

// Extent is a lon/lat bounding box. The zero value means "no extent".
type Extent struct {
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
}

// IsZero reports whether e was never populated.
func (e Extent) IsZero() bool { return e == Extent{} }

// Table is the materialized, read-only census table. It is built once by
// NewTable and shared by every request without locking.
type Table struct {
	rows     []Tree
	species  []string
	boroughs []string
	extent   Extent
}

// NewTable takes ownership of rows and derives the option vocabularies:
// species sorted, boroughs in first-seen order.
func NewTable(rows []Tree) *Table {
	t := &Table{rows: rows}

	seenSpecies := make(map[string]struct{})
	seenBorough := make(map[string]struct{})
	for i := range rows {
		if _, ok := seenSpecies[rows[i].Species]; !ok {
			seenSpecies[rows[i].Species] = struct{}{}
			t.species = append(t.species, rows[i].Species)
		}
		if _, ok := seenBorough[rows[i].Borough]; !ok {
			seenBorough[rows[i].Borough] = struct{}{}
			t.boroughs = append(t.boroughs, rows[i].Borough)
		}
	}
	slices.Sort(t.species)
	t.extent = ExtentOf(rows)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows exposes the backing rows. Callers must not modify the slice.
func (t *Table) Rows() []Tree { return t.rows }

// Species returns a copy of the sorted distinct species list.
func (t *Table) Species() []string { return slices.Clone(t.species) }

// Boroughs returns a copy of the distinct borough list in first-seen order.
func (t *Table) Boroughs() []string { return slices.Clone(t.boroughs) }

// Extent returns the bounding box of every row in the table.
func (t *Table) Extent() Extent { return t.extent }

// ExtentOf computes the lon/lat bounding box of rows. It returns the zero
// Extent for an empty slice.
func ExtentOf(rows []Tree) Extent {
	if len(rows) == 0 {
		return Extent{}
	}
	e := Extent{
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
	}
	for i := range rows {
		e.MinLon = math.Min(e.MinLon, rows[i].Lon)
		e.MaxLon = math.Max(e.MaxLon, rows[i].Lon)
		e.MinLat = math.Min(e.MinLat, rows[i].Lat)
		e.MaxLat = math.Max(e.MaxLat, rows[i].Lat)
	}
	return e
}
