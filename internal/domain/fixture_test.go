package domain

import (
	"fmt"
	"testing"
)

const (
	testSchubert  = "Schubert Chokecherry"
	testLondon    = "London Planetree"
	testManhattan = "Manhattan"
	testBrooklyn  = "Brooklyn"
	testQueens    = "Queens"
)

// schubertManhattan builds the 14-tree example from the dashboard README:
// 9 Good, 3 Fair, 2 Poor spread across all steward tiers.
func schubertManhattan() []Tree {
	groups := []struct {
		health  Health
		steward Steward
		n       int
	}{
		{HealthGood, StewardNone, 4},
		{HealthGood, Steward1or2, 3},
		{HealthGood, Steward3or4, 1},
		{HealthGood, Steward4orMore, 1},
		{HealthFair, StewardNone, 2},
		{HealthFair, Steward1or2, 1},
		{HealthPoor, StewardNone, 1},
		{HealthPoor, Steward3or4, 1},
	}
	var rows []Tree
	for _, s := range groups {
		for i := 0; i < s.n; i++ {
			rows = append(rows, Tree{
				ID:      fmt.Sprintf("sm-%d", len(rows)),
				Health:  s.health,
				Species: testSchubert,
				Steward: s.steward,
				Borough: testManhattan,
				Lat:     40.78 + float64(len(rows))*0.001,
				Lon:     -73.97 - float64(len(rows))*0.001,
			})
		}
	}
	return rows
}

// testTable mixes the Schubert example with other species and boroughs.
func testTable(t *testing.T) *Table {
	t.Helper()
	rows := schubertManhattan()
	rows = append(rows,
		Tree{ID: "b-1", Health: HealthGood, Species: testSchubert, Steward: StewardNone, Borough: testBrooklyn, Lat: 40.65, Lon: -73.95},
		Tree{ID: "b-2", Health: HealthFair, Species: testLondon, Steward: Steward4orMore, Borough: testBrooklyn, Lat: 40.66, Lon: -73.94},
		Tree{ID: "q-1", Health: HealthPoor, Species: testLondon, Steward: Steward1or2, Borough: testQueens, Lat: 40.72, Lon: -73.80},
		Tree{ID: "m-1", Health: HealthGood, Species: testLondon, Steward: Steward3or4, Borough: testManhattan, Lat: 40.75, Lon: -73.99},
	)
	return NewTable(rows)
}
