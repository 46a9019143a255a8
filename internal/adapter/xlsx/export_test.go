package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
)

func sampleRows() []domain.Tree {
	return []domain.Tree{
		{ID: "1", Health: domain.HealthGood, Species: "Pin Oak", Steward: domain.StewardNone, Borough: "Queens", Lat: 40.7, Lon: -73.8},
		{ID: "2", Health: domain.HealthPoor, Species: "Pin Oak", Steward: domain.Steward1or2, Borough: "Queens", Lat: 40.8, Lon: -73.9},
		{ID: "3", Health: domain.HealthGood, Species: "Pin Oak", Steward: domain.Steward1or2, Borough: "Queens", Lat: 40.6, Lon: -73.7},
	}
}

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExport_Trees(t *testing.T) {
	sel := domain.Selection{Species: []string{"Pin Oak"}, Boroughs: []string{"Queens"}, MaxSteward: 1}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sel, sampleRows()))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{TreesSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(TreesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"tree_id", "health", "spc_common", "steward", "borough", "latitude", "longitude", "x_sp", "y_sp"}, rows[0])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "Poor", rows[2][1])
	assert.Equal(t, "1or2", rows[2][3])
}

func TestExport_Summary(t *testing.T) {
	sel := domain.Selection{Species: []string{"Pin Oak"}, Boroughs: []string{"Queens"}, MaxSteward: 1}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sel, sampleRows()))

	f := openWorkbook(t, &buf)

	v, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "1or2", v)

	v, err = f.GetCellValue(SummarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	// Bar groups start under the header on row 6.
	v, err = f.GetCellValue(SummarySheet, "C7")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestExport_Empty(t *testing.T) {
	sel := domain.Selection{MaxSteward: 0}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sel, []domain.Tree{}))

	f := openWorkbook(t, &buf)
	rows, err := f.GetRows(TreesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
