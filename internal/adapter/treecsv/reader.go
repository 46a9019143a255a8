// Package treecsv loads the street tree census export (a gzip-compressed CSV)
// into a domain.Table.
package treecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
)

// Census column names read by the loader. Other columns are ignored.
const (
	colID        = "tree_id"
	colHealth    = "health"
	colSpecies   = "spc_common"
	colSteward   = "steward"
	colBorough   = "borough"
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colXSP       = "x_sp"
	colYSP       = "y_sp"
)

var requiredColumns = []string{
	colID, colHealth, colSpecies, colSteward, colBorough,
	colLatitude, colLongitude, colXSP, colYSP,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Stats summarizes one load.
type Stats struct {
	Read    int
	Kept    int
	Dropped int
}

// Load reads a gzip CSV from path and returns the materialized table.
func Load(path string, logger *slog.Logger) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	defer zr.Close()

	table, stats, err := Read(zr)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Info("dataset loaded",
		"path", path,
		"rows_read", stats.Read,
		"rows_kept", stats.Kept,
		"rows_dropped", stats.Dropped,
		"species", len(table.Species()),
		"boroughs", len(table.Boroughs()),
	)
	return table, nil
}

// Read parses uncompressed census CSV. Rows with an empty health or steward
// are dropped; any other malformed value fails the whole load.
func Read(r io.Reader) (*domain.Table, Stats, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		rows  []domain.Tree
		stats Stats
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv: %w", err)
		}
		stats.Read++
		line, _ := cr.FieldPos(0)

		get := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }

		rawHealth, rawSteward := get(colHealth), get(colSteward)
		if rawHealth == "" || rawSteward == "" {
			stats.Dropped++
			continue
		}

		tree, err := parseRow(get, rawHealth, rawSteward)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, tree)
	}
	stats.Kept = len(rows)
	return domain.NewTable(rows), stats, nil
}

func parseRow(get func(string) string, rawHealth, rawSteward string) (domain.Tree, error) {
	health, err := domain.ParseHealth(rawHealth)
	if err != nil {
		return domain.Tree{}, err
	}
	steward, err := domain.ParseSteward(rawSteward)
	if err != nil {
		return domain.Tree{}, err
	}
	lat, err := parseFloat(get(colLatitude), colLatitude, true)
	if err != nil {
		return domain.Tree{}, err
	}
	lon, err := parseFloat(get(colLongitude), colLongitude, true)
	if err != nil {
		return domain.Tree{}, err
	}
	xsp, err := parseFloat(get(colXSP), colXSP, false)
	if err != nil {
		return domain.Tree{}, err
	}
	ysp, err := parseFloat(get(colYSP), colYSP, false)
	if err != nil {
		return domain.Tree{}, err
	}

	return domain.Tree{
		ID:      get(colID),
		Health:  health,
		Species: domain.NormalizeSpecies(get(colSpecies)),
		Steward: steward,
		Borough: get(colBorough),
		Lat:     lat,
		Lon:     lon,
		XSP:     xsp,
		YSP:     ysp,
	}, nil
}

func parseFloat(s, col string, required bool) (float64, error) {
	if s == "" && !required {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, s)
	}
	return v, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Some exports carry a UTF-8 byte order mark on the first column.
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}
