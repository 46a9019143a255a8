// Package domain models the NYC 2015 Street Tree Census as used by the tree
// health dashboard.
//
// # Data Source
//
// Rows come from the city's open data export "2015 Street Tree Census - Tree
// Data" (https://data.cityofnewyork.us/Environment/2015-Street-Tree-Census-Tree-Data/uvpi-gqnh),
// shipped gzip-compressed. Only nine columns are kept:
//
//	tree_id, health, spc_common, steward, borough, latitude, longitude, x_sp, y_sp
//
// Stumps and dead trees carry no health or steward value; those rows are
// dropped at load time and never reach the table.
//
// # Census Conventions
//
// Health is one of "Poor", "Fair", "Good". Every chart and list shows them in
// that order, colored red, orange and green.
//
// Steward counts signs of volunteer care and is an ordinal:
//
//	None < 1or2 < 3or4 < 4orMore
//
// The dashboard slider selects a ceiling 0..3 and always includes every lower
// tier. A ceiling outside 0..3 is a programming error and panics.
//
// Common names arrive lower case with one mis-quoted entry
// ("'Schubert' chokecherry"). [NormalizeSpecies] fixes the quoting, title
// cases the name and turns the possessive "'S" that title casing produces
// back into "'s".
//
// # Lifecycle
//
// A [Table] is built once by [NewTable] and never mutated. [Filter] and the
// aggregation functions only read it and return fresh slices, so the table can
// be shared across concurrent requests without locks.
package domain
