// Package records turns raw curriculum spreadsheet rows into canonical module
// records.
//
// # Overview
//
// Curriculum data arrives as loosely typed rows: every cell may be missing,
// numeric where text is expected, or a semicolon-separated list. [Normalize]
// is the only place in curnav that coerces and validates these cells; all
// downstream packages ([depgraph], [explore]) work on the typed [Module].
//
// # Data Quality
//
// Normalization never fails. Problems are recovered with a documented
// fallback and reported as [Issue] values:
//
//   - empty or whitespace-only IDs: the row is dropped
//   - duplicate IDs: the first occurrence wins, later rows are dropped
//   - non-numeric, negative or non-finite credits: the value becomes 0
//
// The graph builder appends dangling prerequisite references to the same
// [Diagnostics] list.
//
// # Columns
//
// Rows are keyed by the column names of the curriculum workbook
// ([ColID], [ColName], [ColGroup], ...). Unknown columns are ignored.
//
// [depgraph]: github.com/fhgr/curnav/pkg/depgraph
// [explore]: github.com/fhgr/curnav/pkg/explore
package records
