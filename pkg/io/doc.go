// Package io reads and writes curriculum module tables.
//
// The curriculum is maintained as a spreadsheet with one row per module and
// the columns listed in [records.Columns]. This package turns such tables into
// raw [records.Row] values for the normalizer, and writes normalized modules
// back out. Supported formats are chosen by file extension:
//
//	.xlsx         first worksheet, header in row 1
//	.csv          comma separated, header in the first record
//	.json         array of objects keyed by column name
//	.yaml, .yml   sequence of mappings keyed by column name
//	.toml         array of tables named "module"
//
// Empty cells are reported as missing (nil) so that the normalizer applies its
// defaults. List-valued columns keep their ";"-separated text form in every
// format.
//
// Reading:
//
//	rows, err := io.ImportFile("Modulplan.xlsx")
//	res := records.Normalize(rows)
//
// Writing:
//
//	err := io.ExportFile(res.Modules, "modules.yaml")
package io
