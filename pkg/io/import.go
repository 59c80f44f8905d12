package io

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/fhgr/curnav/pkg/records"
)

// ImportFile reads the table at path, choosing the format by extension.
func ImportFile(path string) ([]records.Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadRows decodes a table in the given format. ReadRows does not close r.
func ReadRows(r io.Reader, format Format) ([]records.Row, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatCSV:
		return readCSV(r)
	case FormatJSON:
		return readJSON(r)
	case FormatYAML:
		return readYAML(r)
	case FormatTOML:
		return readTOML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func readXLSX(r io.Reader) ([]records.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromGrid(grid), nil
}

func readCSV(r io.Reader) ([]records.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	return fromGrid(grid), nil
}

// fromGrid maps a header row plus data rows onto records. Short rows leave
// trailing columns missing and fully blank rows are skipped.
func fromGrid(grid [][]string) []records.Row {
	if len(grid) == 0 {
		return nil
	}
	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var out []records.Row
	for _, cells := range grid[1:] {
		row := make(records.Row, len(header))
		blank := true
		for i, col := range header {
			if col == "" || i >= len(cells) {
				continue
			}
			if v := cells[i]; strings.TrimSpace(v) != "" {
				row[col] = v
				blank = false
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

func readJSON(r io.Reader) ([]records.Row, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return toRows(raw), nil
}

func readYAML(r io.Reader) ([]records.Row, error) {
	var raw []map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return toRows(raw), nil
}

type tomlTable struct {
	Modules []map[string]any `toml:"module"`
}

func readTOML(r io.Reader) ([]records.Row, error) {
	var doc tomlTable
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return toRows(doc.Modules), nil
}

func toRows(raw []map[string]any) []records.Row {
	out := make([]records.Row, 0, len(raw))
	for _, m := range raw {
		out = append(out, records.Row(m))
	}
	return out
}
