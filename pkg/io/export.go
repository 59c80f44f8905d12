package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/fhgr/curnav/pkg/records"
)

// SheetName is the worksheet written by the XLSX exporter.
const SheetName = "Module"

// ExportFile writes mods to path, choosing the format by extension.
func ExportFile(mods []records.Module, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteModules(&buf, format, mods); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteModules encodes mods in the given format using the workbook columns.
func WriteModules(w io.Writer, format Format, mods []records.Module) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, mods)
	case FormatCSV:
		return writeCSV(w, mods)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ToRows(mods))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ToRows(mods)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		doc := tomlTable{Modules: make([]map[string]any, len(mods))}
		for i, r := range ToRows(mods) {
			doc.Modules[i] = r
		}
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ToRows converts modules back to raw rows. List fields are joined with
// [records.ListSeparator] and empty text fields are omitted.
func ToRows(mods []records.Module) []records.Row {
	out := make([]records.Row, len(mods))
	for i, m := range mods {
		row := records.Row{records.ColID: m.ID, records.ColCredits: m.Credits}
		set := func(col, v string) {
			if v != "" {
				row[col] = v
			}
		}
		set(records.ColName, m.Name)
		set(records.ColGroup, m.Group)
		set(records.ColSemester, m.Semester)
		set(records.ColDescription, m.Description)
		set(records.ColLearningGoals, m.LearningGoals)
		set(records.ColResponsible, m.Responsible)
		set(records.ColTags, joinList(m.Tags))
		set(records.ColHardPrereqs, joinList(m.HardPrereqs))
		set(records.ColSoftPrereqs, joinList(m.SoftPrereqs))
		out[i] = row
	}
	return out
}

func joinList(v []string) string {
	return strings.Join(v, records.ListSeparator+" ")
}

// cells renders a module as one text cell per workbook column.
func cells(row records.Row) []string {
	out := make([]string, len(records.Columns))
	for i, col := range records.Columns {
		if v, ok := row[col]; ok {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func writeCSV(w io.Writer, mods []records.Module) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(records.Columns); err != nil {
		return err
	}
	for _, r := range ToRows(mods) {
		if err := cw.Write(cells(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, mods []records.Module) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := make([]any, len(records.Columns))
	for i, c := range records.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range ToRows(mods) {
		vals := make([]any, len(records.Columns))
		for j, col := range records.Columns {
			vals[j] = r[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
