package io

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/fhgr/curnav/pkg/errors"
)

// Format identifies a table file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists all supported formats.
var Formats = []Format{FormatXLSX, FormatCSV, FormatJSON, FormatYAML, FormatTOML}

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// ErrNoDataset is returned by [Discover] when no candidate exists.
var ErrNoDataset = errors.New("no dataset file found")

// DetectFormat maps a file extension to a format.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Discover returns the first candidate path that exists as a regular file.
// Relative candidates are resolved against dir and must stay inside it.
func Discover(dir string, candidates []string) (string, error) {
	for _, c := range candidates {
		p := c
		if !filepath.IsAbs(p) {
			if err := apperrors.ValidatePath(p); err != nil {
				return "", fmt.Errorf("dataset candidate %q: %w", c, err)
			}
			p = filepath.Join(dir, p)
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoDataset, strings.Join(candidates, ", "))
}
