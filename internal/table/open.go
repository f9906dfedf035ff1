package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported file formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// FormatFromPath infers the table format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("cannot infer table format from extension %q", ext)
	}
}

// Open loads the event table at path. An empty format is inferred from the
// extension; sheet only applies to XLSX.
func Open(path, format, sheet string) (*Memory, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event table: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	switch strings.ToLower(format) {
	case FormatCSV:
		return LoadCSV(name, f)
	case FormatXLSX:
		return LoadXLSX(name, f, sheet)
	default:
		return nil, fmt.Errorf("unsupported table format %q", format)
	}
}
