// Package export writes tables of text cells to disk.
//
// Three formats are supported: CSV (the default), Apache Parquet and SQLite.
// Every format carries a positional row index as its first column.
package export

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var (
	// ErrUnknownFormat is returned by ForFormat for unsupported names.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrRaggedRow reports a row whose width differs from the header.
	ErrRaggedRow = errors.New("row width does not match columns")
)

// Cell is one value; nil is a missing value.
type Cell = *string

// Table is a named, column-ordered set of rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// Validate checks that every row is as wide as the header.
func (t Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: table %s row %d has %d cells, want %d",
				ErrRaggedRow, t.Name, i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Exporter writes a table to a single file.
type Exporter interface {
	// Ext is the file extension without the dot.
	Ext() string

	// WriteTable replaces the file at path with t.
	WriteTable(path string, t Table) error
}

var formats = map[string]func() Exporter{
	"csv":     func() Exporter { return CSV{} },
	"parquet": func() Exporter { return Parquet{} },
	"sqlite":  func() Exporter { return SQLite{} },
}

// ForFormat returns the exporter registered under name (case-insensitive).
func ForFormat(name string) (Exporter, error) {
	newExporter, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return newExporter(), nil
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Str returns a cell holding s.
func Str(s string) Cell {
	return &s
}

func removeExisting(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove existing %s: %w", path, err)
	}
	return nil
}
