// Package table reads and writes the identifier-plus-features tables the
// resolver consumes and produces.
//
// A Table is kept as strings so that a malformed cell in one sample row
// can be reported against that row instead of failing the whole load.
// Column 0 is always the row identifier.
package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Errors returned by the table package.
var (
	ErrNoHeader          = errors.New("table: missing header row")
	ErrSheetNotFound     = errors.New("table: sheet not found")
	ErrUnsupportedFormat = errors.New("table: unsupported file format")
)

// lockPrefix marks office lock files that sit next to open spreadsheets.
const lockPrefix = ".~lock."

// Table is a header row plus data rows.
type Table struct {
	Columns []string
	Rows    [][]string

	// Lines holds the 1-based source line (or sheet row) of each entry in
	// Rows, with the header on line 1. It may be nil for tables built in
	// memory.
	Lines []int
}

// New builds a table from a header and rows. Header cells are normalized
// with NormalizeName. Short rows are padded with empty cells; long rows
// are kept as they are. Rows whose cells are all blank are dropped; Lines
// keeps the position each remaining row had, counting the header as line 1.
func New(columns []string, rows [][]string) (Table, error) {
	return newTable(columns, rows, nil)
}

// newTable is New with explicit source lines for rows. A nil lines
// numbers rows consecutively after the header.
func newTable(columns []string, rows [][]string, lines []int) (Table, error) {
	if len(columns) == 0 {
		return Table{}, ErrNoHeader
	}

	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = NormalizeName(c)
	}

	out := make([][]string, 0, len(rows))
	outLines := make([]int, 0, len(rows))
	for k, row := range rows {
		if isBlank(row) {
			continue
		}
		r := make([]string, max(len(row), len(cols)))
		for i, cell := range row {
			r[i] = strings.TrimSpace(cell)
		}
		out = append(out, r)

		line := k + 2
		if lines != nil {
			line = lines[k]
		}
		outLines = append(outLines, line)
	}

	return Table{Columns: cols, Rows: out, Lines: outLines}, nil
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Features returns the column names after the identifier column.
func (t Table) Features() []string {
	if len(t.Columns) == 0 {
		return nil
	}
	return t.Columns[1:]
}

// Line returns the source line of row i. Without recorded lines, rows
// are assumed to follow the header directly.
func (t Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// ID returns the identifier cell of row i.
func (t Table) ID(i int) string {
	if len(t.Rows[i]) == 0 {
		return ""
	}
	return t.Rows[i][0]
}

// NormalizeName applies Unicode NFKC and trims surrounding whitespace, so
// that full-width or compatibility characters in spreadsheet headers
// compare equal to their plain forms.
func NormalizeName(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// SameName reports whether two column names match after normalization,
// ignoring case.
func SameName(a, b string) bool {
	return strings.EqualFold(NormalizeName(a), NormalizeName(b))
}

// Read loads a table from path. The format follows the extension: .csv,
// .tsv and .txt are delimited text, .xlsx is a workbook read from the
// given zero-based sheet index. sheet is ignored for text files.
func Read(path string, sheet int) (Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return Table{}, fmt.Errorf("table: open %s: %w", path, err)
		}
		defer f.Close()

		t, err := ReadDelimited(f)
		if err != nil {
			return Table{}, fmt.Errorf("table: read %s: %w", path, err)
		}
		return t, nil
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Write stores t at path in the format implied by the extension.
func Write(path string, t Table) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("table: create %s: %w", path, err)
		}

		delim := ','
		if ext == ".tsv" || ext == ".txt" {
			delim = '\t'
		}
		if err := WriteDelimited(f, t, delim); err != nil {
			f.Close()
			return fmt.Errorf("table: write %s: %w", path, err)
		}
		return f.Close()
	case ".xlsx":
		return WriteXLSX(path, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ListTables returns the readable table files in dir, sorted by name.
// Office lock files and subdirectories are skipped.
func ListTables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("table: list %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, lockPrefix) {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv", ".tsv", ".txt", ".xlsx", ".xlsm":
			out = append(out, filepath.Join(dir, name))
		}
	}
	slices.Sort(out)

	return out, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
