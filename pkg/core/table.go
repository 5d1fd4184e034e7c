package core

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Table
// =============================================================================

// Table is an in-memory tabular record set. Every cell holds the raw text
// read from the source; Rows are row-major and each row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates a table with the given header and no rows.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return len(t.Rows), len(t.Columns)
}

// Index returns the position of the named column, or -1 if absent.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, &SchemaError{Missing: []string{name}}
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Require checks that every named column is present.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Drop returns a new table without the named columns. Unknown names are ignored.
// Row slices are freshly allocated; the receiver is not modified.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	out := &Table{}
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			out.Columns = append(out.Columns, c)
		}
	}

	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		nr := make([]string, len(keep))
		for j, idx := range keep {
			nr[j] = row[idx]
		}
		out.Rows[r] = nr
	}
	return out
}

// Filter returns a new table holding the rows for which keep returns true,
// in their original relative order.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for i, row := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// =============================================================================
// Schema errors
// =============================================================================

// ErrSchemaMismatch is the error kind for input whose column set does not
// match what a stage expects.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError describes a schema mismatch. It matches ErrSchemaMismatch
// with errors.Is.
type SchemaError struct {
	// Missing lists expected columns that are absent.
	Missing []string
	// Column and Row locate the problem when Reason is set. Row is 1-based;
	// zero means the problem concerns the whole column.
	Column string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Reason != "" && e.Row > 0:
		return fmt.Sprintf("schema mismatch: column %q row %d: %s", e.Column, e.Row, e.Reason)
	case e.Reason != "":
		return fmt.Sprintf("schema mismatch: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("schema mismatch: missing columns: %s", strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrSchemaMismatch.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
