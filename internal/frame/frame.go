package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// valueKind discriminates the three cell states.
type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindNumber
	kindText
)

// Value is a single table cell: absent, numeric, or text.
// Absence is structural and distinct from 0 and "". Value is comparable,
// so it can be used directly in map keys and test assertions.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Absent returns the canonical absent marker.
func Absent() Value { return Value{} }

// Num returns a numeric cell value.
func Num(f float64) Value { return Value{kind: kindNumber, num: f} }

// Str returns a textual cell value.
func Str(s string) Value { return Value{kind: kindText, str: s} }

// IsAbsent reports whether the cell holds no value.
func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

// Float returns the numeric content, if any.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

// Text returns the textual content, if any.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == kindText
}

// Render returns the cell's string form: "" for absent, the text as-is,
// or the shortest representation of the number. Categorical comparisons
// (domains, sentinels, keys) operate on this rendering.
func (v Value) Render() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case kindText:
		return v.str
	default:
		return ""
	}
}

// Table is an ordered set of named columns over rows of Values.
// Transforms never mutate their receiver; each returns a new Table.
type Table struct {
	cols []string
	rows [][]Value
}

// NewTable creates an empty table with the given column names.
func NewTable(cols ...string) Table {
	return Table{cols: append([]string(nil), cols...)}
}

// FromRows builds a table over the given rows in one step, padding or
// truncating each row to the column count. Bulk loaders use this instead
// of repeated AppendRow, which copies the table on every call.
func FromRows(cols []string, rows [][]Value) Table {
	t := NewTable(cols...)
	t.rows = make([][]Value, len(rows))
	for i, r := range rows {
		row := make([]Value, len(t.cols))
		copy(row, r)
		t.rows[i] = row
	}
	return t
}

// Columns returns the column names in declaration order.
func (t Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// ColumnIndex returns the position of a named column.
func (t Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// AppendRow adds a row, padding or truncating to the column count,
// and returns the grown table. Short rows are padded with absent cells.
func (t Table) AppendRow(cells ...Value) Table {
	row := make([]Value, len(t.cols))
	copy(row, cells)
	out := t
	out.rows = append(append([][]Value(nil), t.rows...), row)
	return out
}

// Cell returns the value at row i in the named column.
func (t Table) Cell(i int, col string) (Value, error) {
	idx, ok := t.ColumnIndex(col)
	if !ok {
		return Value{}, &UnknownColumnError{Column: col}
	}
	if i < 0 || i >= len(t.rows) {
		return Value{}, fmt.Errorf("row %d out of range (table has %d rows)", i, len(t.rows))
	}
	return t.rows[i][idx], nil
}

// Row provides named access to one row's cells.
type Row struct {
	t *Table
	i int
}

// Row returns an accessor for row i. The accessor is only valid while
// the table is alive and unmodified.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Value returns the named cell of this row.
func (r Row) Value(col string) (Value, bool) {
	idx, ok := r.t.ColumnIndex(col)
	if !ok {
		return Value{}, false
	}
	return r.t.rows[r.i][idx], true
}

// WithColumn returns a copy of the table extended by one derived column
// computed per row. The source table is unchanged.
func (t Table) WithColumn(name string, f func(Row) Value) Table {
	out := Table{cols: append(t.Columns(), name)}
	out.rows = make([][]Value, len(t.rows))
	for i := range t.rows {
		row := make([]Value, len(out.cols))
		copy(row, t.rows[i])
		row[len(out.cols)-1] = f(t.Row(i))
		out.rows[i] = row
	}
	return out
}

// WithColumnValues returns a copy of the table extended by one column with
// precomputed per-row values, for derivations that can fail and therefore
// cannot run inside a WithColumn callback.
func (t Table) WithColumnValues(name string, vals []Value) (Table, error) {
	if len(vals) != len(t.rows) {
		return Table{}, fmt.Errorf("column %q has %d values for %d rows", name, len(vals), len(t.rows))
	}
	out := Table{cols: append(t.Columns(), name)}
	out.rows = make([][]Value, len(t.rows))
	for i := range t.rows {
		row := make([]Value, len(out.cols))
		copy(row, t.rows[i])
		row[len(out.cols)-1] = vals[i]
		out.rows[i] = row
	}
	return out, nil
}

// Select returns a copy containing only the named columns, in the given order.
func (t Table) Select(cols ...string) (Table, error) {
	idxs := make([]int, len(cols))
	for i, c := range cols {
		idx, ok := t.ColumnIndex(c)
		if !ok {
			return Table{}, &UnknownColumnError{Column: c}
		}
		idxs[i] = idx
	}
	out := NewTable(cols...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		cells := make([]Value, len(idxs))
		for j, idx := range idxs {
			cells[j] = row[idx]
		}
		out.rows[i] = cells
	}
	return out, nil
}

// Sorted returns a copy ordered lexicographically by the rendered values of
// the given columns. Dates in ISO form sort chronologically.
func (t Table) Sorted(cols ...string) (Table, error) {
	idxs := make([]int, len(cols))
	for i, c := range cols {
		idx, ok := t.ColumnIndex(c)
		if !ok {
			return Table{}, &UnknownColumnError{Column: c}
		}
		idxs[i] = idx
	}
	out := Table{cols: t.Columns(), rows: append([][]Value(nil), t.rows...)}
	sort.SliceStable(out.rows, func(a, b int) bool {
		for _, idx := range idxs {
			va, vb := out.rows[a][idx].Render(), out.rows[b][idx].Render()
			if va != vb {
				return va < vb
			}
		}
		return false
	})
	return out, nil
}

// keyIndices resolves a key's column names to positions, surfacing the
// first unknown name.
func (t Table) keyIndices(key []string) ([]int, error) {
	idxs := make([]int, len(key))
	for i, c := range key {
		idx, ok := t.ColumnIndex(c)
		if !ok {
			return nil, &UnknownColumnError{Column: c}
		}
		idxs[i] = idx
	}
	return idxs, nil
}

// keyOf joins the rendered key cells of one row with an unprintable
// separator so composite keys group and sort deterministically.
func keyOf(row []Value, idxs []int) string {
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = row[idx].Render()
	}
	return strings.Join(parts, "\x1f")
}
