// Package table implements the in-memory named-column tables the
// reconciliation pipeline is built on: nullable cells, stable sorts,
// group-by, deduplication, and string-keyed inner/left joins. Every source
// file is loaded into a Table and every pipeline stage is a Table-to-Table
// transformation.
package table

import "sort"

// Row maps column names to cell values. Columns absent from a row read as
// null.
type Row map[string]Value

// Get returns the cell for col, or null when the row has no such column.
func (r Row) Get(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Null()
}

// Probe returns the first non-null cell among the candidate columns, in
// order, together with the column that supplied it. Logical fields that
// appear under several possible column names (pos/POS/position, split vs
// combined rebounds) are always resolved through Probe so the candidate
// order stays declarative.
func (r Row) Probe(candidates ...string) (Value, string, bool) {
	for _, c := range candidates {
		if v, ok := r[c]; ok && !v.IsNull() {
			return v, c, true
		}
	}
	return Null(), "", false
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of rows sharing a column set.
type Table struct {
	cols []string
	rows []Row
}

// New returns an empty table with the given columns.
func New(cols ...string) *Table {
	return &Table{cols: append([]string(nil), cols...)}
}

// Empty returns a table with no columns and no rows, the degraded-result
// sentinel every pipeline component falls back to.
func Empty() *Table {
	return &Table{}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn registers a column name; existing rows read null until set.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.cols = append(t.cols, name)
	}
}

// Append adds a row. Unknown keys in the row are registered as new columns.
func (t *Table) Append(r Row) {
	for k := range r {
		t.AddColumn(k)
	}
	t.rows = append(t.rows, r)
}

// Rows returns the underlying rows. Callers treat the result as read-only
// except when building derived columns in place.
func (t *Table) Rows() []Row {
	return t.rows
}

// Row returns row i.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Filter returns the rows for which keep is true, preserving order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.cols...)
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// SortBy returns the rows stably sorted by less.
func (t *Table) SortBy(less func(a, b Row) bool) *Table {
	out := New(t.cols...)
	out.rows = append([]Row(nil), t.rows...)
	sort.SliceStable(out.rows, func(i, j int) bool {
		return less(out.rows[i], out.rows[j])
	})
	return out
}

// Rename renames a column, leaving the table unchanged if old is absent.
func (t *Table) Rename(old, new string) *Table {
	out := New()
	for _, c := range t.cols {
		if c == old {
			out.cols = append(out.cols, new)
		} else {
			out.cols = append(out.cols, c)
		}
	}
	for _, r := range t.rows {
		nr := r.Clone()
		if v, ok := nr[old]; ok {
			delete(nr, old)
			nr[new] = v
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Select projects the table onto the requested columns. Columns the table
// does not have are silently skipped.
func (t *Table) Select(cols []string) *Table {
	out := New()
	for _, c := range cols {
		if t.HasColumn(c) {
			out.cols = append(out.cols, c)
		}
	}
	for _, r := range t.rows {
		nr := make(Row, len(out.cols))
		for _, c := range out.cols {
			if v, ok := r[c]; ok {
				nr[c] = v
			}
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// DropDuplicates keeps the first row for each distinct value of key.
func (t *Table) DropDuplicates(key string) *Table {
	seen := make(map[string]bool)
	return t.Filter(func(r Row) bool {
		k := r.Get(key).String()
		if seen[k] {
			return false
		}
		seen[k] = true
		return true
	})
}

// DropNull drops every row with a null in any column of the table.
func (t *Table) DropNull() *Table {
	return t.Filter(func(r Row) bool {
		for _, c := range t.cols {
			if r.Get(c).IsNull() {
				return false
			}
		}
		return true
	})
}

// Group is one group-by bucket, in first-seen order.
type Group struct {
	Key  string
	Rows []Row
}

// GroupBy buckets rows by the string produced by key, preserving both the
// order groups are first seen and the row order inside each group.
func (t *Table) GroupBy(key func(Row) string) []Group {
	idx := make(map[string]int)
	var groups []Group
	for _, r := range t.rows {
		k := key(r)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// InnerJoin joins on string equality of the key column; rows whose key is
// null or unmatched are dropped. When both sides carry a non-key column of
// the same name the left value wins. Multiple matches on the right produce
// multiple output rows.
func (t *Table) InnerJoin(right *Table, on string) *Table {
	return t.join(right, on, false)
}

// LeftJoin keeps every left row; unmatched rows read null for the right
// side's columns.
func (t *Table) LeftJoin(right *Table, on string) *Table {
	return t.join(right, on, true)
}

func (t *Table) join(right *Table, on string, keepUnmatched bool) *Table {
	out := New(t.cols...)
	for _, c := range right.cols {
		out.AddColumn(c)
	}

	matches := make(map[string][]Row, right.Len())
	for _, r := range right.rows {
		k := r.Get(on)
		if k.IsNull() {
			continue
		}
		matches[k.String()] = append(matches[k.String()], r)
	}

	for _, l := range t.rows {
		k := l.Get(on)
		rs := []Row(nil)
		if !k.IsNull() {
			rs = matches[k.String()]
		}
		if len(rs) == 0 {
			if keepUnmatched {
				out.rows = append(out.rows, l.Clone())
			}
			continue
		}
		for _, r := range rs {
			nr := l.Clone()
			for c, v := range r {
				if _, taken := nr[c]; !taken {
					nr[c] = v
				}
			}
			out.rows = append(out.rows, nr)
		}
	}
	return out
}
