// Package table holds the in-memory form of a tabular source: an ordered list of columns and
// an ordered list of rows keyed by column name.
package table

import (
	"fmt"
	"strings"
)

// Row maps column names to cell values.
type Row map[string]string

// Table is an ordered set of rows sharing a column set.
// Row order is the order the rows were read from the source and is preserved on write.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// FromRecords builds a table from raw records whose first record is the header.
// Records shorter than the header are padded with empty strings; extra cells are dropped.
// Blank header cells are named by position ("Column 3") so no data is silently lost.
func FromRecords(name string, records [][]string) Table {
	t := Table{Name: name}
	if len(records) == 0 {
		return t
	}
	t.Columns = make([]string, len(records[0]))
	seen := make(map[string]int)
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s (%d)", h, n+1)
		} else {
			seen[h] = 1
		}
		t.Columns[i] = h
	}
	t.Rows = make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		r := make(Row, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(rec) {
				r[c] = rec[i]
			} else {
				r[c] = ""
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// Records returns the header followed by every row in column order.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	copy(header, t.Columns)
	out = append(out, header)
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = r[c]
		}
		out = append(out, rec)
	}
	return out
}

// HasColumn reports whether the table has a column with exactly this name.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{
		Name:    t.Name,
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// FindRow returns the first row whose column equals value.
func (t Table) FindRow(column, value string) (Row, bool) {
	for _, r := range t.Rows {
		if r[column] == value {
			return r, true
		}
	}
	return nil, false
}

// Len is the number of data rows.
func (t Table) Len() int { return len(t.Rows) }
