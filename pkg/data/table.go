package data

import (
	"strconv"

	"github.com/pkg/errors"
)

// missingMarkers are the cell spellings read as a missing value.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"NULL": {},
	"null": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	_, ok := missingMarkers[cell]
	return ok
}

// Table is an ordered set of rows of raw text cells keyed by column name.
type Table struct {
	Columns []string
	Records [][]string

	index map[string]int
}

// NewTable validates the record widths and builds the column index.
func NewTable(columns []string, records [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for j, c := range columns {
		if _, dup := index[c]; dup {
			return nil, errors.Errorf("duplicate column %q", c)
		}
		index[c] = j
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, errors.Errorf("record %d has %d fields, header has %d", i+1, len(rec), len(columns))
		}
	}
	return &Table{Columns: columns, Records: records, index: index}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Records) }

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	j, ok := t.index[name]
	return j, ok
}

// Has reports whether the table carries the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.Errorf("no column %q", name)
	}
	out := make([]string, len(t.Records))
	for i, rec := range t.Records {
		out[i] = rec[j]
	}
	return out, nil
}

// Float parses the named column. Missing cells become NaN.
func (t *Table) Float(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return ParseFloats(name, cells, nan)
}

// Drop returns a copy of the table without the named columns.
// Names that are not present are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []int
	var columns []string
	for j, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, j)
			columns = append(columns, c)
		}
	}
	records := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(keep))
		for k, j := range keep {
			row[k] = rec[j]
		}
		records[i] = row
	}
	out, _ := NewTable(columns, records)
	return out
}

// Concat appends other's rows after t's rows. Columns follow t's order,
// columns only present in other are appended; cells a table lacks are missing.
func (t *Table) Concat(other *Table) (*Table, error) {
	columns := append([]string(nil), t.Columns...)
	for _, c := range other.Columns {
		if !t.Has(c) {
			columns = append(columns, c)
		}
	}
	records := make([][]string, 0, t.Len()+other.Len())
	for _, src := range []*Table{t, other} {
		for _, rec := range src.Records {
			row := make([]string, len(columns))
			for k, c := range columns {
				if j, ok := src.index[c]; ok {
					row[k] = rec[j]
				}
			}
			records = append(records, row)
		}
	}
	return NewTable(columns, records)
}

// ParseFloats converts cells to float64, substituting fill for missing cells.
func ParseFloats(column string, cells []string, fill float64) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, s := range cells {
		if IsMissing(s) {
			out[i] = fill
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Errorf("column %q row %d: non-numeric value %q", column, i+1, s)
		}
		out[i] = v
	}
	return out, nil
}
