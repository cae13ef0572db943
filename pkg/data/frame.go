package data

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var nan = math.NaN()

// Frame is a numeric table: named columns over a dense row-major matrix.
// A Frame with no rows or no columns carries a nil matrix.
type Frame struct {
	Columns []string

	m     *mat.Dense
	index map[string]int
}

// NewFrame builds a frame from row-major data. Every row must have
// len(columns) values.
func NewFrame(columns []string, rows [][]float64) (*Frame, error) {
	f, err := emptyFrame(columns)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(columns) == 0 {
		return f, nil
	}
	f.m = mat.NewDense(len(rows), len(columns), nil)
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
		f.m.SetRow(i, row)
	}
	return f, nil
}

// FromColumns builds a frame from column-major data of equal length.
func FromColumns(columns []string, cols [][]float64) (*Frame, error) {
	if len(cols) != len(columns) {
		return nil, errors.Errorf("%d columns named, %d given", len(columns), len(cols))
	}
	f, err := emptyFrame(columns)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 || len(cols[0]) == 0 {
		return f, nil
	}
	n := len(cols[0])
	f.m = mat.NewDense(n, len(columns), nil)
	for j, col := range cols {
		if len(col) != n {
			return nil, errors.Errorf("column %q has %d values, want %d", columns[j], len(col), n)
		}
		f.m.SetCol(j, col)
	}
	return f, nil
}

func emptyFrame(columns []string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for j, c := range columns {
		if _, dup := index[c]; dup {
			return nil, errors.Errorf("duplicate column %q", c)
		}
		index[c] = j
	}
	return &Frame{Columns: append([]string(nil), columns...), index: index}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f.m == nil {
		return 0
	}
	r, _ := f.m.Dims()
	return r
}

// Has reports whether the frame carries the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// At returns the value of the named column in row i.
func (f *Frame) At(i int, name string) float64 {
	return f.m.At(i, f.index[name])
}

// Set overwrites the value of the named column in row i.
func (f *Frame) Set(i int, name string, v float64) {
	f.m.Set(i, f.index[name], v)
}

// Col returns a copy of the named column.
func (f *Frame) Col(name string) ([]float64, error) {
	j, ok := f.index[name]
	if !ok {
		return nil, errors.Errorf("no column %q", name)
	}
	if f.m == nil {
		return []float64{}, nil
	}
	return mat.Col(nil, j, f.m), nil
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []float64 {
	return mat.Row(nil, i, f.m)
}

// Rows returns a copy of every row.
func (f *Frame) Rows() [][]float64 {
	out := make([][]float64, f.Len())
	for i := range out {
		out[i] = f.Row(i)
	}
	return out
}

// Select returns the named columns in the given order.
func (f *Frame) Select(names []string) (*Frame, error) {
	cols := make([][]float64, len(names))
	for k, n := range names {
		c, err := f.Col(n)
		if err != nil {
			return nil, err
		}
		cols[k] = c
	}
	if f.Len() == 0 {
		return emptyFrame(names)
	}
	return FromColumns(names, cols)
}

// Drop returns a copy without the named columns; absent names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []string
	for _, c := range f.Columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	out, _ := f.Select(keep)
	return out
}

// SelectRows returns a copy holding rows idx, in that order.
func (f *Frame) SelectRows(idx []int) *Frame {
	out, _ := emptyFrame(f.Columns)
	if len(idx) == 0 || len(f.Columns) == 0 {
		return out
	}
	out.m = mat.NewDense(len(idx), len(f.Columns), nil)
	for k, i := range idx {
		out.m.SetRow(k, f.m.RawRowView(i))
	}
	return out
}

// FillNaN replaces every NaN with v in place.
func (f *Frame) FillNaN(v float64) {
	if f.m == nil {
		return
	}
	f.m.Apply(func(_, _ int, x float64) float64 {
		if math.IsNaN(x) {
			return v
		}
		return x
	}, f.m)
}

// IDSet is a set of row identifiers.
type IDSet map[float64]struct{}

// NewIDSet collects ids into a set.
func NewIDSet(ids []float64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id float64) bool {
	_, ok := s[id]
	return ok
}
