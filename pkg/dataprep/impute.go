package dataprep

import "github.com/eliekawerk/twde-datalab/pkg/data"

// MissingMarker stands in for missing values before encoding, both as
// the numeric fill and as its own category.
const MissingMarker = "-1"

// MissingValue is MissingMarker as a number.
const MissingValue = -1.0

// ImputeConstant returns a copy of col with missing cells replaced by constant.
func ImputeConstant(col []string, constant string) []string {
	out := make([]string, len(col))
	for i, v := range col {
		if data.IsMissing(v) {
			out[i] = constant
		} else {
			out[i] = v
		}
	}
	return out
}

// ClampNegative sets every negative value of the named column to zero.
// A frame without the column is left untouched.
func ClampNegative(f *data.Frame, column string) {
	if !f.Has(column) {
		return
	}
	for i := 0; i < f.Len(); i++ {
		if f.At(i, column) < 0 {
			f.Set(i, column, 0)
		}
	}
}
