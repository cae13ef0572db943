package dataprep

import (
	"strconv"

	"github.com/eliekawerk/twde-datalab/pkg/data"
)

// Column names the pipeline relies on.
const (
	ColID         = "id"
	ColDate       = "date"
	ColItem       = "item_nbr"
	ColStore      = "store_nbr"
	ColTarget     = "unit_sales"
	ColPerishable = "perishable"
)

// Schema describes which columns are label encoded. Every other column
// must be numeric.
type Schema struct {
	Categorical []string
}

// IsCategorical reports whether the column is declared categorical.
// The id and target columns are always numeric.
func (s Schema) IsCategorical(name string) bool {
	if name == ColID || name == ColTarget {
		return false
	}
	for _, c := range s.Categorical {
		if c == name {
			return true
		}
	}
	return false
}

// InferSchema declares as categorical every column of t holding a
// non-missing cell that does not parse as a number. The date column is
// skipped since it is dropped before encoding, as are id and target.
func InferSchema(t *data.Table) Schema {
	var s Schema
	for _, name := range t.Columns {
		if name == ColDate || name == ColID || name == ColTarget {
			continue
		}
		col, _ := t.Column(name)
		for _, v := range col {
			if data.IsMissing(v) {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				s.Categorical = append(s.Categorical, name)
				break
			}
		}
	}
	return s
}
