package dataprep

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/eliekawerk/twde-datalab/pkg/data"
	"github.com/eliekawerk/twde-datalab/pkg/loader"
)

// LabelEncoder maps each distinct string to its index in sorted order.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder returns an unfitted encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{index: map[string]int{}}
}

// Fit learns the sorted distinct values of data, replacing earlier state.
func (e *LabelEncoder) Fit(data []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(data))
	classes := make([]string, 0)
	for _, v := range data {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	e.classes = classes
	e.index = make(map[string]int, len(classes))
	for i, c := range classes {
		e.index[c] = i
	}
	return e
}

// Transform encodes data. A value not seen by Fit is an error.
func (e *LabelEncoder) Transform(data []string) ([]int, error) {
	out := make([]int, len(data))
	for i, v := range data {
		code, ok := e.index[v]
		if !ok {
			return nil, errors.Errorf("unseen label %q", v)
		}
		out[i] = code
	}
	return out, nil
}

// FitTransform fits on data and encodes it.
func (e *LabelEncoder) FitTransform(data []string) []int {
	e.Fit(data)
	out, _ := e.Transform(data)
	return out
}

// Classes returns the learned values; a value's code is its index.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// InverseTransform maps codes back to their labels.
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	out := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(e.classes) {
			return nil, errors.Errorf("code %d out of range [0,%d)", c, len(e.classes))
		}
		out[i] = e.classes[c]
	}
	return out, nil
}

// Encodings holds the encoder fitted for each categorical column in one run.
type Encodings map[string]*LabelEncoder

// Result is the output of Encode.
type Result struct {
	Train     *data.Frame
	Validate  *data.Frame
	Encodings Encodings
}

// Encode builds numeric train and validation frames. Categorical columns
// are encoded over the union of both tables so codes agree across the
// split; missing values become -1 (numeric) or the "-1" category. The
// date column is dropped and negative unit_sales are clamped to zero.
func Encode(train, validate *data.Table, schema Schema) (*Result, error) {
	trainIDs, err := idSet(train)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}
	validateIDs, err := idSet(validate)
	if err != nil {
		return nil, errors.Wrap(err, "validation")
	}

	joined, err := train.Concat(validate)
	if err != nil {
		return nil, errors.Wrap(err, "join tables")
	}
	joined = joined.Drop(ColDate)

	encodings := make(Encodings)
	cols := make([][]float64, len(joined.Columns))
	for j, name := range joined.Columns {
		raw, _ := joined.Column(name)
		if schema.IsCategorical(name) {
			enc := NewLabelEncoder()
			codes := enc.FitTransform(ImputeConstant(raw, MissingMarker))
			encodings[name] = enc
			col := make([]float64, len(codes))
			for i, c := range codes {
				col[i] = float64(c)
			}
			cols[j] = col
			continue
		}
		col, err := data.ParseFloats(name, raw, MissingValue)
		if err != nil {
			return nil, errors.Wrap(err, "not declared categorical")
		}
		cols[j] = col
	}

	encoded, err := data.FromColumns(joined.Columns, cols)
	if err != nil {
		return nil, err
	}
	ClampNegative(encoded, ColTarget)

	trainFrame, validateFrame, err := loader.SplitByID(encoded, ColID, trainIDs, validateIDs)
	if err != nil {
		return nil, err
	}
	return &Result{Train: trainFrame, Validate: validateFrame, Encodings: encodings}, nil
}

func idSet(t *data.Table) (data.IDSet, error) {
	ids, err := t.Column(ColID)
	if err != nil {
		return nil, err
	}
	parsed, err := data.ParseFloats(ColID, ids, 0)
	if err != nil {
		return nil, err
	}
	for i, s := range ids {
		if data.IsMissing(s) {
			return nil, errors.Errorf("row %d has no %s", i+1, ColID)
		}
	}
	return data.NewIDSet(parsed), nil
}
