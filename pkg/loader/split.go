package loader

import (
	"github.com/pkg/errors"

	"github.com/eliekawerk/twde-datalab/pkg/data"
)

// SplitByID splits a concatenated frame back into train and validation
// rows using the id sets saved before concatenation. A row goes to
// validation iff its id is in validateIDs and to train iff it is in
// trainIDs, so an id present in both sets lands in both outputs.
// Row order is preserved.
func SplitByID(f *data.Frame, idColumn string, trainIDs, validateIDs data.IDSet) (train, validate *data.Frame, err error) {
	ids, err := f.Col(idColumn)
	if err != nil {
		return nil, nil, errors.Wrap(err, "split")
	}
	var trainIdx, validateIdx []int
	for i, id := range ids {
		if validateIDs.Contains(id) {
			validateIdx = append(validateIdx, i)
		}
		if trainIDs.Contains(id) {
			trainIdx = append(trainIdx, i)
		}
	}
	return f.SelectRows(trainIdx), f.SelectRows(validateIdx), nil
}
