// Package loader reads the train and validation splits and re-splits
// encoded data by row id.
package loader

import (
	"github.com/eliekawerk/twde-datalab/pkg/data"
)

// LoadDatasets reads the train and validation tables. Either file being
// absent or malformed is an error; there is no fallback.
func LoadDatasets(trainPath, validatePath string) (train, validate *data.Table, err error) {
	train, err = data.ReadCSV(trainPath)
	if err != nil {
		return nil, nil, err
	}
	validate, err = data.ReadCSV(validatePath)
	if err != nil {
		return nil, nil, err
	}
	return train, validate, nil
}
