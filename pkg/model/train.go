package model

import (
	"os"

	"github.com/pkg/errors"

	"github.com/eliekawerk/twde-datalab/pkg/data"
)

// Train fits a regression tree on every column of f except target,
// which is the value predicted. The feature order is recorded in
// FeatureNames.
func Train(f *data.Frame, target string, opts ...Option) (*DecisionTreeRegressor, error) {
	y, err := f.Col(target)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}
	features := f.Drop(target)

	t := NewDecisionTreeRegressor(opts...)
	t.FeatureNames = features.Columns
	if err := t.Fit(features.Rows(), y); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a tree written by MarshalBinary.
func Load(path string) (*DecisionTreeRegressor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model %s", path)
	}
	t := &DecisionTreeRegressor{}
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, errors.Wrapf(err, "load model %s", path)
	}
	return t, nil
}
