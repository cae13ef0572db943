package pipeline

import (
	"math"

	"github.com/pkg/errors"

	"github.com/eliekawerk/twde-datalab/pkg/data"
	"github.com/eliekawerk/twde-datalab/pkg/dataprep"
	"github.com/eliekawerk/twde-datalab/pkg/model"
)

// Predict scores every row of the encoded validation frame, in order.
// The target column is ignored when present and NaN features count as -1.
func Predict(m *model.DecisionTreeRegressor, validate *data.Frame) ([]float64, error) {
	features := validate.Drop(dataprep.ColTarget)
	if m.FeatureNames != nil {
		var err error
		features, err = features.Select(m.FeatureNames)
		if err != nil {
			return nil, errors.Wrap(err, "validation features")
		}
	}
	features.FillNaN(dataprep.MissingValue)
	return m.Predict(features.Rows())
}

type itemStore struct {
	item, store float64
}

// OverwriteUnseen zeroes the prediction of every validation row whose
// (item_nbr, store_nbr) pair has no training row with a known unit_sales,
// which covers pairs absent from train. Rows are matched by id; the
// result keeps the order and length of preds.
func OverwriteUnseen(preds []float64, originalTrain *data.Table, validate *data.Frame) ([]float64, error) {
	if len(preds) != validate.Len() {
		return nil, errors.Errorf("%d predictions for %d validation rows", len(preds), validate.Len())
	}
	items, err := originalTrain.Float(dataprep.ColItem)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}
	stores, err := originalTrain.Float(dataprep.ColStore)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}
	sales, err := originalTrain.Float(dataprep.ColTarget)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}

	// known[k] is false once any train row for k lacks a target
	known := make(map[itemStore]bool, len(items))
	for i := range items {
		if math.IsNaN(items[i]) || math.IsNaN(stores[i]) {
			continue
		}
		k := itemStore{items[i], stores[i]}
		prev, seen := known[k]
		known[k] = (!seen || prev) && !math.IsNaN(sales[i])
	}

	vItems, err := validate.Col(dataprep.ColItem)
	if err != nil {
		return nil, errors.Wrap(err, "validation")
	}
	vStores, err := validate.Col(dataprep.ColStore)
	if err != nil {
		return nil, errors.Wrap(err, "validation")
	}
	vIDs, err := validate.Col(dataprep.ColID)
	if err != nil {
		return nil, errors.Wrap(err, "validation")
	}

	unseen := make(data.IDSet)
	for i := range vIDs {
		if ok, seen := known[itemStore{vItems[i], vStores[i]}]; !seen || !ok {
			unseen[vIDs[i]] = struct{}{}
		}
	}

	out := append([]float64(nil), preds...)
	for i, id := range vIDs {
		if unseen.Contains(id) {
			out[i] = 0
		}
	}
	return out, nil
}
