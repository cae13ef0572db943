package model

import "github.com/pkg/errors"

var (
	// ErrEmpty is returned when fitting on no samples.
	ErrEmpty = errors.New("model: empty X")
	// ErrShape is returned for inconsistent row, target or feature counts.
	ErrShape = errors.New("model: shape mismatch")
	// ErrNotFitted is returned when predicting with an untrained model.
	ErrNotFitted = errors.New("model: not fitted")
)

// Regressor is a supervised model with a continuous target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

var _ Regressor = (*DecisionTreeRegressor)(nil)
