// Package evaluation scores sales forecasts.
package evaluation

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// PerishableWeight is the weight of a perishable item's error; other
// items weigh 1.
const PerishableWeight = 1.25

// ErrLength is returned when the inputs are empty or not aligned.
var ErrLength = errors.New("evaluation: inputs must be non-empty and of equal length")

// NWRMSLE is the normalized weighted root mean squared logarithmic error
//
//	sqrt( Σ wᵢ (ln(pᵢ+1) − ln(aᵢ+1))² / Σ wᵢ )
//
// with wᵢ = PerishableWeight when perishable[i] != 0 and 1 otherwise.
// Negative predictions and actuals count as zero.
func NWRMSLE(predictions, actuals, perishable []float64) (float64, error) {
	n := len(predictions)
	if n == 0 || len(actuals) != n || len(perishable) != n {
		return 0, errors.Wrapf(ErrLength, "%d predictions, %d actuals, %d weights", n, len(actuals), len(perishable))
	}
	sq := make([]float64, n)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		d := math.Log1p(math.Max(predictions[i], 0)) - math.Log1p(math.Max(actuals[i], 0))
		sq[i] = d * d
		w[i] = 1
		if perishable[i] != 0 {
			w[i] = PerishableWeight
		}
	}
	return math.Sqrt(stat.Mean(sq, w)), nil
}
