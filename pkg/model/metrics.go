package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	d := make([]float64, len(yTrue))
	floats.SubTo(d, yPred, yTrue)
	return floats.Dot(d, d) / float64(len(d))
}

func MAE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue))
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 is the coefficient of determination; 0 when yTrue is constant.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) < 2 || stat.Variance(yTrue, nil) == 0 {
		return 0
	}
	return stat.RSquaredFrom(yPred, yTrue, nil)
}
