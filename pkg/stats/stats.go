package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a column.
type Summary struct {
	Count     int
	Mean      float64
	Std       float64
	Min       float64
	Max       float64
	Negatives int
}

// Describe summarizes x. Std is the population standard deviation.
func Describe(x []float64) Summary {
	s := Summary{Count: len(x)}
	if len(x) == 0 {
		return s
	}
	mean, variance := stat.PopMeanVariance(x, nil)
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	for _, v := range x {
		if v < 0 {
			s.Negatives++
		}
	}
	return s
}
