package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Spread holds the quartiles of a column and how many values fall
// outside the Tukey fences [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
type Spread struct {
	Q1, Median, Q3 float64
	Low, High      int
}

// IQR returns the interquartile range.
func (s Spread) IQR() float64 { return s.Q3 - s.Q1 }

// Outliers describes the spread of x. Quantiles use the empirical CDF,
// so every reported quartile is a value of x.
func Outliers(x []float64) Spread {
	if len(x) == 0 {
		return Spread{}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	s := Spread{
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	lo, hi := s.Q1-1.5*s.IQR(), s.Q3+1.5*s.IQR()
	for _, v := range sorted {
		switch {
		case v < lo:
			s.Low++
		case v > hi:
			s.High++
		}
	}
	return s
}
