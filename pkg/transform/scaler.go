package transform

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler rescales a column to zero mean and unit variance using
// statistics computed at fit time.
type StandardScaler struct {
	Mean  float64
	Scale float64
}

// FitScaler computes the population mean and standard deviation of x.
// A zero standard deviation yields a scale of 1 so constant columns map to 0.
func FitScaler(x []float64) StandardScaler {
	mean, variance := stat.PopMeanVariance(x, nil)
	scale := math.Sqrt(variance)
	if scale == 0 || math.IsNaN(scale) {
		scale = 1
	}
	return StandardScaler{Mean: mean, Scale: scale}
}

// Transform returns the standardized value of v.
func (s StandardScaler) Transform(v float64) float64 {
	return (v - s.Mean) / s.Scale
}
