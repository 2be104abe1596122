package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument is returned on malformed or empty inputs.
var ErrInvalidArgument = errors.New("kernel: invalid argument")

// A Kernel is a stationary covariance function over scalar inputs.
type Kernel interface {
	Cov(a, b float64) float64
}

var _ Kernel = RBF{}

// The squared exponential kernel. The length scale and the amplitude
// are kept in log space so that both stay positive with no bound
// checks downstream.
type RBF struct {
	LogLengthScale float64
	LogAmplitude   float64
}

func (k RBF) Cov(a, b float64) float64 {
	d := a - b
	return math.Exp(2*k.LogAmplitude) *
		math.Exp(-d*d/(2*math.Exp(2*k.LogLengthScale)))
}

// Matrix computes the cross-covariance matrix K[i,j] = k.Cov(a[i], b[j]).
// a and b may be the same sequence, in which case the result is
// symmetric.
func Matrix(k Kernel, a, b []float64) (*mat.Dense, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: empty location set (%d×%d)",
			ErrInvalidArgument, len(a), len(b))
	}

	m := mat.NewDense(len(a), len(b), nil)
	for i := range a {
		for j := range b {
			m.Set(i, j, k.Cov(a[i], b[j]))
		}
	}
	return m, nil
}
