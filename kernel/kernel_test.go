package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const eps = 1e-9

func TestMatrixSymmetric(t *testing.T) {
	for _, c := range []struct {
		x          []float64
		logl, logc float64
	}{
		{[]float64{0, 1, 2.5, 7}, 0, 0},
		{[]float64{-3, -1, 0.5, 0.6, 10}, 1.2, -0.7},
		{[]float64{1, 1, 1}, -1, 2},
	} {
		k := RBF{LogLengthScale: c.logl, LogAmplitude: c.logc}
		m, err := Matrix(k, c.x, c.x)
		require.NoError(t, err)
		n := len(c.x)
		for i := 0; i != n; i++ {
			assert.InDelta(t, math.Exp(2*c.logc), m.At(i, i), eps)
			for j := 0; j != n; j++ {
				assert.InDelta(t, m.At(j, i), m.At(i, j), eps)
			}
		}
	}
}

func TestCovDecays(t *testing.T) {
	for _, k := range []RBF{
		{},
		{LogLengthScale: 1, LogAmplitude: 0.5},
		{LogLengthScale: -0.7, LogAmplitude: -2},
	} {
		prev := math.Inf(1)
		for _, d := range []float64{0, 0.25, 0.5, 1, 2, 4, 8, 16} {
			v := k.Cov(0, d)
			assert.True(t, v <= prev,
				"Cov must not increase with distance: "+
					"got %g at %g after %g", v, d, prev)
			assert.True(t, v > 0)
			prev = v
		}
	}
}

func TestMatrixRectangular(t *testing.T) {
	k := RBF{LogLengthScale: 0.3, LogAmplitude: -0.2}
	a := []float64{0, 2}
	b := []float64{-1, 0.5, 3}
	m, err := Matrix(k, a, b)
	require.NoError(t, err)
	rows, cols := m.Dims()
	require.Equal(t, len(a), rows)
	require.Equal(t, len(b), cols)
	for i := range a {
		for j := range b {
			assert.Equal(t, k.Cov(a[i], b[j]), m.At(i, j))
		}
	}
}

func TestMatrixEmpty(t *testing.T) {
	_, err := Matrix(RBF{}, nil, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Matrix(RBF{}, []float64{1}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMatrixPositiveDefinite(t *testing.T) {
	x := []float64{0, 0.5, 1.1, 3, 4.2, 9}
	for _, noise := range []float64{1e-3, 0.1, 1} {
		m, err := Matrix(RBF{}, x, x)
		require.NoError(t, err)
		sym := mat.NewSymDense(len(x), nil)
		for i := range x {
			for j := i; j != len(x); j++ {
				v := m.At(i, j)
				if i == j {
					v += noise * noise
				}
				sym.SetSym(i, j, v)
			}
		}
		var chol mat.Cholesky
		assert.True(t, chol.Factorize(sym),
			"covariance with noise %g must factorize", noise)
	}
}
