// Package gp implements Gaussian process regression over scalar
// inputs: exact posterior inference by Gaussian conditioning and
// hyperparameter fitting by marginal likelihood maximization.
package gp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/envdatasci/gpfit/kernel"
)

const (
	// jitter is added to the diagonal of the observed covariance
	// before every factorization, unconditionally.
	jitter = 1e-8

	log2pi = 1.8378770664093453
)

var (
	// ErrInvalidArgument is returned on malformed or empty inputs.
	ErrInvalidArgument = kernel.ErrInvalidArgument

	// ErrNumerical is returned when the covariance cannot be
	// factorized or the optimizer exhausts its iteration budget.
	ErrNumerical = errors.New("gp: numerical error")
)

// GP is a Gaussian process with a fixed observation noise standard
// deviation. The prior mean is frozen at the sample mean of the
// absorbed outputs and is not fitted.
type GP struct {
	Simil    kernel.Kernel
	NoiseStd float64

	X, Y []float64
	mean float64
}

// Absorb replaces the absorbed observations. The inputs are not
// copied; the caller must not mutate them for the life of the fit.
func (g *GP) Absorb(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d inputs, %d outputs",
			ErrInvalidArgument, len(x), len(y))
	}
	g.X, g.Y = x, y
	g.mean = 0
	if len(y) > 0 {
		g.mean = stat.Mean(y, nil)
	}
	return nil
}

// observed factorizes C = K(X,X) + (σ_y²+jitter)·I.
func (g *GP) observed() (*mat.Cholesky, error) {
	n := len(g.X)
	c := mat.NewSymDense(n, nil)
	for i := 0; i != n; i++ {
		for j := i; j != n; j++ {
			v := g.Simil.Cov(g.X[i], g.X[j])
			if i == j {
				v += g.NoiseStd*g.NoiseStd + jitter
			}
			c.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(c) {
		return nil, fmt.Errorf(
			"%w: observed covariance not positive definite (n=%d)",
			ErrNumerical, n)
	}
	return &chol, nil
}

// centered returns Y with the prior mean subtracted.
func (g *GP) centered() *mat.VecDense {
	yc := mat.NewVecDense(len(g.Y), nil)
	for i := range g.Y {
		yc.SetVec(i, g.Y[i]-g.mean)
	}
	return yc
}

// LogML computes the log marginal likelihood of the absorbed
// observations,
//
//	log N(Y; mean·1, K(X,X) + σ_y²·I),
//
// through the Cholesky factorization of the observed covariance.
func (g *GP) LogML() (float64, error) {
	n := len(g.X)
	if n == 0 {
		return 0, fmt.Errorf("%w: no observations", ErrInvalidArgument)
	}

	chol, err := g.observed()
	if err != nil {
		return 0, err
	}

	yc := g.centered()
	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, yc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNumerical, err)
	}

	return -0.5*mat.Dot(yc, &alpha) -
		0.5*chol.LogDet() -
		0.5*float64(n)*log2pi, nil
}

// Predict computes the posterior predictive distribution of the
// latent function at the query locations z, conditioned on the
// absorbed observations. Observation noise enters the conditioning
// through the observed block only and is not re-added to the
// returned covariance. With no absorbed observations Predict returns
// the prior.
func (g *GP) Predict(z []float64) ([]float64, *mat.SymDense, error) {
	if len(z) == 0 {
		return nil, nil, fmt.Errorf("%w: no query locations",
			ErrInvalidArgument)
	}

	a, err := kernel.Matrix(g.Simil, z, z)
	if err != nil {
		return nil, nil, err
	}

	if len(g.X) == 0 {
		return make([]float64, len(z)), symmetrize(a), nil
	}

	b, err := kernel.Matrix(g.Simil, z, g.X)
	if err != nil {
		return nil, nil, err
	}
	chol, err := g.observed()
	if err != nil {
		return nil, nil, err
	}

	// A single solve of C·Z = Bᵗ serves both the mean and the
	// covariance.
	var zt mat.Dense
	if err := chol.SolveTo(&zt, b.T()); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNumerical, err)
	}

	// m = mean·1 + Zᵗ·(Y − mean·1)
	muVec := mat.NewVecDense(len(z), nil)
	muVec.MulVec(zt.T(), g.centered())
	mu := make([]float64, len(z))
	for i := range mu {
		mu[i] = g.mean + muVec.AtVec(i)
	}

	// S = A − B·Z
	var s mat.Dense
	s.Mul(b, &zt)
	s.Sub(a, &s)

	return mu, symmetrize(&s), nil
}

// Produce returns the predictive mean and standard deviation at z.
func (g *GP) Produce(z []float64) (mu, sigma []float64, err error) {
	mu, cov, err := g.Predict(z)
	if err != nil {
		return nil, nil, err
	}
	sigma = make([]float64, len(z))
	for i := range sigma {
		v := cov.At(i, i)
		if v < 0 {
			v = 0
		}
		sigma[i] = math.Sqrt(v)
	}
	return mu, sigma, nil
}

// symmetrize projects s onto its symmetric part, guarding against
// floating-point asymmetry in the conditioned covariance.
func symmetrize(s *mat.Dense) *mat.SymDense {
	n, _ := s.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i != n; i++ {
		for j := i; j != n; j++ {
			sym.SetSym(i, j, 0.5*(s.At(i, j)+s.At(j, i)))
		}
	}
	return sym
}
