package gp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/envdatasci/gpfit/kernel"
	"github.com/envdatasci/gpfit/priors"
)

// maxIterations bounds the local search so that a pathological
// likelihood surface fails instead of hanging.
const maxIterations = 1000

// An Option adjusts a fit.
type Option func(*fitConfig)

type fitConfig struct {
	init    kernel.RBF
	priors  priors.Priors
	maxIter int
}

// WithInit sets the starting point of the search. The default starts
// at zero in log space, that is at unit length scale and amplitude.
func WithInit(k kernel.RBF) Option {
	return func(cfg *fitConfig) { cfg.init = k }
}

// WithPriors adds log-prior terms over the hyperparameters to the
// objective, turning the fit into MAP estimation.
func WithPriors(p priors.Priors) Option {
	return func(cfg *fitConfig) { cfg.priors = p }
}

// Fit finds the kernel hyperparameters maximizing the log marginal
// likelihood of (x, y) under observation noise noiseStd. The search
// is a single deterministic local maximization; the returned optimum
// is local, the objective is generally non-convex.
func Fit(x, y []float64, noiseStd float64, opts ...Option) (kernel.RBF, error) {
	if len(x) == 0 || len(x) != len(y) {
		return kernel.RBF{}, fmt.Errorf("%w: %d inputs, %d outputs",
			ErrInvalidArgument, len(x), len(y))
	}
	if noiseStd < 0 {
		return kernel.RBF{}, fmt.Errorf(
			"%w: negative noise standard deviation %g",
			ErrInvalidArgument, noiseStd)
	}

	cfg := fitConfig{maxIter: maxIterations}
	for _, o := range opts {
		o(&cfg)
	}

	g := &GP{NoiseStd: noiseStd}
	if err := g.Absorb(x, y); err != nil {
		return kernel.RBF{}, err
	}

	const (
		c = iota // log amplitude
		l        // log length scale
	)

	objective := func(theta []float64) float64 {
		g.Simil = kernel.RBF{
			LogLengthScale: theta[l],
			LogAmplitude:   theta[c],
		}
		ll, err := g.LogML()
		if err != nil {
			// Off the positive-definite region; send the
			// search back.
			return math.Inf(1)
		}
		if cfg.priors != nil {
			ll += cfg.priors.Observe(theta)
		}
		return -ll
	}

	// A Func-only problem; Minimize falls back to a
	// derivative-free method.
	p := optimize.Problem{Func: objective}
	theta := []float64{cfg.init.LogAmplitude, cfg.init.LogLengthScale}
	result, err := optimize.Minimize(p, theta, &optimize.Settings{
		MajorIterations: cfg.maxIter,
	}, nil)
	if err != nil {
		return kernel.RBF{}, fmt.Errorf("%w: optimize: %v",
			ErrNumerical, err)
	}
	if result.Status == optimize.IterationLimit {
		return kernel.RBF{}, fmt.Errorf(
			"%w: no convergence in %d iterations",
			ErrNumerical, cfg.maxIter)
	}

	fitted := kernel.RBF{
		LogLengthScale: result.X[l],
		LogAmplitude:   result.X[c],
	}
	g.Simil = fitted
	if _, err := g.LogML(); err != nil {
		return kernel.RBF{}, err
	}
	return fitted, nil
}
