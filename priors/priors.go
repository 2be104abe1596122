package priors

import (
	. "bitbucket.org/dtolpin/infergo/dist"
)

// Priors adds log-prior terms over the hyperparameter vector to the
// fitting objective.
type Priors interface {
	Observe(x []float64) float64
	NTheta() int
}

// Weakly informative priors for the squared exponential kernel in
// log space.
type RBFPriors struct{}

func (RBFPriors) NTheta() int { return 2 }

func (RBFPriors) Observe(x []float64) float64 {
	const (
		c = iota // amplitude
		l        // length scale
	)

	ll := 0.

	// Amplitude is mostly less than 1.
	ll += Normal.Logp(-1, 1, x[c])
	// Length scale is around 1, in wide margins.
	ll += Normal.Logp(0, 2, x[l])

	return ll
}
