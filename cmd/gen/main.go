package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	gogpkernel "bitbucket.org/dtolpin/gogp/kernel"
	"github.com/charmbracelet/log"

	"github.com/envdatasci/gpfit/gp"
	"github.com/envdatasci/gpfit/kernel"
)

var (
	KERNEL = "rbf"
	NOISE  = 0.1
	N      = 100
	SEED   = int64(0)
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			`Generate test data by sampling from a Gaussian process prior.
Invocation:
	%s [OPTIONS] > OUTPUT
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&KERNEL, "kernel", KERNEL,
		"generating kernel (rbf, matern, seasonal)")
	flag.Float64Var(&NOISE, "noise", NOISE,
		"observation noise standard deviation")
	flag.IntVar(&N, "n", N, "number of points")
	flag.Int64Var(&SEED, "seed", SEED, "random seed, 0 for time-based")
}

const (
	variance            = 1.
	lengthScale         = 2.
	period              = 10.
	seasonalVariance    = 1.
	seasonalLengthScale = 2.
)

type maternKernel struct{}

func (maternKernel) Cov(a, b float64) float64 {
	return variance * gogpkernel.Matern52.Cov(lengthScale, a, b)
}

type seasonalKernel struct{}

func (seasonalKernel) Cov(a, b float64) float64 {
	return variance*gogpkernel.Matern52.Cov(lengthScale, a, b) +
		seasonalVariance*gogpkernel.Periodic.Cov(
			seasonalLengthScale, period, a, b)
}

func main() {
	flag.Parse()

	var simil kernel.Kernel
	switch KERNEL {
	case "rbf":
		simil = kernel.RBF{
			LogLengthScale: math.Log(lengthScale),
			LogAmplitude:   0.5 * math.Log(variance),
		}
	case "matern":
		simil = maternKernel{}
	case "seasonal":
		simil = seasonalKernel{}
	default:
		log.Fatal("unknown kernel", "kernel", KERNEL)
	}

	seed := SEED
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Sample the process sequentially on a unit grid: predict one
	// step ahead, draw an observation, absorb, repeat.
	g := &gp.GP{Simil: simil, NoiseStd: NOISE}
	var (
		X []float64
		Y []float64
	)
	for i := 0; i != N; i++ {
		x := float64(i)
		mu, sigma, err := g.Produce([]float64{x})
		if err != nil {
			log.Fatal("failed to produce", "x", x, "err", err)
		}
		y := mu[0] +
			math.Hypot(sigma[0], NOISE)*rng.NormFloat64()
		fmt.Printf("%f,%f\n", x, y)

		X = append(X, x)
		Y = append(Y, y)
		if err := g.Absorb(X, Y); err != nil {
			log.Fatal("failed to absorb", "err", err)
		}
	}
}
