package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/envdatasci/gpfit/gp"
	"github.com/envdatasci/gpfit/kernel"
	"github.com/envdatasci/gpfit/priors"
)

var (
	NOISE = 0.1
	MAP   = true
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			`Gaussian process regression with marginal likelihood fitting.
Invocation:
  %s [OPTIONS] < INPUT > OUTPUT
or
  %s [OPTIONS] selfcheck
In 'selfcheck' mode, the data hard-coded into the program is used,
to demonstrate basic functionality.
`, os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Float64Var(&NOISE, "noise", NOISE,
		"observation noise standard deviation")
	flag.BoolVar(&MAP, "map", MAP,
		"regularize the fit with weakly informative priors")
}

func main() {
	var (
		input  io.Reader = os.Stdin
		output io.Writer = os.Stdout
	)

	flag.Parse()
	switch {
	case flag.NArg() == 0:
	case flag.NArg() == 1 && flag.Arg(0) == "selfcheck":
		input = strings.NewReader(selfCheckData)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if NOISE <= 0 {
		log.Fatal("noise standard deviation must be positive",
			"noise", NOISE)
	}

	log.Info("loading")
	X, Y, err := load(input)
	if err != nil {
		log.Fatal("failed to load data", "err", err)
	}
	if len(X) < 3 {
		log.Fatal("too few observations", "n", len(X))
	}

	// Normalize Y; forecasts are mapped back to the original
	// units on output.
	meany, stdy := stat.MeanStdDev(Y, nil)
	for i := range Y {
		Y[i] = (Y[i] - meany) / stdy
	}

	var opts []gp.Option
	if MAP {
		opts = append(opts, gp.WithPriors(priors.RBFPriors{}))
	}

	// Forecast one step out of sample, iteratively, re-fitting the
	// hyperparameters on each expanding window.
	log.Info("forecasting", "n", len(X), "noise", NOISE)
	fmt.Fprintln(output, "x,y,mean,std,lml0,lml,l,c")
	for end := 2; end != len(X); end++ {
		x, y := X[:end], Y[:end]

		rbf, err := gp.Fit(x, y, NOISE, opts...)
		if err != nil {
			// In pathological cases even a single iteration
			// does not succeed; fall back to the initial
			// point and keep forecasting.
			log.Warn("failed to optimize", "end", end, "err", err)
			rbf = kernel.RBF{}
		}

		g := &gp.GP{Simil: kernel.RBF{}, NoiseStd: NOISE}
		if err := g.Absorb(x, y); err != nil {
			log.Fatal("failed to absorb", "err", err)
		}
		lml0, err := g.LogML()
		if err != nil {
			log.Fatal("failed to compute log likelihood", "err", err)
		}
		g.Simil = rbf
		lml, err := g.LogML()
		if err != nil {
			log.Fatal("failed to compute log likelihood", "err", err)
		}

		mu, sigma, err := g.Produce(X[end : end+1])
		if err != nil {
			log.Fatal("failed to forecast", "end", end, "err", err)
		}

		fmt.Fprintf(output, "%f,%f,%f,%f,%f,%f,%f,%f\n",
			X[end], Y[end]*stdy+meany,
			mu[0]*stdy+meany, sigma[0]*stdy,
			lml0, lml,
			math.Exp(rbf.LogLengthScale), math.Exp(rbf.LogAmplitude))
	}
	log.Info("done")
}

// load parses the data from csv and returns inputs and outputs,
// suitable for feeding to the GP.
func load(rdr io.Reader) (x, y []float64, err error) {
	csv := csv.NewReader(rdr)
RECORDS:
	for {
		record, err := csv.Read()
		switch err {
		case nil:
			if len(record) != 2 {
				return x, y, fmt.Errorf(
					"%d fields in record %q, want 2",
					len(record), record)
			}
			xi, err := strconv.ParseFloat(record[0], 64)
			if err != nil {
				return x, y, err
			}
			yi, err := strconv.ParseFloat(record[1], 64)
			if err != nil {
				return x, y, err
			}
			x = append(x, xi)
			y = append(y, yi)
		case io.EOF:
			break RECORDS
		default:
			return x, y, err
		}
	}

	return x, y, nil
}

var selfCheckData = `0.1,0.0953
0.3,0.3078
0.5,0.4726
0.7,0.6581
0.9,0.7689
1.1,0.9039
1.3,0.9571
1.5,1.0121
1.7,0.9779
1.9,0.9304
2.1,0.8514
2.3,0.7612
2.5,0.6103
2.7,0.4131
2.9,0.2422
3.1,0.0534
3.3,-0.1712
3.5,-0.3346
3.7,-0.5437
3.9,-0.6751
4.1,-0.8294
4.3,-0.9023
4.5,-0.9863
4.7,-1.0087
4.9,-0.9939
5.1,-0.9152
5.3,-0.8461
5.5,-0.6926
5.7,-0.5428
5.9,-0.3851
6.1,-0.1903
6.3,0.0090
6.5,0.2264
6.7,0.3917
6.9,0.5911
7.1,0.7158
7.3,0.8613
7.5,0.9246
7.7,0.9793
7.9,1.0113
8.1,0.9617
8.3,0.8915
8.5,0.8120
`
