package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

var (
	COMMA = ","
	SKIP  = 0
	NOISE = 0.
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			`Computes average negative log predictive density over forecasts.
Invocation:
	%s [OPTIONS] < FORECASTS
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&COMMA, "comma", COMMA, "field separator")
	flag.IntVar(&SKIP, "s", SKIP, "initial records to skip")
	flag.Float64Var(&NOISE, "noise", NOISE,
		"observation noise standard deviation to add to the predictive std")
}

// negative log predictive density of y under N(mean, std²)
func nlpd(y, mean, std float64) float64 {
	vari := std * std
	d := y - mean
	return 0.5 * (math.Log(2*math.Pi) + d*d/vari + math.Log(vari))
}

func main() {
	flag.Parse()

	rdr := csv.NewReader(os.Stdin)
	rdr.Comma = rune(COMMA[0])

	rdr.Read() // skip the header
	sum := 0.
	n := 0
	for i := 0; ; i++ {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal("failed to read record", "err", err)
		}

		if i < SKIP {
			continue
		}
		n++

		y, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			log.Fatal("bad record", "record", record, "err", err)
		}
		mean, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			log.Fatal("bad record", "record", record, "err", err)
		}
		std, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			log.Fatal("bad record", "record", record, "err", err)
		}

		// The forecasts hold the latent-function std; the noise
		// variance is added back when scoring against noisy
		// observations.
		std = math.Hypot(std, NOISE)
		sum += nlpd(y, mean, std)
	}
	if n == 0 {
		log.Fatal("no records")
	}
	fmt.Printf("%f\n", sum/float64(n))
}
