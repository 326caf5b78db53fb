// Plots the weight spectrum of a configured multi-source before and
// after Russian roulette. Useful for checking that the critical weight
// actually bounds the weight fluctuation of a track library.
//
// Usage: $ weighthist run_config.gcfg n_samples
package main

import (
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	plt "github.com/phil-mansfield/pyplot"
	"gopkg.in/gcfg.v1"

	"github.com/lmorato/tracksrc"
	"github.com/lmorato/tracksrc/session"
)

const histBins = 50

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("Required file use: $ %s run_config n_samples", os.Args[0])
	}

	configFile := os.Args[1]
	n, err := strconv.Atoi(os.Args[2])
	if err != nil || n < 1 {
		log.Fatalf("Invalid sample count '%s'.", os.Args[2])
	}

	wrap := session.DefaultRunWrapper()
	if err := gcfg.ReadFileInto(wrap, configFile); err != nil {
		log.Fatal(err.Error())
	}
	specs, err := wrap.SourceSpecs()
	if err != nil {
		log.Fatal(err.Error())
	}

	seed := wrap.Session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ms, err := tracksrc.Open(specs, rng)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer ms.Close()

	wCrit, err := ms.MeanWeight(wrap.Session.MeanWeightSamples)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Critical weight: %g", wCrit)

	raw := make([]float64, n)
	for i := range raw {
		p, err := ms.Sample(wCrit/1e6, nil) // threshold low enough to pass all
		if err != nil {
			log.Fatal(err.Error())
		}
		raw[i] = p.W
	}

	ruletted := make([]float64, n)
	for i := range ruletted {
		p, err := ms.Sample(wCrit, nil)
		if err != nil {
			log.Fatal(err.Error())
		}
		ruletted[i] = p.W
	}

	plt.Reset()
	xs, ys := hist(raw)
	plt.Plot(xs, ys, "b", plt.LW(2))
	xs, ys = hist(ruletted)
	plt.Plot(xs, ys, "r", plt.LW(2))
	plt.Show()
}

// hist bins the values into histBins equal-width bins and returns bin
// centers and counts.
func hist(ws []float64) (xs, ys []float64) {
	min, max := ws[0], ws[0]
	for _, w := range ws {
		min, max = math.Min(min, w), math.Max(max, w)
	}
	if max == min {
		max = min + 1
	}
	dw := (max - min) / histBins

	xs, ys = make([]float64, histBins), make([]float64, histBins)
	for i := range xs {
		xs[i] = min + dw*(float64(i)+0.5)
	}
	for _, w := range ws {
		i := int((w - min) / dw)
		if i == histBins {
			i--
		}
		ys[i]++
	}
	return xs, ys
}
