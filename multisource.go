/*Package tracksrc combines weighted recorded-track sources into a single
particle stream for Monte Carlo transport.

A MultiSource owns an ordered set of track.Sources with relative weights.
Each sample selects a sub-source from the categorical distribution over
the normalized weights, draws a recorded particle, optionally applies an
importance bias, and applies Russian roulette against a critical weight
so that the weights handed to the transport code stay within a bounded
range.
*/
package tracksrc

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lmorato/tracksrc/track"
)

// SourceSpec names one track file and its relative weight.
type SourceSpec struct {
	Path   string
	Weight float64
}

// MultiSource is a weighted combination of open track sources. It must
// not be shared between goroutines.
type MultiSource struct {
	srcs []*track.Source
	cum  []float64 // cumulative normalized weights, cum[len-1] == 1
	rng  *rand.Rand

	wMean   float64
	hasMean bool
	closed  bool
}

// Open opens every listed track file and validates the weights. If any
// source fails to open, the already-opened ones are closed before the
// error is returned. A nil rng is seeded from the current time.
func Open(specs []SourceSpec, rng *rand.Rand) (*MultiSource, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no sources given")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	srcs := make([]*track.Source, 0, len(specs))
	for _, spec := range specs {
		src, err := track.OpenSource(spec.Path, spec.Weight, rng)
		if err != nil {
			for _, open := range srcs {
				open.Close()
			}
			return nil, err
		}
		srcs = append(srcs, src)
	}

	ws := make([]float64, len(srcs))
	total := 0.0
	for _, src := range srcs {
		total += src.Weight()
	}
	for i, src := range srcs {
		ws[i] = src.Weight() / total
	}

	cum := make([]float64, len(ws))
	floats.CumSum(cum, ws)
	// Roundoff must not leave an unreachable sliver at the top.
	cum[len(cum)-1] = 1

	return &MultiSource{srcs: srcs, cum: cum, rng: rng}, nil
}

// Weights returns the normalized sub-source weights. They sum to 1.
func (ms *MultiSource) Weights() []float64 {
	ws := make([]float64, len(ms.cum))
	prev := 0.0
	for i, c := range ms.cum {
		ws[i] = c - prev
		prev = c
	}
	return ws
}

// Len returns the number of sub-sources.
func (ms *MultiSource) Len() int { return len(ms.srcs) }

// pick selects a sub-source index by a single uniform draw against the
// cumulative weight table.
func (ms *MultiSource) pick() int {
	u := ms.rng.Float64()
	i := sort.Search(len(ms.cum), func(i int) bool { return ms.cum[i] > u })
	if i == len(ms.cum) {
		i--
	}
	return i
}

// drawNominal produces one particle with its nominal combined weight:
// the intrinsic track weight, scaled by the bias multiplier if a bias is
// given. Sub-source selection already accounts for the relative source
// weights.
func (ms *MultiSource) drawNominal(bias Bias) (track.Particle, error) {
	p, w, err := ms.srcs[ms.pick()].Draw()
	if err != nil {
		return track.Particle{}, err
	}
	if bias != nil {
		mult := bias.Apply(&p)
		if mult <= 0 {
			return track.Particle{}, fmt.Errorf(
				"bias returned non-positive weight multiplier %g", mult,
			)
		}
		w *= mult
	}
	p.W = w
	return p, nil
}

// MeanWeight estimates the mean combined particle weight from n internal
// draws. The estimate is computed once per lifetime and cached; it is
// recomputed only by the next Open. The internal draws do not touch any
// caller-visible statistics.
func (ms *MultiSource) MeanWeight(n int) (float64, error) {
	if ms.closed {
		return 0, track.ErrClosed
	}
	if n < 1 {
		return 0, fmt.Errorf("mean weight estimate needs n >= 1, got %d", n)
	}
	if ms.hasMean {
		return ms.wMean, nil
	}

	ws := make([]float64, n)
	for i := range ws {
		p, err := ms.drawNominal(nil)
		if err != nil {
			return 0, err
		}
		ws[i] = p.W
	}

	ms.wMean = stat.Mean(ws, nil)
	ms.hasMean = true
	return ms.wMean, nil
}

// Sample draws one surviving particle. wCrit is the Russian-roulette
// threshold: a draw with weight below wCrit survives with probability
// w/wCrit and is boosted to exactly wCrit, otherwise it is discarded and
// the whole selection is redrawn. Weights at or above wCrit are accepted
// unchanged; no splitting is performed, so a single particle is returned
// per call and large weights pass through as-is.
func (ms *MultiSource) Sample(wCrit float64, bias Bias) (track.Particle, error) {
	if ms.closed {
		return track.Particle{}, track.ErrClosed
	}
	if wCrit <= 0 {
		return track.Particle{}, fmt.Errorf(
			"critical weight must be positive, got %g", wCrit,
		)
	}

	for {
		p, err := ms.drawNominal(bias)
		if err != nil {
			return track.Particle{}, err
		}

		if p.W >= wCrit {
			return p, nil
		}
		if ms.rng.Float64()*wCrit < p.W {
			p.W = wCrit
			return p, nil
		}
		// Roulette kill: resample.
	}
}

// Close releases every sub-source. Sample and MeanWeight fail with
// track.ErrClosed afterwards, as does a second Close.
func (ms *MultiSource) Close() error {
	if ms.closed {
		return track.ErrClosed
	}
	ms.closed = true

	var err error
	for _, src := range ms.srcs {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
