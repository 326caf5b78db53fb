// Package tally accumulates yield and Monte Carlo error statistics over
// sampled particle weights.
package tally

import (
	"fmt"
	"math"
	"time"
)

// Stats holds running weight statistics for one sampling cycle: the
// sample count N, the weight sum I, the squared-weight sum P2 and the
// wall time spent sampling. I and P2 are exact sums, not estimates.
type Stats struct {
	N       int64
	I       float64
	P2      float64
	Elapsed time.Duration
}

// Add records one sampled weight.
func (s *Stats) Add(w float64) {
	s.N++
	s.I += w
	s.P2 += w * w
}

// Err returns the Monte Carlo error estimate sqrt(P2) of the yield I.
func (s *Stats) Err() float64 {
	return math.Sqrt(s.P2)
}

// Reset zeroes the accumulator for a new cycle.
func (s *Stats) Reset() {
	*s = Stats{}
}

func (s *Stats) String() string {
	return fmt.Sprintf("I err N = %g %g %d (%.3fs sampling)",
		s.I, s.Err(), s.N, s.Elapsed.Seconds())
}
