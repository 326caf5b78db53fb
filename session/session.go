/*Package session bridges the sampling engine to a per-history host
call. A Session lazily opens its MultiSource on the first draw, computes
the critical weight once per lifecycle, hands one ready-to-transport
particle to the host per call and accumulates yield statistics. When the
lifecycle quota is reached the sources are torn down, the summary is
logged and the next call re-opens them transparently.

A Session is an explicit exclusively-owned handle: it has no internal
locking, so multi-threaded hosts must use one Session per worker.
*/
package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmorato/tracksrc"
	"github.com/lmorato/tracksrc/tally"
	"github.com/lmorato/tracksrc/track"
)

// Host type codes handed back per history.
const (
	CodeNeutron = track.CodeNeutron
	CodePhoton  = track.CodePhoton
)

// Sampled positions are nudged this far along the direction vector so
// particles never start exactly on a geometry boundary.
const nudgeEpsilon = 1e-4

// Config collects everything a Session needs. Sources, BatchSize and
// NBatches are required; zero-valued optional fields fall back to the
// defaults noted on each field.
type Config struct {
	Sources   []tracksrc.SourceSpec
	BatchSize int
	NBatches  int

	Warmup            int           // quota padding, default 1500
	MeanWeightSamples int           // critical-weight draws, default 1000
	Seed              int64         // 0 seeds from the current time
	Bias              tracksrc.Bias // nil is the identity
	Log               *logrus.Logger
}

// Record is the immutable per-history result handed to the host.
type Record struct {
	TypeCode int
	Pos, Dir track.Vec
	E, W     float64
}

// Session is the host-facing sampling state for one simulation run.
type Session struct {
	cfg   Config
	log   *logrus.Logger
	rng   *rand.Rand
	quota int64

	ms    *tracksrc.MultiSource
	wCrit float64
	n     int64 // samples in the current lifecycle

	stats tally.Stats
	last  tally.Stats
	done  bool // at least one lifecycle completed
}

// New validates cfg and creates a session. The random generator is
// seeded exactly once, here.
func New(cfg *Config) (*Session, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("session: no sources configured")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("session: BatchSize must be positive, got %d",
			cfg.BatchSize)
	}
	if cfg.NBatches <= 0 {
		return nil, fmt.Errorf("session: NBatches must be positive, got %d",
			cfg.NBatches)
	}

	s := &Session{cfg: *cfg, log: cfg.Log}
	if s.cfg.Warmup == 0 {
		s.cfg.Warmup = 1500
	}
	if s.cfg.MeanWeightSamples == 0 {
		s.cfg.MeanWeightSamples = 1000
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))

	s.quota = int64(s.cfg.NBatches-1)*int64(s.cfg.BatchSize) +
		int64(s.cfg.Warmup)
	return s, nil
}

// Quota returns the number of samples in one source lifecycle.
func (s *Session) Quota() int64 { return s.quota }

// Next draws one particle for the next simulated history. The first
// call of a lifecycle opens the sources and computes the critical
// weight; a failure there is fatal to the run and is returned as a hard
// error. An unrecognized particle type is only logged and defaults to a
// neutron.
func (s *Session) Next() (Record, error) {
	start := time.Now()

	if s.ms == nil {
		if err := s.open(); err != nil {
			return Record{}, err
		}
	}

	p, err := s.ms.Sample(s.wCrit, s.cfg.Bias)
	if err != nil {
		return Record{}, err
	}

	code := CodeNeutron
	switch p.Type {
	case track.Neutron:
		code = CodeNeutron
	case track.Photon:
		code = CodePhoton
	default:
		s.log.Warnf("unrecognized particle type %q, treating as neutron",
			p.Type)
	}

	p.Pos.AddScaledSelf(&p.Dir, nudgeEpsilon)

	s.stats.Add(p.W)
	s.n++
	s.stats.Elapsed += time.Since(start)

	rec := Record{TypeCode: code, Pos: p.Pos, Dir: p.Dir, E: p.E, W: p.W}

	if s.n == s.quota {
		s.teardown()
	}
	return rec, nil
}

// Stats returns the statistics accumulated so far in the current
// lifecycle.
func (s *Session) Stats() tally.Stats { return s.stats }

// LastSummary returns the statistics of the most recently completed
// lifecycle. ok is false if no lifecycle has completed yet.
func (s *Session) LastSummary() (stats tally.Stats, ok bool) {
	return s.last, s.done
}

// Close tears down an open lifecycle without completing its quota.
func (s *Session) Close() error {
	if s.ms == nil {
		return nil
	}
	err := s.ms.Close()
	s.ms = nil
	return err
}

func (s *Session) open() error {
	s.log.Info("loading sources")

	ms, err := tracksrc.Open(s.cfg.Sources, s.rng)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	wCrit, err := ms.MeanWeight(s.cfg.MeanWeightSamples)
	if err != nil {
		ms.Close()
		return fmt.Errorf("session: %w", err)
	}

	s.ms, s.wCrit = ms, wCrit
	s.log.WithFields(logrus.Fields{
		"sources": ms.Len(),
		"wcrit":   wCrit,
		"quota":   s.quota,
	}).Info("sources loaded")
	return nil
}

// teardown closes the current lifecycle: the summary is logged, the
// per-lifecycle counters reset, and the next call to Next re-opens the
// sources with a freshly computed critical weight.
func (s *Session) teardown() {
	s.ms.Close()
	s.ms = nil

	s.last = s.stats
	s.done = true
	s.log.WithFields(logrus.Fields{
		"I":       s.stats.I,
		"err":     s.stats.Err(),
		"N":       s.stats.N,
		"elapsed": s.stats.Elapsed.Seconds(),
	}).Info("sampling cycle complete")

	s.stats.Reset()
	s.n = 0
}
