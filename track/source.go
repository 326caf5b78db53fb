package track

import (
	"fmt"
	"math/rand"
)

// ErrClosed is returned by operations on a source that has already been
// closed. It always indicates a lifecycle bug in the caller.
var ErrClosed = fmt.Errorf("use after close")

// Source replays one weighted track file as an unlimited particle stream.
// Draws are sequential with wraparound from a random starting offset, so
// a Source is deterministic given a seeded generator.
type Source struct {
	path   string
	weight float64
	tracks []Particle
	cursor int
	closed bool
}

// OpenSource loads the track file at path as a source with the given
// relative weight. The weight is fixed for the lifetime of the source.
// A nil rng starts replay at the first track.
func OpenSource(path string, weight float64, rng *rand.Rand) (*Source, error) {
	if weight <= 0 {
		return nil, fmt.Errorf(
			"source %s: relative weight must be positive, got %g", path, weight,
		)
	}

	tracks, err := ReadTracks(path)
	if err != nil {
		return nil, err
	}

	src := &Source{path: path, weight: weight, tracks: tracks}
	if rng != nil {
		src.cursor = rng.Intn(len(tracks))
	}
	return src, nil
}

// Draw returns the next recorded particle and its intrinsic weight.
func (src *Source) Draw() (Particle, float64, error) {
	if src.closed {
		return Particle{}, 0, ErrClosed
	}

	p := src.tracks[src.cursor]
	src.cursor++
	if src.cursor == len(src.tracks) {
		src.cursor = 0
	}
	return p, p.W, nil
}

// Close releases the recorded tracks. Draws after Close fail with
// ErrClosed, as does a second Close.
func (src *Source) Close() error {
	if src.closed {
		return ErrClosed
	}
	src.closed = true
	src.tracks = nil
	return nil
}

// Len returns the number of recorded tracks.
func (src *Source) Len() int { return len(src.tracks) }

// Weight returns the relative weight the source was opened with.
func (src *Source) Weight() float64 { return src.weight }

// Path returns the track file the source was opened from.
func (src *Source) Path() string { return src.path }
