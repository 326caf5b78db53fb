package tracksrc

import (
	"math"
	"math/rand"

	"github.com/lmorato/tracksrc/track"
)

// Bias is an importance-sampling hook applied to every drawn particle.
// Apply may alter the particle's position, direction or energy and must
// return a positive weight multiplier that compensates for the change in
// sampling density, so the expectation of the stream is preserved. A nil
// Bias is the identity.
type Bias interface {
	Apply(p *track.Particle) float64
}

// ConeBias redirects particles into a cone around a fixed axis,
// compensating the weight by the sampled solid-angle fraction. It is
// unbiased for sources whose recorded directions are isotropic.
type ConeBias struct {
	axis   track.Vec
	u, v   track.Vec // orthonormal basis completing axis
	cosMin float64
	rng    *rand.Rand
}

// NewConeBias creates a bias toward axis with the given half-angle in
// radians. The half-angle must be in (0, pi].
func NewConeBias(axis track.Vec, halfAngle float64, rng *rand.Rand) *ConeBias {
	axis.UnitSelf()
	b := &ConeBias{
		axis:   axis,
		cosMin: math.Cos(halfAngle),
		rng:    rng,
	}
	b.u, b.v = orthoBasis(&axis)
	return b
}

func (b *ConeBias) Apply(p *track.Particle) float64 {
	mu := b.cosMin + (1-b.cosMin)*b.rng.Float64()
	phi := 2 * math.Pi * b.rng.Float64()
	s := math.Sqrt(1 - mu*mu)

	cu, cv := s*math.Cos(phi), s*math.Sin(phi)
	for i := 0; i < 3; i++ {
		p.Dir[i] = mu*b.axis[i] + cu*b.u[i] + cv*b.v[i]
	}

	// Ratio of isotropic to cone-restricted direction density.
	return (1 - b.cosMin) / 2
}

// orthoBasis returns two unit vectors orthogonal to each other and to w.
func orthoBasis(w *track.Vec) (u, v track.Vec) {
	if math.Abs(w[0]) < math.Abs(w[1]) {
		u = track.Vec{0, -w[2], w[1]}
	} else {
		u = track.Vec{-w[2], 0, w[0]}
	}
	u.UnitSelf()

	v = track.Vec{
		w[1]*u[2] - w[2]*u[1],
		w[2]*u[0] - w[0]*u[2],
		w[0]*u[1] - w[1]*u[0],
	}
	return u, v
}
