/*Package track reads recorded particle track files and replays them as
sampling sources.

A track file is a whitespace-separated text table with one recorded
particle per line and nine numeric columns:

    type E x y z dx dy dz w

where type is the particle code (1 = neutron, 2 = photon), E the energy,
(x, y, z) the position, (dx, dy, dz) the direction and w the statistical
weight of the track. Lines starting with # are comments.
*/
package track

// ParticleType identifies the species of a recorded track.
type ParticleType int

const (
	Unknown ParticleType = iota
	Neutron
	Photon
)

// Track-file and host codes for the particle species.
const (
	CodeNeutron = 1
	CodePhoton  = 2
)

// TypeFromCode converts a numeric track-file code to a ParticleType.
// Codes without a known species map to Unknown.
func TypeFromCode(code int) ParticleType {
	switch code {
	case CodeNeutron:
		return Neutron
	case CodePhoton:
		return Photon
	}
	return Unknown
}

func (t ParticleType) String() string {
	switch t {
	case Neutron:
		return "neutron"
	case Photon:
		return "photon"
	}
	return "unknown"
}

// Particle is a single ready-to-transport particle state. Dir is a unit
// vector and W is strictly positive for any particle read from a file.
type Particle struct {
	Type ParticleType
	Pos  Vec
	Dir  Vec
	E    float64
	W    float64
}
