package track

import (
	"math"
)

// Vec is a cartesian 3-vector.
type Vec [3]float64

// Norm returns the euclidean length of v.
func (v *Vec) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Dot returns the inner product of v and u.
func (v *Vec) Dot(u *Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// ScaleSelf multiplies v by s in place.
func (v *Vec) ScaleSelf(s float64) {
	v[0] *= s
	v[1] *= s
	v[2] *= s
}

// AddScaledSelf adds s*u to v in place.
func (v *Vec) AddScaledSelf(u *Vec, s float64) {
	v[0] += s * u[0]
	v[1] += s * u[1]
	v[2] += s * u[2]
}

// UnitSelf rescales v to unit length in place. v must be non-zero.
func (v *Vec) UnitSelf() {
	v.ScaleSelf(1 / v.Norm())
}
