// Package geom provides the placement math shared by the geometry kernel and
// the attachment solvers: vectors, orthonormal rotations and placements.
//
// Vectors are sdfx vectors so that a Placement converts directly into an
// sdf.M44 for transforming solids.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec is a 3D point or direction.
type Vec = v3.Vec

// Tolerance is the default confusion distance for geometric comparisons.
const Tolerance = 1e-9

// World axes.
var (
	XAxis = Vec{X: 1}
	YAxis = Vec{Y: 1}
	ZAxis = Vec{Z: 1}
)

// Unit returns v scaled to unit length. It reports false when v is shorter
// than tol or not finite.
func Unit(v Vec, tol float64) (Vec, bool) {
	l := v.Length()
	if !(l > tol) || math.IsInf(l, 0) {
		return Vec{}, false
	}
	return v.MulScalar(1 / l), true
}

// Near reports whether a and b are within tol of each other.
func Near(a, b Vec, tol float64) bool {
	return a.Sub(b).Length() <= tol
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Reject returns the component of v perpendicular to the unit vector axis.
func Reject(v, axis Vec) Vec {
	return v.Sub(axis.MulScalar(v.Dot(axis)))
}

// LeastAligned returns the world axis with the smallest absolute projection
// onto v. Ties resolve in X, Y, Z order.
func LeastAligned(v Vec) Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax <= ay && ax <= az:
		return XAxis
	case ay <= az:
		return YAxis
	default:
		return ZAxis
	}
}

// Component returns the i-th component of v (0 = X, 1 = Y, 2 = Z).
func Component(v Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
