package geom

import (
	"fmt"
	"math"
)

// Rotation is a right-handed orthonormal frame. X, Y and Z are the images of
// the world axes, i.e. the columns of the rotation matrix.
//
// The zero Rotation is not a valid rotation; use Identity.
type Rotation struct {
	X, Y, Z Vec
}

// Identity returns the rotation that leaves every vector unchanged.
func Identity() Rotation {
	return Rotation{X: XAxis, Y: YAxis, Z: ZAxis}
}

// Apply rotates v.
func (r Rotation) Apply(v Vec) Vec {
	return r.X.MulScalar(v.X).Add(r.Y.MulScalar(v.Y)).Add(r.Z.MulScalar(v.Z))
}

// Mul returns the composition r∘o: o is applied first, then r.
func (r Rotation) Mul(o Rotation) Rotation {
	return Rotation{X: r.Apply(o.X), Y: r.Apply(o.Y), Z: r.Apply(o.Z)}
}

// Inverse returns the transpose of r.
func (r Rotation) Inverse() Rotation {
	return Rotation{
		X: Vec{X: r.X.X, Y: r.Y.X, Z: r.Z.X},
		Y: Vec{X: r.X.Y, Y: r.Y.Y, Z: r.Z.Y},
		Z: Vec{X: r.X.Z, Y: r.Y.Z, Z: r.Z.Z},
	}
}

// Det returns the determinant, +1 for a proper rotation.
func (r Rotation) Det() float64 {
	return r.X.Dot(r.Y.Cross(r.Z))
}

// Axis returns the column for the given axis.
func (r Rotation) Axis(a Axis) Vec {
	switch a {
	case AxisX:
		return r.X
	case AxisY:
		return r.Y
	default:
		return r.Z
	}
}

// Equal reports whether every column of r is within tol of the matching
// column of o.
func (r Rotation) Equal(o Rotation, tol float64) bool {
	return Near(r.X, o.X, tol) && Near(r.Y, o.Y, tol) && Near(r.Z, o.Z, tol)
}

func (r Rotation) String() string {
	return fmt.Sprintf("[x(%.6g %.6g %.6g) y(%.6g %.6g %.6g) z(%.6g %.6g %.6g)]",
		r.X.X, r.X.Y, r.X.Z, r.Y.X, r.Y.Y, r.Y.Z, r.Z.X, r.Z.Y, r.Z.Z)
}

// AxisAngleRotation returns the right-hand rotation by angle radians about
// axis. A zero axis yields the identity.
func AxisAngleRotation(axis Vec, angle float64) Rotation {
	k, ok := Unit(axis, 0)
	if !ok || angle == 0 {
		return Identity()
	}
	c, s := math.Cos(angle), math.Sin(angle)
	rot := func(v Vec) Vec {
		// Rodrigues
		return v.MulScalar(c).Add(k.Cross(v).MulScalar(s)).Add(k.MulScalar(k.Dot(v) * (1 - c)))
	}
	return Rotation{X: rot(XAxis), Y: rot(YAxis), Z: rot(ZAxis)}
}

// EulerRotation builds a rotation from angles in degrees about the X, Y and Z
// axes. The X rotation is applied first, then Y, then Z.
func EulerRotation(x, y, z float64) Rotation {
	rx := AxisAngleRotation(XAxis, x*math.Pi/180)
	ry := AxisAngleRotation(YAxis, y*math.Pi/180)
	rz := AxisAngleRotation(ZAxis, z*math.Pi/180)
	return rz.Mul(ry).Mul(rx)
}

// AxisAngle decomposes r into a unit axis and an angle in [0, π].
func (r Rotation) AxisAngle() (Vec, float64) {
	tr := r.X.X + r.Y.Y + r.Z.Z
	cosA := math.Max(-1, math.Min(1, (tr-1)/2))
	angle := math.Acos(cosA)
	if angle < 1e-12 {
		return ZAxis, 0
	}
	axis := Vec{X: r.Y.Z - r.Z.Y, Y: r.Z.X - r.X.Z, Z: r.X.Y - r.Y.X}
	if u, ok := Unit(axis, 1e-9); ok && math.Pi-angle > 1e-6 {
		return u, angle
	}
	// Near π the antisymmetric part vanishes; read the axis off the diagonal.
	x := math.Sqrt(math.Max(0, (r.X.X+1)/2))
	y := math.Sqrt(math.Max(0, (r.Y.Y+1)/2))
	z := math.Sqrt(math.Max(0, (r.Z.Z+1)/2))
	switch {
	case x >= y && x >= z:
		y = math.Copysign(y, r.X.Y+r.Y.X)
		z = math.Copysign(z, r.X.Z+r.Z.X)
	case y >= z:
		x = math.Copysign(x, r.X.Y+r.Y.X)
		z = math.Copysign(z, r.Y.Z+r.Z.Y)
	default:
		x = math.Copysign(x, r.X.Z+r.Z.X)
		y = math.Copysign(y, r.Y.Z+r.Z.Y)
	}
	u, _ := Unit(Vec{X: x, Y: y, Z: z}, 0)
	return u, angle
}

// Quat is a rotation quaternion W + Xi + Yj + Zk.
type Quat struct {
	W, X, Y, Z float64
}

// QuatRotation converts q to a rotation. q need not be normalized; a zero
// quaternion yields the identity.
func QuatRotation(q Quat) Rotation {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n == 0 {
		return Identity()
	}
	w, x, y, z := q.W/n, q.X/n, q.Y/n, q.Z/n
	return Rotation{
		X: Vec{X: 1 - 2*(y*y+z*z), Y: 2 * (x*y + w*z), Z: 2 * (x*z - w*y)},
		Y: Vec{X: 2 * (x*y - w*z), Y: 1 - 2*(x*x+z*z), Z: 2 * (y*z + w*x)},
		Z: Vec{X: 2 * (x*z + w*y), Y: 2 * (y*z - w*x), Z: 1 - 2*(x*x+y*y)},
	}
}

// Quat returns the unit quaternion for r with a non-negative W.
func (r Rotation) Quat() Quat {
	axis, angle := r.AxisAngle()
	s := math.Sin(angle / 2)
	return Quat{W: math.Cos(angle / 2), X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}
