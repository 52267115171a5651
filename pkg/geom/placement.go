package geom

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// Placement is a rigid transform: a rotation followed by a translation to
// Origin. It positions a local frame in world space.
//
// For a line the direction is the Z axis; for a plane the normal is the Z
// axis; a point only uses Origin.
type Placement struct {
	Origin   Vec      `json:"origin" yaml:"origin"`
	Rotation Rotation `json:"rotation" yaml:"rotation"`
}

// IdentityPlacement returns the placement at the world origin with no
// rotation.
func IdentityPlacement() Placement {
	return Placement{Rotation: Identity()}
}

// At returns a placement at origin with rotation rot.
func At(origin Vec, rot Rotation) Placement {
	return Placement{Origin: origin, Rotation: rot}
}

// Mul returns p∘q: q is expressed in the local frame of p.
func (p Placement) Mul(q Placement) Placement {
	return Placement{
		Origin:   p.Origin.Add(p.Rotation.Apply(q.Origin)),
		Rotation: p.Rotation.Mul(q.Rotation),
	}
}

// Inverse returns the placement that undoes p.
func (p Placement) Inverse() Placement {
	inv := p.Rotation.Inverse()
	return Placement{Origin: inv.Apply(p.Origin).Neg(), Rotation: inv}
}

// Apply maps a local point to world space.
func (p Placement) Apply(v Vec) Vec {
	return p.Origin.Add(p.Rotation.Apply(v))
}

// Direction returns the Z axis, the direction of a line placement or the
// normal of a plane placement.
func (p Placement) Direction() Vec {
	return p.Rotation.Z
}

// Equal compares origins and rotation columns within tol.
func (p Placement) Equal(q Placement, tol float64) bool {
	return Near(p.Origin, q.Origin, tol) && p.Rotation.Equal(q.Rotation, tol)
}

// M44 converts p to an sdfx transform matrix.
func (p Placement) M44() sdf.M44 {
	axis, angle := p.Rotation.AxisAngle()
	return sdf.Translate3d(p.Origin).Mul(sdf.Rotate3d(axis, angle))
}

func (p Placement) String() string {
	return fmt.Sprintf("placement{origin(%.6g %.6g %.6g) rot%s}",
		p.Origin.X, p.Origin.Y, p.Origin.Z, p.Rotation)
}
