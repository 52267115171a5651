package attach

import (
	"github.com/chazu/jig/pkg/geom"
)

// Offset is a transform in the local frame of the base placement.
type Offset struct {
	Translation geom.Vec
	Rotation    geom.Rotation
}

// IdentityOffset leaves the base placement unchanged.
func IdentityOffset() Offset {
	return Offset{Rotation: geom.Identity()}
}

// EulerOffset builds an offset from a translation and rotations in degrees
// about X, then Y, then Z.
func EulerOffset(translation geom.Vec, x, y, z float64) Offset {
	return Offset{Translation: translation, Rotation: geom.EulerRotation(x, y, z)}
}

// QuatOffset builds an offset from a translation and a quaternion.
func QuatOffset(translation geom.Vec, q geom.Quat) Offset {
	return Offset{Translation: translation, Rotation: geom.QuatRotation(q)}
}

// Placement returns the offset as a placement. The zero Offset is the
// identity.
func (o Offset) Placement() geom.Placement {
	rot := o.Rotation
	if rot == (geom.Rotation{}) {
		rot = geom.Identity()
	}
	return geom.At(o.Translation, rot)
}

// Flip turns p half way around its own Y axis, reversing X and Z.
// Flip(Flip(p)) == p exactly.
func Flip(p geom.Placement) geom.Placement {
	p.Rotation.X = p.Rotation.X.Neg()
	p.Rotation.Z = p.Rotation.Z.Neg()
	return p
}

// Compose applies flip to the base placement, then the offset in the
// base's frame: base ∘ offset.
func Compose(base geom.Placement, off Offset, flip bool) geom.Placement {
	if flip {
		base = Flip(base)
	}
	return base.Mul(off.Placement())
}
