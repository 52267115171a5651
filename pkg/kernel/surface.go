package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/jig/pkg/geom"
)

// SurfaceKind identifies the analytic type of a surface.
type SurfaceKind int

const (
	SurfacePlane SurfaceKind = iota
	SurfaceCylinder
	SurfaceSphere
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfacePlane:
		return "Plane"
	case SurfaceCylinder:
		return "Cylinder"
	case SurfaceSphere:
		return "Sphere"
	default:
		return fmt.Sprintf("SurfaceKind(%d)", int(k))
	}
}

// Surface is a parametric face bounded to [u0, u1] x [v0, v1].
type Surface interface {
	Element
	Kind() SurfaceKind
	Domain() (u0, u1, v0, v1 float64)
	Value(u, v float64) geom.Vec
	DU(u, v float64) geom.Vec
	DV(u, v float64) geom.Vec
	// Normal is the unit outward normal.
	Normal(u, v float64) geom.Vec
	// Project returns the parameters of the point of the unbounded surface
	// closest to p. Periodic parameters start at the domain start.
	Project(p geom.Vec) (u, v float64)
	// Moved returns the surface carried by the rigid transform p.
	Moved(p geom.Placement) Surface
}

// MidUV returns the parameters at the middle of the domain of s.
func MidUV(s Surface) (float64, float64) {
	u0, u1, v0, v1 := s.Domain()
	return (u0 + u1) / 2, (v0 + v1) / 2
}

// ----------------------------------------------------------------------------
// Plane
// ----------------------------------------------------------------------------

// Plane is a rectangular patch of the XY plane of Pos; u and v run along the
// local X and Y axes, and the normal is the local Z axis.
type Plane struct {
	Pos    geom.Placement
	U0, U1 float64
	V0, V1 float64
}

// NewPlane returns a w by h patch centered on origin with the given normal.
func NewPlane(origin, normal geom.Vec, w, h float64) (Plane, error) {
	rot, err := geom.FrameZ(normal)
	if err != nil {
		return Plane{}, fmt.Errorf("plane: %w", err)
	}
	return Plane{Pos: geom.At(origin, rot), U0: -w / 2, U1: w / 2, V0: -h / 2, V1: h / 2}, nil
}

func (Plane) Dimension() int    { return 2 }
func (Plane) Kind() SurfaceKind { return SurfacePlane }

func (p Plane) Moved(q geom.Placement) Surface {
	p.Pos = q.Mul(p.Pos)
	return p
}

func (p Plane) Domain() (float64, float64, float64, float64) { return p.U0, p.U1, p.V0, p.V1 }

func (p Plane) Value(u, v float64) geom.Vec      { return p.Pos.Apply(geom.Vec{X: u, Y: v}) }
func (p Plane) DU(float64, float64) geom.Vec     { return p.Pos.Rotation.X }
func (p Plane) DV(float64, float64) geom.Vec     { return p.Pos.Rotation.Y }
func (p Plane) Normal(float64, float64) geom.Vec { return p.Pos.Rotation.Z }

func (p Plane) Project(q geom.Vec) (float64, float64) {
	d := q.Sub(p.Pos.Origin)
	return d.Dot(p.Pos.Rotation.X), d.Dot(p.Pos.Rotation.Y)
}

// ----------------------------------------------------------------------------
// Cylinder
// ----------------------------------------------------------------------------

// Cylinder is the lateral face of a cylinder around the Z axis of Pos. u is
// the angle from local X, v the height along Z.
type Cylinder struct {
	Pos    geom.Placement
	Radius float64
	U0, U1 float64
	V0, V1 float64
}

func (Cylinder) Dimension() int    { return 2 }
func (Cylinder) Kind() SurfaceKind { return SurfaceCylinder }

func (c Cylinder) Moved(q geom.Placement) Surface {
	c.Pos = q.Mul(c.Pos)
	return c
}

func (c Cylinder) Domain() (float64, float64, float64, float64) { return c.U0, c.U1, c.V0, c.V1 }

func (c Cylinder) Value(u, v float64) geom.Vec {
	return c.Pos.Apply(geom.Vec{X: c.Radius * math.Cos(u), Y: c.Radius * math.Sin(u), Z: v})
}

func (c Cylinder) DU(u, _ float64) geom.Vec {
	return c.Pos.Rotation.Apply(geom.Vec{X: -c.Radius * math.Sin(u), Y: c.Radius * math.Cos(u)})
}

func (c Cylinder) DV(float64, float64) geom.Vec { return c.Pos.Rotation.Z }

func (c Cylinder) Normal(u, _ float64) geom.Vec {
	return c.Pos.Rotation.Apply(geom.Vec{X: math.Cos(u), Y: math.Sin(u)})
}

func (c Cylinder) Project(p geom.Vec) (float64, float64) {
	return wrapAngle(angleIn(c.Pos, p), c.U0), p.Sub(c.Pos.Origin).Dot(c.Pos.Rotation.Z)
}

// ----------------------------------------------------------------------------
// Sphere
// ----------------------------------------------------------------------------

// Sphere is centered on Pos.Origin. u is the longitude from local X, v the
// latitude from the XY plane.
type Sphere struct {
	Pos    geom.Placement
	Radius float64
	U0, U1 float64
	V0, V1 float64
}

// NewSphere returns a full sphere face.
func NewSphere(center geom.Vec, radius float64) Sphere {
	return Sphere{
		Pos:    geom.At(center, geom.Identity()),
		Radius: radius,
		U1:     2 * math.Pi,
		V0:     -math.Pi / 2,
		V1:     math.Pi / 2,
	}
}

func (Sphere) Dimension() int    { return 2 }
func (Sphere) Kind() SurfaceKind { return SurfaceSphere }

func (s Sphere) Moved(q geom.Placement) Surface {
	s.Pos = q.Mul(s.Pos)
	return s
}

func (s Sphere) Domain() (float64, float64, float64, float64) { return s.U0, s.U1, s.V0, s.V1 }

func (s Sphere) Value(u, v float64) geom.Vec {
	return s.Pos.Origin.Add(s.radial(u, v).MulScalar(s.Radius))
}

func (s Sphere) DU(u, v float64) geom.Vec {
	return s.Pos.Rotation.Apply(geom.Vec{X: -math.Sin(u), Y: math.Cos(u)}).MulScalar(s.Radius * math.Cos(v))
}

func (s Sphere) DV(u, v float64) geom.Vec {
	sv, cv := math.Sin(v), math.Cos(v)
	return s.Pos.Rotation.Apply(geom.Vec{X: -sv * math.Cos(u), Y: -sv * math.Sin(u), Z: cv}).MulScalar(s.Radius)
}

func (s Sphere) Normal(u, v float64) geom.Vec { return s.radial(u, v) }

func (s Sphere) Project(p geom.Vec) (float64, float64) {
	d := s.Pos.Rotation.Inverse().Apply(p.Sub(s.Pos.Origin))
	u := 0.0
	if d.X != 0 || d.Y != 0 {
		u = math.Atan2(d.Y, d.X)
	}
	return wrapAngle(u, s.U0), math.Atan2(d.Z, math.Hypot(d.X, d.Y))
}

func (s Sphere) radial(u, v float64) geom.Vec {
	cv := math.Cos(v)
	return s.Pos.Rotation.Apply(geom.Vec{X: cv * math.Cos(u), Y: cv * math.Sin(u), Z: math.Sin(v)})
}
