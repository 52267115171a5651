package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/jig/pkg/geom"
)

// CurveKind identifies the analytic type of a curve.
type CurveKind int

const (
	CurveLine CurveKind = iota
	CurveCircle
	CurveEllipse
	CurveParabola
	CurveHyperbola
	CurveHelix
)

func (k CurveKind) String() string {
	switch k {
	case CurveLine:
		return "Line"
	case CurveCircle:
		return "Circle"
	case CurveEllipse:
		return "Ellipse"
	case CurveParabola:
		return "Parabola"
	case CurveHyperbola:
		return "Hyperbola"
	case CurveHelix:
		return "Helix"
	default:
		return fmt.Sprintf("CurveKind(%d)", int(k))
	}
}

// Curve is a parametric curve bounded to [t0, t1].
type Curve interface {
	Element
	Kind() CurveKind
	Domain() (t0, t1 float64)
	Value(t float64) geom.Vec
	// D1 and D2 are the first and second derivatives with respect to t.
	D1(t float64) geom.Vec
	D2(t float64) geom.Vec
	// Moved returns the curve carried by the rigid transform p.
	Moved(p geom.Placement) Curve
}

// curveProjector is implemented by curves with a closed-form projection onto
// the unbounded underlying curve.
type curveProjector interface {
	project(p geom.Vec) float64
}

// MidParam returns the parameter halfway through the domain of c.
func MidParam(c Curve) float64 {
	t0, t1 := c.Domain()
	return (t0 + t1) / 2
}

// ----------------------------------------------------------------------------
// Line
// ----------------------------------------------------------------------------

// Line is a straight segment. The parameter is the distance from Origin
// along the unit direction Dir.
type Line struct {
	Origin geom.Vec
	Dir    geom.Vec
	T0, T1 float64
}

// NewSegment returns the line segment from a to b.
func NewSegment(a, b geom.Vec) (Line, error) {
	d := b.Sub(a)
	u, ok := geom.Unit(d, geom.Tolerance)
	if !ok {
		return Line{}, fmt.Errorf("segment: coincident end points %v", a)
	}
	return Line{Origin: a, Dir: u, T1: d.Length()}, nil
}

func (Line) Dimension() int               { return 1 }
func (Line) Kind() CurveKind              { return CurveLine }
func (l Line) Domain() (float64, float64) { return l.T0, l.T1 }

func (l Line) Value(t float64) geom.Vec { return l.Origin.Add(l.Dir.MulScalar(t)) }
func (l Line) D1(float64) geom.Vec      { return l.Dir }
func (l Line) D2(float64) geom.Vec      { return geom.Vec{} }

// Start and End return the segment end points.
func (l Line) Start() geom.Vec { return l.Value(l.T0) }
func (l Line) End() geom.Vec   { return l.Value(l.T1) }

func (l Line) Moved(p geom.Placement) Curve {
	l.Origin = p.Apply(l.Origin)
	l.Dir = p.Rotation.Apply(l.Dir)
	return l
}

func (l Line) project(p geom.Vec) float64 { return p.Sub(l.Origin).Dot(l.Dir) }

// ----------------------------------------------------------------------------
// Circle
// ----------------------------------------------------------------------------

// Circle lies in the XY plane of Pos, centered on Pos.Origin. The parameter
// is the angle from the local X axis.
type Circle struct {
	Pos    geom.Placement
	Radius float64
	T0, T1 float64
}

// NewCircle returns a full circle around center with the given normal.
func NewCircle(center, normal geom.Vec, radius float64) (Circle, error) {
	if !(radius > 0) {
		return Circle{}, fmt.Errorf("circle: radius must be positive, got %g", radius)
	}
	rot, err := geom.FrameZ(normal)
	if err != nil {
		return Circle{}, fmt.Errorf("circle: %w", err)
	}
	return Circle{Pos: geom.At(center, rot), Radius: radius, T1: 2 * math.Pi}, nil
}

func (Circle) Dimension() int               { return 1 }
func (Circle) Kind() CurveKind              { return CurveCircle }
func (c Circle) Domain() (float64, float64) { return c.T0, c.T1 }

func (c Circle) Value(t float64) geom.Vec {
	return c.Pos.Apply(geom.Vec{X: c.Radius * math.Cos(t), Y: c.Radius * math.Sin(t)})
}

func (c Circle) D1(t float64) geom.Vec {
	return c.Pos.Rotation.Apply(geom.Vec{X: -c.Radius * math.Sin(t), Y: c.Radius * math.Cos(t)})
}

func (c Circle) D2(t float64) geom.Vec {
	return c.Pos.Rotation.Apply(geom.Vec{X: -c.Radius * math.Cos(t), Y: -c.Radius * math.Sin(t)})
}

func (c Circle) Moved(p geom.Placement) Curve {
	c.Pos = p.Mul(c.Pos)
	return c
}

func (c Circle) project(p geom.Vec) float64 {
	return wrapAngle(angleIn(c.Pos, p), c.T0)
}

// ----------------------------------------------------------------------------
// Helix
// ----------------------------------------------------------------------------

// Helix winds around the Z axis of Pos. The parameter is the turn angle; the
// helix rises Pitch per full turn.
type Helix struct {
	Pos    geom.Placement
	Radius float64
	Pitch  float64
	T0, T1 float64
}

func (Helix) Dimension() int               { return 1 }
func (Helix) Kind() CurveKind              { return CurveHelix }
func (h Helix) Domain() (float64, float64) { return h.T0, h.T1 }

func (h Helix) Value(t float64) geom.Vec {
	return h.Pos.Apply(geom.Vec{
		X: h.Radius * math.Cos(t),
		Y: h.Radius * math.Sin(t),
		Z: h.Pitch * t / (2 * math.Pi),
	})
}

func (h Helix) D1(t float64) geom.Vec {
	return h.Pos.Rotation.Apply(geom.Vec{
		X: -h.Radius * math.Sin(t),
		Y: h.Radius * math.Cos(t),
		Z: h.Pitch / (2 * math.Pi),
	})
}

func (h Helix) D2(t float64) geom.Vec {
	return h.Pos.Rotation.Apply(geom.Vec{X: -h.Radius * math.Cos(t), Y: -h.Radius * math.Sin(t)})
}

func (h Helix) Moved(p geom.Placement) Curve {
	h.Pos = p.Mul(h.Pos)
	return h
}

// ----------------------------------------------------------------------------
// helpers
// ----------------------------------------------------------------------------

// angleIn returns the polar angle of p in the XY plane of pos.
func angleIn(pos geom.Placement, p geom.Vec) float64 {
	d := p.Sub(pos.Origin)
	x, y := d.Dot(pos.Rotation.X), d.Dot(pos.Rotation.Y)
	if x == 0 && y == 0 {
		return 0
	}
	return math.Atan2(y, x)
}

// wrapAngle maps a into [start, start+2π).
func wrapAngle(a, start float64) float64 {
	a = math.Mod(a-start, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return start + a
}
