package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/jig/pkg/geom"
)

// Conic is a curve with a natural frame: the center (apex for a parabola),
// the major or symmetry axis as X and the plane normal as Z.
//
// Derived quantities such as foci, directrices and asymptotes are computed
// on demand by the concrete types.
type Conic interface {
	Curve
	Position() geom.Placement
}

var (
	_ Conic = Circle{}
	_ Conic = Ellipse{}
	_ Conic = Parabola{}
	_ Conic = Hyperbola{}
)

func (c Circle) Position() geom.Placement { return c.Pos }

// ----------------------------------------------------------------------------
// Ellipse
// ----------------------------------------------------------------------------

// Ellipse lies in the XY plane of Pos with its major axis along X.
// Major >= Minor > 0.
type Ellipse struct {
	Pos          geom.Placement
	Major, Minor float64
	T0, T1       float64
}

// NewEllipse returns a full ellipse. xDir gives the major axis direction.
func NewEllipse(center, normal, xDir geom.Vec, major, minor float64) (Ellipse, error) {
	if !(minor > 0) || major < minor {
		return Ellipse{}, fmt.Errorf("ellipse: need major >= minor > 0, got %g, %g", major, minor)
	}
	rot, err := geom.FrameZX(normal, xDir)
	if err != nil {
		return Ellipse{}, fmt.Errorf("ellipse: %w", err)
	}
	return Ellipse{Pos: geom.At(center, rot), Major: major, Minor: minor, T1: 2 * math.Pi}, nil
}

func (Ellipse) Dimension() int               { return 1 }
func (Ellipse) Kind() CurveKind              { return CurveEllipse }
func (e Ellipse) Domain() (float64, float64) { return e.T0, e.T1 }
func (e Ellipse) Position() geom.Placement   { return e.Pos }

func (e Ellipse) Moved(q geom.Placement) Curve {
	e.Pos = q.Mul(e.Pos)
	return e
}

func (e Ellipse) Value(t float64) geom.Vec {
	return e.Pos.Apply(geom.Vec{X: e.Major * math.Cos(t), Y: e.Minor * math.Sin(t)})
}

func (e Ellipse) D1(t float64) geom.Vec {
	return e.Pos.Rotation.Apply(geom.Vec{X: -e.Major * math.Sin(t), Y: e.Minor * math.Cos(t)})
}

func (e Ellipse) D2(t float64) geom.Vec {
	return e.Pos.Rotation.Apply(geom.Vec{X: -e.Major * math.Cos(t), Y: -e.Minor * math.Sin(t)})
}

// FocalDistance is the distance from the center to each focus.
func (e Ellipse) FocalDistance() float64 {
	return math.Sqrt(math.Max(0, e.Major*e.Major-e.Minor*e.Minor))
}

// Focus returns focus 1 (on +X) or focus 2 (on -X).
func (e Ellipse) Focus(i int) geom.Vec {
	return e.Pos.Apply(geom.Vec{X: focusSign(i) * e.FocalDistance()})
}

// Directrix returns a point on directrix i and its direction. ok is false
// for a circular ellipse, which has no directrices.
func (e Ellipse) Directrix(i int) (p, dir geom.Vec, ok bool) {
	f := e.FocalDistance()
	if f <= geom.Tolerance*e.Major {
		return geom.Vec{}, geom.Vec{}, false
	}
	return e.Pos.Apply(geom.Vec{X: focusSign(i) * e.Major * e.Major / f}), e.Pos.Rotation.Y, true
}

// ----------------------------------------------------------------------------
// Parabola
// ----------------------------------------------------------------------------

// Parabola opens along the X axis of Pos from its apex at Pos.Origin:
// Value(t) = apex + t²/(4f)·X + t·Y.
type Parabola struct {
	Pos    geom.Placement
	Focal  float64
	T0, T1 float64
}

func (Parabola) Dimension() int               { return 1 }
func (Parabola) Kind() CurveKind              { return CurveParabola }
func (p Parabola) Domain() (float64, float64) { return p.T0, p.T1 }
func (p Parabola) Position() geom.Placement   { return p.Pos }

func (p Parabola) Moved(q geom.Placement) Curve {
	p.Pos = q.Mul(p.Pos)
	return p
}

func (p Parabola) Value(t float64) geom.Vec {
	return p.Pos.Apply(geom.Vec{X: t * t / (4 * p.Focal), Y: t})
}

func (p Parabola) D1(t float64) geom.Vec {
	return p.Pos.Rotation.Apply(geom.Vec{X: t / (2 * p.Focal), Y: 1})
}

func (p Parabola) D2(float64) geom.Vec {
	return p.Pos.Rotation.Apply(geom.Vec{X: 1 / (2 * p.Focal)})
}

// Focus returns the single focus.
func (p Parabola) Focus() geom.Vec {
	return p.Pos.Apply(geom.Vec{X: p.Focal})
}

// Directrix returns a point on the directrix and its direction.
func (p Parabola) Directrix() (geom.Vec, geom.Vec) {
	return p.Pos.Apply(geom.Vec{X: -p.Focal}), p.Pos.Rotation.Y
}

// ----------------------------------------------------------------------------
// Hyperbola
// ----------------------------------------------------------------------------

// Hyperbola is the branch on +X of the XY plane of Pos:
// Value(t) = center + a·cosh t·X + b·sinh t·Y.
type Hyperbola struct {
	Pos          geom.Placement
	Major, Minor float64
	T0, T1       float64
}

func (Hyperbola) Dimension() int               { return 1 }
func (Hyperbola) Kind() CurveKind              { return CurveHyperbola }
func (h Hyperbola) Domain() (float64, float64) { return h.T0, h.T1 }
func (h Hyperbola) Position() geom.Placement   { return h.Pos }

func (h Hyperbola) Moved(q geom.Placement) Curve {
	h.Pos = q.Mul(h.Pos)
	return h
}

func (h Hyperbola) Value(t float64) geom.Vec {
	return h.Pos.Apply(geom.Vec{X: h.Major * math.Cosh(t), Y: h.Minor * math.Sinh(t)})
}

func (h Hyperbola) D1(t float64) geom.Vec {
	return h.Pos.Rotation.Apply(geom.Vec{X: h.Major * math.Sinh(t), Y: h.Minor * math.Cosh(t)})
}

func (h Hyperbola) D2(t float64) geom.Vec {
	return h.Pos.Rotation.Apply(geom.Vec{X: h.Major * math.Cosh(t), Y: h.Minor * math.Sinh(t)})
}

// FocalDistance is the distance from the center to each focus.
func (h Hyperbola) FocalDistance() float64 {
	return math.Hypot(h.Major, h.Minor)
}

// Focus returns focus 1 (inside this branch) or focus 2 (inside the other).
func (h Hyperbola) Focus(i int) geom.Vec {
	return h.Pos.Apply(geom.Vec{X: focusSign(i) * h.FocalDistance()})
}

// Directrix returns a point on directrix i and its direction.
func (h Hyperbola) Directrix(i int) (geom.Vec, geom.Vec) {
	return h.Pos.Apply(geom.Vec{X: focusSign(i) * h.Major * h.Major / h.FocalDistance()}), h.Pos.Rotation.Y
}

// Asymptote returns the center and unit direction of asymptote i:
// 1 runs along a·X + b·Y, 2 along a·X - b·Y.
func (h Hyperbola) Asymptote(i int) (geom.Vec, geom.Vec) {
	d, _ := geom.Unit(geom.Vec{X: h.Major, Y: focusSign(i) * h.Minor}, 0)
	return h.Pos.Origin, h.Pos.Rotation.Apply(d)
}

func focusSign(i int) float64 {
	if i == 2 {
		return -1
	}
	return 1
}
