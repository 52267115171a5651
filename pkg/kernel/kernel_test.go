package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/jig/pkg/geom"
)

const eps = 1e-9

func assertNear(t *testing.T, want, got geom.Vec, tol float64) {
	t.Helper()
	assert.True(t, geom.Near(want, got, tol), "want %v, got %v", want, got)
}

func TestSegment(t *testing.T) {
	l, err := NewSegment(geom.Vec{X: 1}, geom.Vec{X: 1, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, CurveLine, l.Kind())
	assert.InDelta(t, 4, l.T1, eps)
	assertNear(t, geom.Vec{X: 1, Y: 4}, l.End(), eps)
	assertNear(t, geom.YAxis, l.D1(2), eps)

	_, err = NewSegment(geom.Vec{X: 1}, geom.Vec{X: 1})
	require.Error(t, err)
}

func TestEllipseConics(t *testing.T) {
	e, err := NewEllipse(geom.Vec{}, geom.ZAxis, geom.XAxis, 5, 3)
	require.NoError(t, err)

	assertNear(t, geom.Vec{X: 4}, e.Focus(1), eps)
	assertNear(t, geom.Vec{X: -4}, e.Focus(2), eps)

	p, dir, ok := e.Directrix(1)
	require.True(t, ok)
	assertNear(t, geom.Vec{X: 25.0 / 4}, p, eps)
	assertNear(t, geom.YAxis, dir, eps)

	// Sum of focal distances is 2a everywhere.
	for _, tt := range []float64{0, 0.7, 2, 4} {
		q := e.Value(tt)
		sum := q.Sub(e.Focus(1)).Length() + q.Sub(e.Focus(2)).Length()
		assert.InDelta(t, 10, sum, 1e-9)
	}

	circ, err := NewEllipse(geom.Vec{}, geom.ZAxis, geom.XAxis, 2, 2)
	require.NoError(t, err)
	_, _, ok = circ.Directrix(1)
	assert.False(t, ok)

	_, err = NewEllipse(geom.Vec{}, geom.ZAxis, geom.XAxis, 1, 2)
	require.Error(t, err)
}

func TestParabolaFocusDirectrix(t *testing.T) {
	p := Parabola{Pos: geom.IdentityPlacement(), Focal: 1.5, T0: -5, T1: 5}
	f := p.Focus()
	dp, dd := p.Directrix()
	for _, tt := range []float64{-3, 0, 1, 4} {
		q := p.Value(tt)
		toDirectrix := geom.Reject(q.Sub(dp), dd).Length()
		assert.InDelta(t, toDirectrix, q.Sub(f).Length(), 1e-9)
	}
}

func TestHyperbola(t *testing.T) {
	h := Hyperbola{Pos: geom.IdentityPlacement(), Major: 3, Minor: 4, T0: -2, T1: 2}
	assert.InDelta(t, 5, h.FocalDistance(), eps)
	assertNear(t, geom.Vec{X: 5}, h.Focus(1), eps)
	assertNear(t, geom.Vec{X: -5}, h.Focus(2), eps)

	dp, _ := h.Directrix(2)
	assertNear(t, geom.Vec{X: -9.0 / 5}, dp, eps)

	o, d1 := h.Asymptote(1)
	_, d2 := h.Asymptote(2)
	assertNear(t, geom.Vec{}, o, eps)
	assertNear(t, geom.Vec{X: 0.6, Y: 0.8}, d1, eps)
	assertNear(t, geom.Vec{X: 0.6, Y: -0.8}, d2, eps)

	// Difference of focal distances is 2a.
	q := h.Value(1.3)
	assert.InDelta(t, 6, q.Sub(h.Focus(2)).Length()-q.Sub(h.Focus(1)).Length(), 1e-9)
}

func TestProjectCurve(t *testing.T) {
	line, err := NewSegment(geom.Vec{}, geom.Vec{X: 1})
	require.NoError(t, err)
	assert.InDelta(t, 7, ProjectCurve(line, geom.Vec{X: 7, Y: 3}, 0), eps, "lines project unbounded")

	circ, err := NewCircle(geom.Vec{Z: 1}, geom.ZAxis, 2)
	require.NoError(t, err)
	got := ProjectCurve(circ, geom.Vec{X: 0, Y: -5, Z: 3}, 0)
	assert.InDelta(t, 3*math.Pi/2, got, eps)

	e, err := NewEllipse(geom.Vec{}, geom.ZAxis, geom.XAxis, 5, 3)
	require.NoError(t, err)
	p := geom.Vec{X: 6, Y: 4}
	te := ProjectCurve(e, p, 0)
	r := e.Value(te).Sub(p)
	assert.InDelta(t, 0, r.Dot(e.D1(te)), 1e-7, "residual is normal to the curve")
}

func TestArcLength(t *testing.T) {
	circ, err := NewCircle(geom.Vec{}, geom.ZAxis, 3)
	require.NoError(t, err)
	assert.InDelta(t, 6*math.Pi, ArcLength(circ, 0, 2*math.Pi, 64), 1e-9)

	tq, err := ParamAtFraction(circ, 0.25, 64)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, tq, 1e-9)

	e, err := NewEllipse(geom.Vec{}, geom.ZAxis, geom.XAxis, 5, 3)
	require.NoError(t, err)
	th, err := ParamAtFraction(e, 0.5, 128)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, th, 1e-6)

	_, err = ParamAtFraction(circ, 1.5, 64)
	require.Error(t, err)
}

func TestMassProps(t *testing.T) {
	seg, err := NewSegment(geom.Vec{X: 1}, geom.Vec{X: 5})
	require.NoError(t, err)
	mp := CurveMass(seg, 16)
	assert.InDelta(t, 4, mp.Mass, eps)
	c, ok := mp.Center()
	require.True(t, ok)
	assertNear(t, geom.Vec{X: 3}, c, eps)

	pl, err := NewPlane(geom.Vec{Z: 2}, geom.ZAxis, 4, 2)
	require.NoError(t, err)
	mp = SurfaceMass(pl, 8)
	assert.InDelta(t, 8, mp.Mass, eps)
	c, _ = mp.Center()
	assertNear(t, geom.Vec{Z: 2}, c, eps)

	sp := NewSphere(geom.Vec{X: 1}, 2)
	mp = SurfaceMass(sp, 64)
	assert.InDelta(t, 16*math.Pi, mp.Mass, 1e-4)

	_, ok = MassProps{}.Center()
	assert.False(t, ok)
}

func TestInertiaOfPointPair(t *testing.T) {
	mp := PointMass(geom.Vec{X: -1, Z: 3}, 1).Add(PointMass(geom.Vec{X: 1, Z: 3}, 1))
	in := mp.Inertia()
	// Masses on the X axis through the center: no moment about X.
	assert.InDelta(t, 0, in[0][0], eps)
	assert.InDelta(t, 2, in[1][1], eps)
	assert.InDelta(t, 2, in[2][2], eps)
	assert.InDelta(t, 0, in[0][2], eps)
}

func TestInertiaFarFromOrigin(t *testing.T) {
	const far = 1e8
	mp := PointMass(geom.Vec{X: far - 1, Z: 3}, 1).Add(PointMass(geom.Vec{X: far + 1, Z: 3}, 1))
	in := mp.Inertia()
	assert.InDelta(t, 0, in[0][0], 1e-6)
	assert.InDelta(t, 2, in[1][1], 1e-6)
	assert.InDelta(t, 2, in[2][2], 1e-6)
	c, _ := mp.Center()
	assertNear(t, geom.Vec{X: far, Z: 3}, c, 1e-6)

	// A rod of length 4: I = mL²/12 about its center, across the rod.
	seg, err := NewSegment(geom.Vec{X: far, Y: far}, geom.Vec{X: far + 4, Y: far})
	require.NoError(t, err)
	in = CurveMass(seg, 16).Inertia()
	assert.InDelta(t, 0, in[0][0], 1e-6)
	assert.InDelta(t, 4*16/12.0, in[1][1], 1e-6)
	assert.InDelta(t, 4*16/12.0, in[2][2], 1e-6)
	assert.InDelta(t, 0, in[0][1], 1e-6)
}

func TestMassPropsAddEmpty(t *testing.T) {
	p := PointMass(geom.Vec{X: 2}, 3)
	assert.Equal(t, p, MassProps{}.Add(p))
	assert.Equal(t, p, p.Add(MassProps{}))
}

func TestExtrema(t *testing.T) {
	a, err := NewSegment(geom.Vec{X: -1}, geom.Vec{X: 1})
	require.NoError(t, err)
	b, err := NewSegment(geom.Vec{Y: -1, Z: 2}, geom.Vec{Y: 1, Z: 2})
	require.NoError(t, err)

	pa, pb, err := Extrema(a, b, 0, eps)
	require.NoError(t, err)
	assertNear(t, geom.Vec{}, pa, eps)
	assertNear(t, geom.Vec{Z: 2}, pb, eps)

	// Bounded: the closest point of a short segment is its end.
	c, err := NewSegment(geom.Vec{X: 3, Z: 1}, geom.Vec{X: 5, Z: 1})
	require.NoError(t, err)
	pa, pc, err := Extrema(a, c, 0, eps)
	require.NoError(t, err)
	assertNear(t, geom.Vec{X: 1}, pa, eps)
	assertNear(t, geom.Vec{X: 3, Z: 1}, pc, eps)

	circ, err := NewCircle(geom.Vec{}, geom.ZAxis, 2)
	require.NoError(t, err)
	pp, pq, err := Extrema(Point{P: geom.Vec{X: 5, Z: 1}}, circ, 0, eps)
	require.NoError(t, err)
	assertNear(t, geom.Vec{X: 5, Z: 1}, pp, eps)
	assertNear(t, geom.Vec{X: 2}, pq, 1e-7)

	sp := NewSphere(geom.Vec{}, 1)
	far, err := NewSegment(geom.Vec{X: -4, Y: 3}, geom.Vec{X: 4, Y: 3})
	require.NoError(t, err)
	pf, ps, err := Extrema(far, sp, 0, eps)
	require.NoError(t, err)
	assertNear(t, geom.Vec{Y: 3}, pf, 1e-6)
	assertNear(t, geom.Vec{Y: 1}, ps, 1e-6)

	_, _, err = Extrema(Solid{}, Solid{}, 0, eps)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestMoved(t *testing.T) {
	p := geom.At(geom.Vec{X: 10}, geom.EulerRotation(0, 0, 90))

	l, err := NewSegment(geom.Vec{}, geom.Vec{X: 1})
	require.NoError(t, err)
	ml := l.Moved(p)
	assertNear(t, geom.Vec{X: 10, Y: 1}, ml.Value(1), eps)

	pl, err := NewPlane(geom.Vec{}, geom.XAxis, 1, 1)
	require.NoError(t, err)
	mp := pl.Moved(p)
	assertNear(t, geom.YAxis, mp.Normal(0, 0), eps)
}

func TestShapeIndexing(t *testing.T) {
	var s Shape
	assert.True(t, s.IsEmpty())
	n, err := s.AddSegment(geom.Vec{}, geom.Vec{Z: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, s.Count(ElementVertex))

	_, ok := s.Vertex(0)
	assert.False(t, ok)
	v, ok := s.Vertex(2)
	require.True(t, ok)
	assertNear(t, geom.ZAxis, v, eps)
	_, ok = s.Edge(2)
	assert.False(t, ok)
	_, ok = s.Face(1)
	assert.False(t, ok)
}
