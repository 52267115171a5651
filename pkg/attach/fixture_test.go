package attach

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
	"github.com/chazu/jig/pkg/kernel/sdfx"
)

// mapStore is an in-memory Store.
type mapStore map[string]storedObject

type storedObject struct {
	placement geom.Placement
	shape     *kernel.Shape
}

func (s mapStore) Placement(id string) (geom.Placement, bool) {
	o, ok := s[id]
	return o.placement, ok
}

func (s mapStore) Shape(id string) (*kernel.Shape, bool) {
	o, ok := s[id]
	return o.shape, ok
}

func sel(s string) Selection {
	out, err := ParseSelection(s)
	if err != nil {
		panic(err)
	}
	return out
}

func sels(ss ...string) []Selection {
	out := make([]Selection, len(ss))
	for i, s := range ss {
		out[i] = sel(s)
	}
	return out
}

func vec(x, y, z float64) geom.Vec { return geom.Vec{X: x, Y: y, Z: z} }

// newFixture builds the reference document used across the tests:
//
//	pts     vertices (0 0 0) (5 0 0) (0 5 0) (1 0 0) (2 2 7)
//	curves  Edge1 circle r=2 about Z, Edge2 segment (0 0 0)-(5 0 0),
//	        Edge3 ellipse 5x3, Edge4 parabola f=1, Edge5 hyperbola 3/4,
//	        Edge6 helix r=1 pitch 2
//	faces   Face1 plane z=1, Face2 plane x=0, Face3 sphere r=2,
//	        Face4 cylinder r=1
//	placed  empty object at (2 3 4)
//	block   1x2x3 box with its min corner at (10 0 0)
//	fold    four segments around the origin for the 60/60/90 fold, and
//	        Edge5 away from it
func newFixture(t *testing.T) (mapStore, *sdfx.SdfxKernel) {
	t.Helper()
	k := sdfx.New(sdfx.WithMassGrid(24))
	id := geom.IdentityPlacement()

	circle, err := kernel.NewCircle(geom.Vec{}, geom.ZAxis, 2)
	require.NoError(t, err)
	seg, err := kernel.NewSegment(geom.Vec{}, vec(5, 0, 0))
	require.NoError(t, err)
	ellipse, err := kernel.NewEllipse(geom.Vec{}, geom.ZAxis, geom.XAxis, 5, 3)
	require.NoError(t, err)
	parabola := kernel.Parabola{Pos: id, Focal: 1, T0: -2, T1: 2}
	hyperbola := kernel.Hyperbola{Pos: id, Major: 3, Minor: 4, T0: -1, T1: 1}
	helix := kernel.Helix{Pos: id, Radius: 1, Pitch: 2, T1: 4 * math.Pi}

	top, err := kernel.NewPlane(vec(0, 0, 1), geom.ZAxis, 10, 10)
	require.NoError(t, err)
	side, err := kernel.NewPlane(geom.Vec{}, geom.XAxis, 10, 10)
	require.NoError(t, err)
	cyl := kernel.Cylinder{Pos: id, Radius: 1, U1: 2 * math.Pi, V1: 4}

	box, err := k.Box(1, 2, 3)
	require.NoError(t, err)

	fold := &kernel.Shape{}
	s60, c60 := math.Sin(math.Pi/3), math.Cos(math.Pi/3)
	for _, end := range []geom.Vec{vec(2*c60, -2*s60, 0), vec(2, 0, 0), vec(0, 2, 0), vec(-2*s60, 2*c60, 0)} {
		_, err := fold.AddSegment(geom.Vec{}, end)
		require.NoError(t, err)
	}
	_, err = fold.AddSegment(vec(3, 3, 0), vec(4, 4, 0))
	require.NoError(t, err)

	return mapStore{
		"pts": {placement: id, shape: &kernel.Shape{
			Vertices: []geom.Vec{{}, vec(5, 0, 0), vec(0, 5, 0), vec(1, 0, 0), vec(2, 2, 7)},
		}},
		"curves": {placement: id, shape: &kernel.Shape{
			Edges: []kernel.Curve{circle, seg, ellipse, parabola, hyperbola, helix},
		}},
		"faces": {placement: id, shape: &kernel.Shape{
			Faces: []kernel.Surface{top, side, kernel.NewSphere(geom.Vec{}, 2), cyl},
		}},
		"placed": {placement: geom.At(vec(2, 3, 4), geom.Identity())},
		"block":  {placement: geom.At(vec(10, 0, 0), geom.Identity()), shape: &kernel.Shape{Solid: box}},
		"fold":   {placement: id, shape: fold},
	}, k
}

// attached returns an active attachment with the given mode and references.
func attached(t *testing.T, dim Dimension, mode ModeID, refs ...string) *AttachedObject {
	t.Helper()
	o := NewAttachedObject(dim)
	o.SetMode(mode)
	require.NoError(t, o.SetReferences(sels(refs...)...))
	return o
}
