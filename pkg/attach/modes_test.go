package attach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/jig/pkg/geom"
)

type modeCase struct {
	name  string
	dim   Dimension
	mode  ModeID
	refs  []string
	setup func(o *AttachedObject)
	// For points only the origin is compared, for lines the origin and Z.
	want geom.Placement
}

func pt(o geom.Vec) geom.Placement { return geom.At(o, geom.Identity()) }

func ln(o, z geom.Vec) geom.Placement { return geom.At(o, geom.Rotation{Z: z}) }

func fr(o, x, y, z geom.Vec) geom.Placement {
	return geom.At(o, geom.Rotation{X: x, Y: y, Z: z})
}

var (
	ex, ey, ez = geom.XAxis, geom.YAxis, geom.ZAxis
	nx, ny, nz = ex.Neg(), ey.Neg(), ez.Neg()
	origin     = geom.Vec{}
	blockMid   = geom.Vec{X: 10.5, Y: 1, Z: 1.5}
	placedAt   = geom.Vec{X: 2, Y: 3, Z: 4}
	v5         = geom.Vec{X: 2, Y: 2, Z: 7}
)

func modeCases() []modeCase {
	foldY := vec(0, 0.5773502691896258, 0.816496580927726)
	foldZ := vec(0, -0.816496580927726, 0.5773502691896258)
	proxDir, _ := geom.Unit(vec(0, 2, 7), 0)
	halfway := func(o *AttachedObject) { _ = o.SetPathParameter(0.5) }

	return []modeCase{
		// point
		{dim: DimPoint, mode: ModeObjectOrigin, refs: []string{"placed"}, want: pt(placedAt)},
		{name: "conic", dim: DimPoint, mode: ModeObjectOrigin, refs: []string{"curves:Edge3"}, want: pt(origin)},
		{dim: DimPoint, mode: ModeFocus1, refs: []string{"curves:Edge3"}, want: pt(vec(4, 0, 0))},
		{dim: DimPoint, mode: ModeFocus2, refs: []string{"curves:Edge3"}, want: pt(vec(-4, 0, 0))},
		{name: "parabola", dim: DimPoint, mode: ModeFocus1, refs: []string{"curves:Edge4"}, want: pt(vec(1, 0, 0))},
		{name: "hyperbola", dim: DimPoint, mode: ModeFocus2, refs: []string{"curves:Edge5"}, want: pt(vec(-5, 0, 0))},
		{dim: DimPoint, mode: ModeOnEdge, refs: []string{"curves:Edge2"}, setup: halfway, want: pt(vec(2.5, 0, 0))},
		{name: "projected", dim: DimPoint, mode: ModeOnEdge, refs: []string{"curves:Edge2", "pts:Vertex5"}, want: pt(vec(2, 0, 0))},
		{dim: DimPoint, mode: ModeCenterOfCurvature, refs: []string{"curves:Edge1"}, want: pt(origin)},
		{dim: DimPoint, mode: ModeCenterOfMass, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: pt(vec(5.0/3, 5.0/3, 0))},
		{dim: DimPoint, mode: ModeVertex, refs: []string{"pts:Vertex5"}, want: pt(v5)},
		{dim: DimPoint, mode: ModeProximity1, refs: []string{"curves:Edge2", "pts:Vertex5"}, want: pt(vec(2, 0, 0))},
		{dim: DimPoint, mode: ModeProximity2, refs: []string{"curves:Edge2", "pts:Vertex5"}, want: pt(v5)},

		// line
		{dim: DimLine, mode: ModeObjectX, refs: []string{"placed"}, want: ln(placedAt, ex)},
		{dim: DimLine, mode: ModeObjectY, refs: []string{"placed"}, want: ln(placedAt, ey)},
		{dim: DimLine, mode: ModeObjectZ, refs: []string{"placed"}, want: ln(placedAt, ez)},
		{name: "vertex", dim: DimLine, mode: ModeObjectZ, refs: []string{"placed", "pts:Vertex5"}, want: ln(v5, ez)},
		{dim: DimLine, mode: ModeAxisOfCurvature, refs: []string{"curves:Edge1"}, want: ln(origin, ez)},
		{dim: DimLine, mode: ModeDirectrix1, refs: []string{"curves:Edge3"}, want: ln(vec(6.25, 0, 0), ey)},
		{dim: DimLine, mode: ModeDirectrix2, refs: []string{"curves:Edge3"}, want: ln(vec(-6.25, 0, 0), ey)},
		{name: "parabola", dim: DimLine, mode: ModeDirectrix1, refs: []string{"curves:Edge4"}, want: ln(vec(-1, 0, 0), ey)},
		{dim: DimLine, mode: ModeAsymptote1, refs: []string{"curves:Edge5"}, want: ln(origin, vec(0.6, 0.8, 0))},
		{dim: DimLine, mode: ModeAsymptote2, refs: []string{"curves:Edge5"}, want: ln(origin, vec(0.6, -0.8, 0))},
		{dim: DimLine, mode: ModeTangent, refs: []string{"curves:Edge2"}, want: ln(vec(2.5, 0, 0), ex)},
		{dim: DimLine, mode: ModeNormal, refs: []string{"curves:Edge1"}, want: ln(vec(-2, 0, 0), ex)},
		{dim: DimLine, mode: ModeBinormal, refs: []string{"curves:Edge1"}, want: ln(vec(-2, 0, 0), ez)},
		{dim: DimLine, mode: ModeTangentU, refs: []string{"faces:Face1"}, want: ln(vec(0, 0, 1), ex)},
		{dim: DimLine, mode: ModeTangentV, refs: []string{"faces:Face1"}, want: ln(vec(0, 0, 1), ey)},
		{dim: DimLine, mode: ModeTwoPointLine, refs: []string{"pts:Vertex1", "pts:Vertex2"}, want: ln(origin, ex)},
		{dim: DimLine, mode: ModeIntersection, refs: []string{"faces:Face1", "faces:Face2"}, want: ln(vec(0, 0, 1), ey)},
		{dim: DimLine, mode: ModeProximity, refs: []string{"curves:Edge2", "pts:Vertex5"}, want: ln(vec(2, 0, 0), proxDir)},
		{dim: DimLine, mode: ModeInertia1, refs: []string{"block"}, want: ln(blockMid, ez)},
		{dim: DimLine, mode: ModeInertia2, refs: []string{"block"}, want: ln(blockMid, ey)},
		{dim: DimLine, mode: ModeInertia3, refs: []string{"block"}, want: ln(blockMid, ex)},
		{dim: DimLine, mode: ModeNormalToSurface, refs: []string{"faces:Face3"}, want: ln(vec(-2, 0, 0), nx)},

		// plane
		{dim: DimPlane, mode: ModeTranslateOrigin, refs: []string{"pts:Vertex5"}, want: pt(v5)},
		{dim: DimPlane, mode: ModeObjectXY, refs: []string{"placed"}, want: pt(placedAt)},
		{dim: DimPlane, mode: ModeObjectXZ, refs: []string{"placed"}, want: fr(placedAt, ex, ez, ny)},
		{dim: DimPlane, mode: ModeObjectYZ, refs: []string{"placed"}, want: fr(placedAt, ey, ez, ex)},
		{dim: DimPlane, mode: ModeParallelPlane, refs: []string{"faces:Face1", "pts:Vertex5"}, want: pt(vec(0, 0, 7))},
		{dim: DimPlane, mode: ModeFlatFace, refs: []string{"faces:Face1"}, want: pt(vec(0, 0, 1))},
		{dim: DimPlane, mode: ModeTangentPlane, refs: []string{"faces:Face3"}, want: fr(vec(-2, 0, 0), ny, ez, nx)},
		{dim: DimPlane, mode: ModeNormalToEdge, refs: []string{"curves:Edge2"}, want: fr(vec(2.5, 0, 0), nz, ey, ex)},
		{dim: DimPlane, mode: ModeFrenetNB, refs: []string{"curves:Edge1"}, want: fr(vec(-2, 0, 0), ex, ez, ny)},
		{dim: DimPlane, mode: ModeFrenetTN, refs: []string{"curves:Edge1"}, want: fr(vec(-2, 0, 0), ny, ex, ez)},
		{dim: DimPlane, mode: ModeFrenetTB, refs: []string{"curves:Edge1"}, want: fr(vec(-2, 0, 0), ny, ez, nx)},
		{dim: DimPlane, mode: ModeConcentric, refs: []string{"curves:Edge1"}, want: fr(origin, nx, ny, ez)},
		{dim: DimPlane, mode: ModeRevolutionSection, refs: []string{"curves:Edge1"}, want: fr(origin, nx, ez, ey)},
		{dim: DimPlane, mode: ModeThreePointsPlane, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: pt(origin)},
		{dim: DimPlane, mode: ModeThreePointsNormal, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ex, nz, ey)},
		{dim: DimPlane, mode: ModeFolding, refs: []string{"fold:Edge1", "fold:Edge2", "fold:Edge3", "fold:Edge4"}, want: fr(origin, ex, foldY, foldZ)},
		{dim: DimPlane, mode: ModeInertia23, refs: []string{"block"}, want: fr(blockMid, ey, nx, ez)},
		{dim: DimPlane, mode: ModeAlignONX, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ey, ez, ex)},
		{dim: DimPlane, mode: ModeAlignONY, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, nz, ey, ex)},
		{dim: DimPlane, mode: ModeAlignOXY, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: pt(origin)},
		{name: "no third", dim: DimPlane, mode: ModeAlignOXY, refs: []string{"pts:Vertex1", "pts:Vertex2"}, want: pt(origin)},
		{dim: DimPlane, mode: ModeAlignOXN, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ex, nz, ey)},
		{dim: DimPlane, mode: ModeAlignOYN, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ez, ex, ey)},
		{dim: DimPlane, mode: ModeAlignOYX, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ey, ex, nz)},

		// frame
		{dim: DimFrame, mode: ModeTranslateOrigin, refs: []string{"pts:Vertex5"}, want: pt(v5)},
		{dim: DimFrame, mode: ModeObjectXYZ, refs: []string{"placed"}, want: pt(placedAt)},
		{dim: DimFrame, mode: ModeObjectXZY, refs: []string{"placed"}, want: fr(placedAt, ex, ez, ny)},
		{dim: DimFrame, mode: ModeObjectYZX, refs: []string{"placed"}, want: fr(placedAt, ey, ez, ex)},
		{dim: DimFrame, mode: ModeParallelPlane, refs: []string{"placed", "pts:Vertex5"}, want: pt(vec(2, 3, 7))},
		{dim: DimFrame, mode: ModeFlatFace, refs: []string{"faces:Face2"}, want: fr(origin, nz, ey, ex)},
		{dim: DimFrame, mode: ModeTangentPlane, refs: []string{"faces:Face1", "pts:Vertex5"}, want: pt(vec(2, 2, 1))},
		{dim: DimFrame, mode: ModeNormalToEdge, refs: []string{"curves:Edge2", "pts:Vertex4"}, want: fr(vec(1, 0, 0), nz, ey, ex)},
		{dim: DimFrame, mode: ModeFrenetNBT, refs: []string{"curves:Edge1"}, want: fr(vec(-2, 0, 0), ex, ez, ny)},
		{dim: DimFrame, mode: ModeFrenetTNB, refs: []string{"curves:Edge1"}, want: fr(vec(-2, 0, 0), ny, ex, ez)},
		{dim: DimFrame, mode: ModeFrenetTBN, refs: []string{"curves:Edge1"}, want: fr(vec(-2, 0, 0), ny, ez, nx)},
		{dim: DimFrame, mode: ModeConcentric, refs: []string{"curves:Edge1"}, want: fr(origin, nx, ny, ez)},
		{dim: DimFrame, mode: ModeRevolutionSection, refs: []string{"curves:Edge1"}, want: fr(origin, nx, ez, ey)},
		{dim: DimFrame, mode: ModeThreePointsPlane, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: pt(origin)},
		{dim: DimFrame, mode: ModeThreePointsNormal, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ex, nz, ey)},
		{dim: DimFrame, mode: ModeFolding, refs: []string{"fold:Edge1", "fold:Edge2", "fold:Edge3", "fold:Edge4"}, want: fr(origin, ex, foldY, foldZ)},
		{dim: DimFrame, mode: ModeInertialCS, refs: []string{"block"}, want: fr(blockMid, ez, ey, nx)},
		{dim: DimFrame, mode: ModeAlignOZX, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ey, ez, ex)},
		{dim: DimFrame, mode: ModeAlignOZY, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, nz, ey, ex)},
		{dim: DimFrame, mode: ModeAlignOXY, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: pt(origin)},
		{name: "edge", dim: DimFrame, mode: ModeAlignOXY, refs: []string{"pts:Vertex1", "curves:Edge2", "pts:Vertex3"}, want: pt(origin)},
		{dim: DimFrame, mode: ModeAlignOXZ, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ex, nz, ey)},
		{dim: DimFrame, mode: ModeAlignOYZ, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ez, ex, ey)},
		{dim: DimFrame, mode: ModeAlignOYX, refs: []string{"pts:Vertex1", "pts:Vertex2", "pts:Vertex3"}, want: fr(origin, ey, ex, nz)},
	}
}

func TestModes(t *testing.T) {
	store, k := newFixture(t)
	e := NewEngine(store, k)

	for _, tc := range modeCases() {
		name := tc.dim.String() + "/" + string(tc.mode)
		if tc.name != "" {
			name += "/" + tc.name
		}
		t.Run(name, func(t *testing.T) {
			o := attached(t, tc.dim, tc.mode, tc.refs...)
			if tc.setup != nil {
				tc.setup(o)
			}
			got, err := e.Recompute(o)
			require.NoError(t, err)
			assert.Equal(t, Attached, o.State())

			const tol = 1e-6
			assert.True(t, geom.Near(got.Origin, tc.want.Origin, tol), "origin %v, want %v", got.Origin, tc.want.Origin)
			switch tc.dim {
			case DimPoint:
				assert.True(t, got.Rotation.Equal(geom.Identity(), tol), "rotation %s", got.Rotation)
			case DimLine:
				assert.True(t, geom.Near(got.Rotation.Z, tc.want.Rotation.Z, tol), "direction %v, want %v", got.Rotation.Z, tc.want.Rotation.Z)
			default:
				assert.True(t, got.Rotation.Equal(tc.want.Rotation, tol), "rotation %s, want %s", got.Rotation, tc.want.Rotation)
			}
			assert.InDelta(t, 1, got.Rotation.Det(), tol)
		})
	}
}

// Every registered mode has a solver and a worked case above.
func TestModesCoverRegistry(t *testing.T) {
	covered := make(map[modeKey]bool)
	for _, tc := range modeCases() {
		covered[modeKey{tc.dim, tc.mode}] = true
	}
	total := 0
	for dim := DimPoint; dim <= DimFrame; dim++ {
		for _, m := range DefaultRegistry().Modes(dim) {
			total++
			if m.ID == ModeDeactivated {
				continue
			}
			key := modeKey{dim, m.ID}
			assert.Contains(t, solvers, key, "no solver for %s", m)
			assert.True(t, covered[key], "no test case for %s", m)
		}
	}
	assert.Equal(t, total-4, len(solvers))
}

// Principal axes reported as lines point along their largest component,
// including the third axis that the frame modes derive by cross product.
func TestInertiaLinesCanonicalSign(t *testing.T) {
	store, k := newFixture(t)
	e := NewEngine(store, k)

	for _, mode := range []ModeID{ModeInertia1, ModeInertia2, ModeInertia3} {
		t.Run(string(mode), func(t *testing.T) {
			p, err := e.Recompute(attached(t, DimLine, mode, "block"))
			require.NoError(t, err)
			z := p.Rotation.Z
			big := 0.0
			for i := range 3 {
				if c := geom.Component(z, i); c*c > big*big {
					big = c
				}
			}
			assert.Positive(t, big, "direction %v", z)
		})
	}

	assert.Equal(t, ex, canonicalSign(nx))
	assert.Equal(t, vec(-1, 2, 0), canonicalSign(vec(1, -2, 0)))
}

func TestPlaneAlignModes(t *testing.T) {
	r := DefaultRegistry()
	for id, caption := range map[ModeID]string{
		ModeAlignONX: "Align O-N-X",
		ModeAlignONY: "Align O-N-Y",
		ModeAlignOXY: "Align O-X-Y",
		ModeAlignOXN: "Align O-X-N",
		ModeAlignOYN: "Align O-Y-N",
		ModeAlignOYX: "Align O-Y-X",
	} {
		m, err := r.Lookup(DimPlane, id)
		require.NoError(t, err, id)
		assert.Equal(t, caption, m.Caption)
		assert.Equal(t, 2, m.MinRefs())
		assert.Equal(t, 3, m.MaxRefs())
	}
	_, err := r.Lookup(DimFrame, ModeAlignONX)
	assert.ErrorIs(t, err, ErrUnknownMode)
}
