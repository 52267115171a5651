package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/document"
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
	"github.com/chazu/jig/pkg/kernel/sdfx"
)

const tol = 1e-9

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(attach :plane :ObjectXY)`,
			expect: `(attach "__kw_plane" "__kw_ObjectXY")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"base:Vertex1 and :keyword"`,
			expect: `"base:Vertex1 and :keyword"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`plane-face :x`",
			expect: "`plane-face :x`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(plane-face o n 1 1)`,
			expect: `(plane_face o n 1 1)`,
		},
		{
			name:   "minus operator and negative numbers preserved",
			input:  `(- 10 5) (vec3 0 -5 x-1)`,
			expect: `(- 10 5) (vec3 0 -5 x-1)`,
		},
		{
			name:   "comment converted to // style",
			input:  ";; comment with :keyword\n(box 1 1 1)",
			expect: "// comment with :keyword\n(box 1 1 1)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:path-param`,
			expect: `"__kw_path-param"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Document building
// ---------------------------------------------------------------------------

const bracketSource = `
;; a corner with three reference points and an edge
(def base (defobject "base"
  :label "corner"
  :placement (placement (vec3 1 2 3))
  :vertices (list (vec3 0 0 0) (vec3 5 0 0) (vec3 0 5 0))
  :edges (list (segment (vec3 0 0 0) (vec3 5 0 0))
               (circle (vec3 0 0 0) (vec3 0 0 1) 2))
  :faces (list (plane-face (vec3 0 0 0) (vec3 0 0 1) 10 10))))

(defobject "rail"
  :attach (attach :line :TwoPointLine (list (ref base :Vertex1) (ref base "Vertex2"))))

(defobject "deck"
  :attach (attach :plane :ThreePointsPlane
                  (list "base:Vertex1" "base:Vertex2" "base:Vertex3")
                  :offset (offset (vec3 0 0 2))
                  :flip true))

(defobject "block"
  :solid (union (box 1 1 1) (sphere 0.5))
  :placement (vec3 10 0 0))

(defobject "pin"
  :attach (attach :point :ObjectOrigin (list (object "block"))))

(defobject "bead"
  :attach (attach :point :OnEdge (list "base:Edge1") :path-param 0.5))
`

func evaluate(t *testing.T, source string) *document.Document {
	t.Helper()
	d, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, d)
	return d
}

func TestDefobjectBuildsDocument(t *testing.T) {
	d := evaluate(t, bracketSource)

	require.Equal(t, 6, d.Len())
	base := d.Get("base")
	require.NotNil(t, base)
	assert.Equal(t, "corner", base.Label)
	assert.Nil(t, base.Attachment)
	assert.Equal(t, geom.Vec{X: 1, Y: 2, Z: 3}, base.Placement().Origin)
	require.NotNil(t, base.Shape)
	assert.Equal(t, 3, base.Shape.Count(kernel.ElementVertex))
	assert.Equal(t, 2, base.Shape.Count(kernel.ElementEdge))
	assert.Equal(t, 1, base.Shape.Count(kernel.ElementFace))

	rail := d.Get("rail").Attachment
	require.NotNil(t, rail)
	assert.Equal(t, attach.DimLine, rail.Dimension())
	assert.Equal(t, attach.ModeTwoPointLine, rail.Mode())
	assert.Equal(t, []attach.Selection{{Object: "base", Sub: "Vertex1"}, {Object: "base", Sub: "Vertex2"}}, rail.References())

	deck := d.Get("deck").Attachment
	assert.True(t, deck.Flip())
	assert.Equal(t, geom.Vec{Z: 2}, deck.Offset().Translation)

	assert.NotNil(t, d.Get("block").Shape.Solid)
	assert.Equal(t, []document.ObjectID{"block"}, d.Get("pin").Dependencies())
	assert.InDelta(t, 0.5, d.Get("bead").Attachment.PathParameter(), tol)
}

func TestEvaluatedDocumentRecomputes(t *testing.T) {
	d := evaluate(t, bracketSource)

	rep, err := d.Recompute(context.Background(), sdfx.New())
	require.NoError(t, err)
	require.Empty(t, rep.Failed())

	rail := d.Get("rail").Placement()
	assert.True(t, geom.Near(geom.Vec{X: 1, Y: 2, Z: 3}, rail.Origin, tol))
	assert.True(t, geom.Near(geom.XAxis, rail.Direction(), tol))

	// flipped, then lifted along the flipped normal
	deck := d.Get("deck").Placement()
	assert.True(t, geom.Near(geom.Vec{X: 1, Y: 2, Z: 1}, deck.Origin, tol), deck.String())
	assert.True(t, geom.Near(geom.Vec{X: -1}, deck.Rotation.X, tol))
	assert.True(t, geom.Near(geom.Vec{Z: -1}, deck.Rotation.Z, tol))

	assert.True(t, geom.Near(geom.Vec{X: 10}, d.Get("pin").Placement().Origin, tol))
	assert.True(t, geom.Near(geom.Vec{X: 3.5, Y: 2, Z: 3}, d.Get("bead").Placement().Origin, 1e-6))
}

func TestPlacementRotation(t *testing.T) {
	d := evaluate(t, `
(defobject "a" :placement (placement (vec3 0 0 5) :rotation (vec3 0 0 90)))
(defobject "b" :placement (placement :axis (vec3 0 0 1) :angle 90))
`)
	a, b := d.Get("a").Placement(), d.Get("b").Placement()
	assert.True(t, geom.Near(geom.Vec{Z: 5}, a.Origin, tol))
	assert.True(t, a.Rotation.Equal(b.Rotation, tol))
	assert.True(t, geom.Near(geom.YAxis, a.Rotation.X, tol))
}

func TestConicBuiltins(t *testing.T) {
	d := evaluate(t, `
(defobject "conics" :edges (list
  (ellipse (vec3 0 0 0) (vec3 0 0 1) (vec3 1 0 0) 5 3)
  (parabola :focal 1 :from -2 :to 2)
  (hyperbola :major 3 :minor 4 :at (placement (vec3 0 0 1)))
  (helix :radius 1 :pitch 2 :turns 2)))
(defobject "faces" :faces (list
  (cylinder-face :radius 1 :height 4)
  (sphere-face (vec3 0 0 0) 2)))
`)
	edges := d.Get("conics").Shape.Edges
	require.Len(t, edges, 4)
	assert.Equal(t, kernel.CurveEllipse, edges[0].Kind())
	assert.Equal(t, kernel.CurveParabola, edges[1].Kind())
	assert.Equal(t, kernel.CurveHyperbola, edges[2].Kind())
	assert.Equal(t, kernel.CurveHelix, edges[3].Kind())
	t0, t1 := edges[1].Domain()
	assert.Equal(t, []float64{-2, 2}, []float64{t0, t1})

	faces := d.Get("faces").Shape.Faces
	require.Len(t, faces, 2)
	assert.Equal(t, kernel.SurfaceCylinder, faces[0].Kind())
	assert.Equal(t, kernel.SurfaceSphere, faces[1].Kind())
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"vec3 arity", `(vec3 1 2)`, "exactly 3 arguments"},
		{"vec3 type", `(vec3 1 2 "z")`, "expected number"},
		{"bad dimension", `(attach :volume :ObjectXY)`, "unknown dimension"},
		{"too many refs", `(attach :plane :ObjectXY (list "a" "b" "c" "d" "e"))`, "attach"},
		{"path param range", `(attach :point :OnEdge (list "a:Edge1") :path-param 2)`, "attach"},
		{"duplicate object", `(defobject "a") (defobject "a")`, "duplicate object"},
		{"unknown object", `(object "ghost")`, "no object named"},
		{"missing keyword", `(helix :pitch 2)`, ":radius is required"},
		{"bad sub-element", `(ref "a" "Corner7")`, "Corner7"},
		{"edge type", `(defobject "a" :edges (list (vec3 0 0 0)))`, "expected curve"},
		{"degenerate segment", `(segment (vec3 1 1 1) (vec3 1 1 1))`, "segment"},
		{"rotation twice", `(placement :rotation (vec3 0 0 1) :axis (vec3 0 0 1))`, "not both"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, evalErrs, err := NewEngine().Evaluate(tt.source)
			require.NoError(t, err)
			assert.Nil(t, d)
			require.NotEmpty(t, evalErrs)
			assert.Contains(t, evalErrs[0].Message, tt.want)
		})
	}
}

func TestCheckReportsValidation(t *testing.T) {
	res, err := NewEngine().Check(`
(defobject "base" :vertices (list (vec3 0 0 0) (vec3 1 0 0)) :edges (list (segment (vec3 0 0 0) (vec3 1 0 0))))
(defobject "wrong" :attach (attach :line :TwoPointLine (list "base:Edge1" "base:Vertex1")))
(defobject "parked" :attach (attach :point :Deactivated (list "base:Vertex1")))
(defobject "dangling" :attach (attach :point :Vertex (list "ghost:Vertex1")))
`)
	require.NoError(t, err)
	require.NotNil(t, res.Document)
	assert.False(t, res.OK())

	byObject := map[document.ObjectID]string{}
	for _, e := range res.Errors {
		byObject[e.ObjectID] = e.Message
	}
	assert.Contains(t, byObject["wrong"], "does not accept")
	assert.Contains(t, byObject["dangling"], "does not exist")

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, document.ObjectID("parked"), res.Warnings[0].ObjectID)
}

func TestCheckEvalErrors(t *testing.T) {
	res, err := NewEngine().Check(`(box 1 2)`)
	require.NoError(t, err)
	assert.Nil(t, res.Document)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "usage")
}
