package attach

import (
	"math"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// solveFolding handles a polyhedron net around one vertex O. The four edges
// are, in order: a foldable edge, a fold line, the other fold line and the
// other foldable edge. Folding the flaps about their fold lines until the
// two foldable edges meet fixes the direction d of the first edge; the
// result has X along the first fold line and the first edge in its XY
// plane. The flap rises on the side of fold1 × fold2.
func solveFolding(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	var lines [4]kernel.Line
	for i, r := range refs[:4] {
		c := r.Payload.(EdgePayload).Curve
		l, ok := c.(kernel.Line)
		if !ok {
			return geom.Placement{}, &Error{Kind: KindUnsupportedCurveKind, Slot: i + 1,
				Message: c.Kind().String() + " edge cannot fold"}
		}
		lines[i] = l
	}

	o, ok := sharedEnd(lines[1], lines[2], sc.tol())
	if !ok {
		return geom.Placement{}, newError(KindInvalidFoldChain, "fold lines do not share a vertex")
	}
	var dirs [4]geom.Vec
	for i, l := range lines {
		d, ok := awayFrom(l, o, sc.tol())
		if !ok {
			return geom.Placement{}, &Error{Kind: KindInvalidFoldChain, Slot: i + 1, Message: "edge does not start at the fold vertex"}
		}
		dirs[i] = d
	}

	fold1, fold2 := dirs[1], dirs[2]
	cosA := dirs[0].Dot(fold1)
	cosB := dirs[3].Dot(fold2)
	cosG := fold1.Dot(fold2)
	sin2G := 1 - cosG*cosG
	if sin2G <= sc.tol() {
		return geom.Placement{}, newError(KindDegenerateConfiguration, "fold lines are parallel")
	}
	x := (cosA - cosB*cosG) / sin2G
	y := (cosB - cosA*cosG) / sin2G
	z2 := 1 - (x*cosA + y*cosB)
	if z2 < -1e-9 {
		return geom.Placement{}, newError(KindInvalidFoldChain, "foldable edges cannot meet")
	}
	n, _ := geom.Unit(fold1.Cross(fold2), 0)
	d := fold1.MulScalar(x).Add(fold2.MulScalar(y)).Add(n.MulScalar(math.Sqrt(math.Max(0, z2))))

	rot, err := geom.FrameFromAxes(geom.AxisX, fold1, geom.AxisY, d)
	if err != nil {
		return geom.Placement{}, degenerate(err)
	}
	return geom.At(o, rot), nil
}

// sharedEnd returns the end point common to two segments.
func sharedEnd(a, b kernel.Line, tol float64) (geom.Vec, bool) {
	for _, p := range []geom.Vec{a.Start(), a.End()} {
		for _, q := range []geom.Vec{b.Start(), b.End()} {
			if geom.Near(p, q, tol*math.Max(1, p.Length())) {
				return p, true
			}
		}
	}
	return geom.Vec{}, false
}

// awayFrom returns the unit direction of l pointing away from its end at o.
func awayFrom(l kernel.Line, o geom.Vec, tol float64) (geom.Vec, bool) {
	eps := tol * math.Max(1, o.Length())
	switch {
	case geom.Near(l.Start(), o, eps):
		return geom.Unit(l.End().Sub(o), tol)
	case geom.Near(l.End(), o, eps):
		return geom.Unit(l.Start().Sub(o), tol)
	}
	return geom.Vec{}, false
}
