package attach

import (
	"errors"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

func solveTwoPointLine(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	p1, p2 := vertexPoint(refs[0]), vertexPoint(refs[1])
	if geom.Near(p1, p2, sc.tol()) {
		return geom.Placement{}, newError(KindDegenerateConfiguration, "points coincide")
	}
	return lineAt(p1, p2.Sub(p1))
}

// threePoints returns the three vertices, rejecting coincident or collinear
// input.
func (sc *SolveContext) threePoints(refs []Reference) (p1, p2, p3 geom.Vec, err error) {
	p1, p2, p3 = vertexPoint(refs[0]), vertexPoint(refs[1]), vertexPoint(refs[2])
	a, b := p2.Sub(p1), p3.Sub(p1)
	scale := max(a.Length(), b.Length())
	if scale <= sc.tol() || a.Cross(b).Length() <= sc.tol()*scale {
		return p1, p2, p3, newError(KindDegenerateConfiguration, "points are coincident or collinear")
	}
	return p1, p2, p3, nil
}

// solveThreePointsPlane: origin on the first point, X toward the second,
// normal by the right-hand rule through the third.
func solveThreePointsPlane(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	p1, p2, p3, err := sc.threePoints(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	x := p2.Sub(p1)
	rot, err := geom.FrameZX(x.Cross(p3.Sub(p1)), x)
	if err != nil {
		return geom.Placement{}, degenerate(err)
	}
	return geom.At(p1, rot), nil
}

// solveThreePointsNormal puts the three points in the XZ plane: X toward the
// second point, Z toward the side of the third.
func solveThreePointsNormal(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	p1, p2, p3, err := sc.threePoints(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	rot, err := geom.FrameFromAxes(geom.AxisX, p2.Sub(p1), geom.AxisZ, p3.Sub(p1))
	if err != nil {
		return geom.Placement{}, degenerate(err)
	}
	return geom.At(p1, rot), nil
}

func (sc *SolveContext) closest(refs []Reference) (geom.Vec, geom.Vec, error) {
	pa, pb, err := sc.Kernel.Extrema(refs[0].Element(), refs[1].Element())
	if err != nil {
		if errors.Is(err, kernel.ErrUnsupported) {
			return geom.Vec{}, geom.Vec{}, &Error{Kind: KindDegenerateConfiguration, Message: "no distance between these references", Err: err}
		}
		return geom.Vec{}, geom.Vec{}, kernelFailure("minimal distance", err)
	}
	return pa, pb, nil
}

func solveProximityPoint(which int) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		pa, pb, err := sc.closest(refs)
		if err != nil {
			return geom.Placement{}, err
		}
		if which == 2 {
			return sc.pointAt(pb), nil
		}
		return sc.pointAt(pa), nil
	}
}

func solveProximityLine(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	pa, pb, err := sc.closest(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	if geom.Near(pa, pb, sc.tol()) {
		return geom.Placement{}, newError(KindCoincidentReferences, "references touch at %v", pa)
	}
	return lineAt(pa, pb.Sub(pa))
}

// aim returns the direction named by a reference: toward a vertex from
// origin, or along a line edge.
func aim(r Reference, origin geom.Vec, slot int) (geom.Vec, error) {
	switch p := r.Payload.(type) {
	case VertexPayload:
		return p.Point.Sub(origin), nil
	case EdgePayload:
		if l, ok := p.Curve.(kernel.Line); ok {
			return l.Dir, nil
		}
		return geom.Vec{}, &Error{Kind: KindUnsupportedCurveKind, Slot: slot,
			Message: p.Curve.Kind().String() + " edge has no direction"}
	}
	return geom.Vec{}, &Error{Kind: KindWrongReferenceKind, Slot: slot, Expected: AcceptVertex | AcceptEdge, Got: r.Kind}
}

// solveAlign builds a frame at the first reference with its primary axis
// along the second and its secondary axis toward the third. Without a third
// reference the secondary axis leans toward the world axis least aligned
// with the primary.
func solveAlign(primary, secondary geom.Axis) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		o := vertexPoint(refs[0])
		d1, err := aim(refs[1], o, 2)
		if err != nil {
			return geom.Placement{}, err
		}
		var d2 geom.Vec
		if len(refs) > 2 {
			if d2, err = aim(refs[2], o, 3); err != nil {
				return geom.Placement{}, err
			}
		} else {
			d2 = geom.LeastAligned(d1)
		}
		rot, err := geom.FrameFromAxes(primary, d1, secondary, d2)
		if err != nil {
			return geom.Placement{}, degenerate(err)
		}
		return geom.At(o, rot), nil
	}
}
