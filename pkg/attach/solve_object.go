package attach

import (
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// axisPerm maps an object's axes onto the attached placement's axes.
type axisPerm func(r geom.Rotation) geom.Rotation

func permXYZ(r geom.Rotation) geom.Rotation { return r }
func permXZY(r geom.Rotation) geom.Rotation { return geom.Rotation{X: r.X, Y: r.Z, Z: r.Y.Neg()} }
func permYZX(r geom.Rotation) geom.Rotation { return geom.Rotation{X: r.Y, Y: r.Z, Z: r.X} }
func permZXY(r geom.Rotation) geom.Rotation { return geom.Rotation{X: r.Z, Y: r.X, Z: r.Y} }

// placedFrame returns the frame carried by an object reference, or by a
// conic edge: center (apex for a parabola), major axis and normal.
func placedFrame(r Reference) (geom.Placement, error) {
	switch p := r.Payload.(type) {
	case ObjectPayload:
		return p.Placement, nil
	case EdgePayload:
		if c, ok := p.Curve.(kernel.Conic); ok {
			return c.Position(), nil
		}
		return geom.Placement{}, &Error{Kind: KindUnsupportedCurveKind, Slot: 1,
			Message: p.Curve.Kind().String() + " edge has no placement"}
	}
	return geom.Placement{}, &Error{Kind: KindWrongReferenceKind, Slot: 1, Expected: AcceptObject | AcceptEdge, Got: r.Kind}
}

func solveObjectOrigin(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	base, err := placedFrame(refs[0])
	if err != nil {
		return geom.Placement{}, err
	}
	return sc.pointAt(base.Origin), nil
}

func solveObjectAxes(perm axisPerm) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		base, err := placedFrame(refs[0])
		if err != nil {
			return geom.Placement{}, err
		}
		p := geom.At(base.Origin, perm(base.Rotation))
		if v, ok := optionalPoint(refs, 1); ok {
			p.Origin = v
		}
		return p, nil
	}
}

func solveTranslateOrigin(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	return sc.pointAt(vertexPoint(refs[0])), nil
}

// solveParallelPlane keeps the orientation of a planar face or an object's
// XY plane and slides it along its normal to pass through the vertex.
func solveParallelPlane(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	var base geom.Placement
	switch p := refs[0].Payload.(type) {
	case ObjectPayload:
		base = p.Placement
	case FacePayload:
		pl, err := planarFace(p, 1)
		if err != nil {
			return geom.Placement{}, err
		}
		base = pl.Pos
	}
	v := vertexPoint(refs[1])
	n := base.Rotation.Z
	base.Origin = base.Origin.Add(n.MulScalar(v.Sub(base.Origin).Dot(n)))
	return base, nil
}
