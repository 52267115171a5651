package attach

import (
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// frenet is the Frenet-Serret frame of a curve at one parameter.
type frenet struct {
	P       geom.Vec // point on the curve
	T, N, B geom.Vec
	Center  geom.Vec // center of the osculating circle
}

// curveAt returns the edge of refs[0] and the parameter to evaluate it at:
// the projection of the optional vertex in refs[1], else the default.
func (sc *SolveContext) curveAt(refs []Reference) (kernel.Curve, float64, error) {
	e := refs[0].Payload.(EdgePayload)
	t := e.Param
	if v, ok := optionalPoint(refs, 1); ok {
		var err error
		if t, err = sc.Kernel.ProjectCurve(e.Curve, v); err != nil {
			return nil, 0, kernelFailure("project vertex onto edge", err)
		}
	}
	return e.Curve, t, nil
}

// tangentAt returns the point and unit tangent of c at t.
func (sc *SolveContext) tangentAt(c kernel.Curve, t float64) (geom.Vec, geom.Vec, error) {
	tan, ok := geom.Unit(c.D1(t), sc.tol())
	if !ok {
		return geom.Vec{}, geom.Vec{}, newError(KindDegenerateCurvature, "%s has no tangent at t=%g", c.Kind(), t)
	}
	return c.Value(t), tan, nil
}

// frenetAt computes the full Frenet frame; zero curvature has no normal.
func (sc *SolveContext) frenetAt(c kernel.Curve, t float64) (frenet, error) {
	p, tan, err := sc.tangentAt(c, t)
	if err != nil {
		return frenet{}, err
	}
	d1 := c.D1(t)
	cross := d1.Cross(c.D2(t))
	speed := d1.Length()
	curvature := cross.Length() / (speed * speed * speed)
	b, ok := geom.Unit(cross, 0)
	if !ok || curvature <= sc.tol() {
		return frenet{}, newError(KindDegenerateCurvature, "%s is straight at t=%g", c.Kind(), t)
	}
	n := b.Cross(tan)
	return frenet{P: p, T: tan, N: n, B: b, Center: p.Add(n.MulScalar(1 / curvature))}, nil
}

func (sc *SolveContext) frenetOf(refs []Reference) (frenet, error) {
	c, t, err := sc.curveAt(refs)
	if err != nil {
		return frenet{}, err
	}
	return sc.frenetAt(c, t)
}

func solveOnEdge(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	c := refs[0].Payload.(EdgePayload).Curve
	var t float64
	var err error
	if v, ok := optionalPoint(refs, 1); ok {
		t, err = sc.Kernel.ProjectCurve(c, v)
	} else {
		t, err = sc.Kernel.ParamAtFraction(c, sc.PathParam)
	}
	if err != nil {
		return geom.Placement{}, kernelFailure("locate point on edge", err)
	}
	return sc.pointAt(c.Value(t)), nil
}

func solveCenterOfCurvature(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	f, err := sc.frenetOf(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	return sc.pointAt(f.Center), nil
}

func solveAxisOfCurvature(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	f, err := sc.frenetOf(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	return lineAt(f.Center, f.B)
}

type frenetAxis int

const (
	frenetT frenetAxis = iota
	frenetN
	frenetB
)

// solveFrenetLine places a line along one Frenet vector. The tangent needs
// no curvature.
func solveFrenetLine(axis frenetAxis) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		if axis == frenetT {
			c, t, err := sc.curveAt(refs)
			if err != nil {
				return geom.Placement{}, err
			}
			p, tan, err := sc.tangentAt(c, t)
			if err != nil {
				return geom.Placement{}, err
			}
			return lineAt(p, tan)
		}
		f, err := sc.frenetOf(refs)
		if err != nil {
			return geom.Placement{}, err
		}
		if axis == frenetN {
			return lineAt(f.P, f.N)
		}
		return lineAt(f.P, f.B)
	}
}

// frenetOrder assembles the placement axes from T, N and B.
type frenetOrder func(f frenet) geom.Rotation

func frameNBT(f frenet) geom.Rotation { return geom.Rotation{X: f.N, Y: f.B, Z: f.T} }
func frameTNB(f frenet) geom.Rotation { return geom.Rotation{X: f.T, Y: f.N, Z: f.B} }
func frameTBN(f frenet) geom.Rotation { return geom.Rotation{X: f.T, Y: f.B, Z: f.N.Neg()} }

func solveFrenetFrame(order frenetOrder) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		f, err := sc.frenetOf(refs)
		if err != nil {
			return geom.Placement{}, err
		}
		return geom.At(f.P, order(f)), nil
	}
}

// solveConcentric puts the XY plane on the osculating circle, centered on
// the center of curvature.
func solveConcentric(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	f, err := sc.frenetOf(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	return geom.At(f.Center, geom.Rotation{X: f.N.Neg(), Y: f.T, Z: f.B}), nil
}

// solveRevolutionSection puts the plane across the edge with Y on the axis
// of the osculating circle, so revolving about Y sweeps along the edge.
func solveRevolutionSection(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	f, err := sc.frenetOf(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	return geom.At(f.Center, geom.Rotation{X: f.N.Neg(), Y: f.B, Z: f.T.Neg()}), nil
}

func solveNormalToEdge(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	c, t, err := sc.curveAt(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	p, tan, err := sc.tangentAt(c, t)
	if err != nil {
		return geom.Placement{}, err
	}
	return lineAt(p, tan)
}
