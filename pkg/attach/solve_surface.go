package attach

import (
	"fmt"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// planarFace requires the face in the given slot to be planar.
func planarFace(f FacePayload, slot int) (kernel.Plane, error) {
	pl, ok := f.Surface.(kernel.Plane)
	if !ok {
		return kernel.Plane{}, &Error{Kind: KindUnsupportedSurfaceKind, Slot: slot,
			Message: fmt.Sprintf("%s face is not planar", f.Surface.Kind())}
	}
	return pl, nil
}

// surfaceAt returns the face of refs[0] and the parameters to evaluate it
// at: the projection of the optional vertex in refs[1], else the defaults.
func (sc *SolveContext) surfaceAt(refs []Reference) (kernel.Surface, float64, float64, error) {
	f := refs[0].Payload.(FacePayload)
	u, v := f.U, f.V
	if p, ok := optionalPoint(refs, 1); ok {
		var err error
		if u, v, err = sc.Kernel.ProjectSurface(f.Surface, p); err != nil {
			return nil, 0, 0, kernelFailure("project vertex onto face", err)
		}
	}
	return f.Surface, u, v, nil
}

type surfaceDir int

const (
	surfaceU surfaceDir = iota
	surfaceV
	surfaceN
)

func solveSurfaceLine(which surfaceDir) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		s, u, v, err := sc.surfaceAt(refs)
		if err != nil {
			return geom.Placement{}, err
		}
		var dir geom.Vec
		switch which {
		case surfaceU:
			dir = s.DU(u, v)
		case surfaceV:
			dir = s.DV(u, v)
		default:
			dir = s.Normal(u, v)
		}
		if _, ok := geom.Unit(dir, sc.tol()); !ok {
			return geom.Placement{}, newError(KindDegenerateConfiguration,
				"%s face has a singular point at (%g, %g)", s.Kind(), u, v)
		}
		return lineAt(s.Value(u, v), dir)
	}
}

// solveTangentPlane puts the XY plane tangent to the face with X along the
// U direction. Where U is singular X falls back to the minimal rotation.
func solveTangentPlane(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	s, u, v, err := sc.surfaceAt(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	n := s.Normal(u, v)
	rot, err := geom.FrameZX(n, s.DU(u, v))
	if err != nil {
		if rot, err = geom.FrameZ(n); err != nil {
			return geom.Placement{}, degenerate(err)
		}
	}
	return geom.At(s.Value(u, v), rot), nil
}

func solveFlatFace(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	pl, err := planarFace(refs[0].Payload.(FacePayload), 1)
	if err != nil {
		return geom.Placement{}, err
	}
	return pl.Pos, nil
}

// solveIntersection places a line on the intersection of two planar faces,
// at the point nearest the first face's origin.
func solveIntersection(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	a, err := planarFace(refs[0].Payload.(FacePayload), 1)
	if err != nil {
		return geom.Placement{}, err
	}
	b, err := planarFace(refs[1].Payload.(FacePayload), 2)
	if err != nil {
		return geom.Placement{}, err
	}
	n1, n2 := a.Pos.Rotation.Z, b.Pos.Rotation.Z
	d := n1.Cross(n2)
	dd := d.Dot(d)
	if dd <= sc.tol()*sc.tol() {
		return geom.Placement{}, newError(KindDegenerateConfiguration, "faces are parallel")
	}
	h1, h2 := n1.Dot(a.Pos.Origin), n2.Dot(b.Pos.Origin)
	// Point on both planes closest to the world origin.
	p := n2.Cross(d).MulScalar(h1).Add(d.Cross(n1).MulScalar(h2)).MulScalar(1 / dd)
	u, _ := geom.Unit(d, 0)
	p = p.Add(u.MulScalar(a.Pos.Origin.Sub(p).Dot(u)))
	return lineAt(p, u)
}
