package attach

import (
	"errors"
	"math"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// SolveContext is the borrowed state a solver may read. Solvers never
// reach for anything beyond it and their references.
type SolveContext struct {
	Kernel kernel.Kernel
	// Manual is the placement last set by direct edit. Origin-only modes
	// take their rotation from it.
	Manual geom.Placement
	// PathParam is the fraction of arc length used by OnEdge.
	PathParam float64
	// Tolerance is the confusion distance for degeneracy checks.
	Tolerance float64
}

func (sc *SolveContext) tol() float64 {
	if sc.Tolerance > 0 {
		return sc.Tolerance
	}
	return geom.Tolerance
}

type solveFunc func(sc *SolveContext, refs []Reference) (geom.Placement, error)

// solvers is the dispatch table. Modes sharing an algorithm across
// dimensions share an entry function.
var solvers = map[modeKey]solveFunc{
	{DimPoint, ModeObjectOrigin}:      solveObjectOrigin,
	{DimPoint, ModeFocus1}:            solveFocus(1),
	{DimPoint, ModeFocus2}:            solveFocus(2),
	{DimPoint, ModeOnEdge}:            solveOnEdge,
	{DimPoint, ModeCenterOfCurvature}: solveCenterOfCurvature,
	{DimPoint, ModeCenterOfMass}:      solveCenterOfMass,
	{DimPoint, ModeVertex}:            solveTranslateOrigin,
	{DimPoint, ModeProximity1}:        solveProximityPoint(1),
	{DimPoint, ModeProximity2}:        solveProximityPoint(2),

	{DimLine, ModeObjectX}:         solveObjectAxes(permYZX),
	{DimLine, ModeObjectY}:         solveObjectAxes(permZXY),
	{DimLine, ModeObjectZ}:         solveObjectAxes(permXYZ),
	{DimLine, ModeAxisOfCurvature}: solveAxisOfCurvature,
	{DimLine, ModeDirectrix1}:      solveDirectrix(1),
	{DimLine, ModeDirectrix2}:      solveDirectrix(2),
	{DimLine, ModeAsymptote1}:      solveAsymptote(1),
	{DimLine, ModeAsymptote2}:      solveAsymptote(2),
	{DimLine, ModeTangent}:         solveFrenetLine(frenetT),
	{DimLine, ModeNormal}:          solveFrenetLine(frenetN),
	{DimLine, ModeBinormal}:        solveFrenetLine(frenetB),
	{DimLine, ModeTangentU}:        solveSurfaceLine(surfaceU),
	{DimLine, ModeTangentV}:        solveSurfaceLine(surfaceV),
	{DimLine, ModeTwoPointLine}:    solveTwoPointLine,
	{DimLine, ModeIntersection}:    solveIntersection,
	{DimLine, ModeProximity}:       solveProximityLine,
	{DimLine, ModeInertia1}:        solveInertiaAxis(0),
	{DimLine, ModeInertia2}:        solveInertiaAxis(1),
	{DimLine, ModeInertia3}:        solveInertiaAxis(2),
	{DimLine, ModeNormalToSurface}: solveSurfaceLine(surfaceN),

	{DimPlane, ModeTranslateOrigin}:   solveTranslateOrigin,
	{DimPlane, ModeObjectXY}:          solveObjectAxes(permXYZ),
	{DimPlane, ModeObjectXZ}:          solveObjectAxes(permXZY),
	{DimPlane, ModeObjectYZ}:          solveObjectAxes(permYZX),
	{DimPlane, ModeParallelPlane}:     solveParallelPlane,
	{DimPlane, ModeFlatFace}:          solveFlatFace,
	{DimPlane, ModeTangentPlane}:      solveTangentPlane,
	{DimPlane, ModeNormalToEdge}:      solveNormalToEdge,
	{DimPlane, ModeFrenetNB}:          solveFrenetFrame(frameNBT),
	{DimPlane, ModeFrenetTN}:          solveFrenetFrame(frameTNB),
	{DimPlane, ModeFrenetTB}:          solveFrenetFrame(frameTBN),
	{DimPlane, ModeConcentric}:        solveConcentric,
	{DimPlane, ModeRevolutionSection}: solveRevolutionSection,
	{DimPlane, ModeThreePointsPlane}:  solveThreePointsPlane,
	{DimPlane, ModeThreePointsNormal}: solveThreePointsNormal,
	{DimPlane, ModeFolding}:           solveFolding,
	{DimPlane, ModeInertia23}:         solveInertia23,
	{DimPlane, ModeAlignONX}:          solveAlign(geom.AxisZ, geom.AxisX),
	{DimPlane, ModeAlignONY}:          solveAlign(geom.AxisZ, geom.AxisY),
	{DimPlane, ModeAlignOXY}:          solveAlign(geom.AxisX, geom.AxisY),
	{DimPlane, ModeAlignOXN}:          solveAlign(geom.AxisX, geom.AxisZ),
	{DimPlane, ModeAlignOYN}:          solveAlign(geom.AxisY, geom.AxisZ),
	{DimPlane, ModeAlignOYX}:          solveAlign(geom.AxisY, geom.AxisX),

	{DimFrame, ModeTranslateOrigin}:   solveTranslateOrigin,
	{DimFrame, ModeObjectXYZ}:         solveObjectAxes(permXYZ),
	{DimFrame, ModeObjectXZY}:         solveObjectAxes(permXZY),
	{DimFrame, ModeObjectYZX}:         solveObjectAxes(permYZX),
	{DimFrame, ModeParallelPlane}:     solveParallelPlane,
	{DimFrame, ModeFlatFace}:          solveFlatFace,
	{DimFrame, ModeTangentPlane}:      solveTangentPlane,
	{DimFrame, ModeNormalToEdge}:      solveNormalToEdge,
	{DimFrame, ModeFrenetNBT}:         solveFrenetFrame(frameNBT),
	{DimFrame, ModeFrenetTNB}:         solveFrenetFrame(frameTNB),
	{DimFrame, ModeFrenetTBN}:         solveFrenetFrame(frameTBN),
	{DimFrame, ModeConcentric}:        solveConcentric,
	{DimFrame, ModeRevolutionSection}: solveRevolutionSection,
	{DimFrame, ModeThreePointsPlane}:  solveThreePointsPlane,
	{DimFrame, ModeThreePointsNormal}: solveThreePointsNormal,
	{DimFrame, ModeFolding}:           solveFolding,
	{DimFrame, ModeInertialCS}:        solveInertialCS,
	{DimFrame, ModeAlignOZX}:          solveAlign(geom.AxisZ, geom.AxisX),
	{DimFrame, ModeAlignOZY}:          solveAlign(geom.AxisZ, geom.AxisY),
	{DimFrame, ModeAlignOXY}:          solveAlign(geom.AxisX, geom.AxisY),
	{DimFrame, ModeAlignOXZ}:          solveAlign(geom.AxisX, geom.AxisZ),
	{DimFrame, ModeAlignOYZ}:          solveAlign(geom.AxisY, geom.AxisZ),
	{DimFrame, ModeAlignOYX}:          solveAlign(geom.AxisY, geom.AxisX),
}

// Solve computes the base placement of mode from validated references.
// It does not apply offset or flip.
func Solve(sc SolveContext, mode *Mode, refs []Reference) (geom.Placement, error) {
	fn, ok := solvers[modeKey{mode.Dim, mode.ID}]
	if !ok {
		return geom.Placement{}, &Error{Kind: KindUnknownMode, Mode: mode.ID, Message: "no solver for " + mode.String()}
	}
	p, err := fn(&sc, refs)
	if err != nil {
		var ae *Error
		if !errors.As(err, &ae) {
			ae = kernelFailure(mode.String(), err)
			err = ae
		}
		if ae.Mode == "" {
			ae.Mode = mode.ID
		}
		return geom.Placement{}, err
	}
	if !geom.IsFinite(p.Origin) || !geom.IsFinite(p.Rotation.X) || !geom.IsFinite(p.Rotation.Y) || !geom.IsFinite(p.Rotation.Z) {
		return geom.Placement{}, &Error{Kind: KindKernelComputationFailure, Mode: mode.ID, Message: "non-finite placement"}
	}
	return p, nil
}

// ----------------------------------------------------------------------------
// shared helpers
// ----------------------------------------------------------------------------

// pointAt places a point: origin o, rotation from the manual placement.
func (sc *SolveContext) pointAt(o geom.Vec) geom.Placement {
	rot := sc.Manual.Rotation
	if rot == (geom.Rotation{}) {
		rot = geom.Identity()
	}
	return geom.At(o, rot)
}

// lineAt places a line through o along dir.
func lineAt(o, dir geom.Vec) (geom.Placement, error) {
	rot, err := geom.FrameZ(dir)
	if err != nil {
		return geom.Placement{}, degenerate(err)
	}
	return geom.At(o, rot), nil
}

// degenerate converts a frame construction failure.
func degenerate(err error) *Error {
	return &Error{Kind: KindDegenerateConfiguration, Err: err}
}

func vertexPoint(r Reference) geom.Vec {
	p, _ := r.Point()
	return p
}

// optionalPoint returns the point of refs[i] if present.
func optionalPoint(refs []Reference, i int) (geom.Vec, bool) {
	if i >= len(refs) {
		return geom.Vec{}, false
	}
	return refs[i].Point()
}

// distinct reports whether a and b are separated by more than tol relative
// to scale.
func distinct(a, b, scale, tol float64) bool {
	return math.Abs(a-b) > tol*math.Max(1, scale)
}
