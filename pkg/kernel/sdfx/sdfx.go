// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx SDF-based CAD library. Curves and surfaces use the
// analytic routines of package kernel; solids are integrated on a voxel grid
// and projected along the SDF gradient.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*SdfxKernel)(nil)
	_ kernel.Locus  = solidLocus{}
)

const (
	defaultMassGrid = 48
	maxSurfaceSteps = 64
)

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	samples  int
	massGrid int
	tol      float64
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithSamples sets the sample count for curve and surface integration and
// searches.
func WithSamples(n int) Option {
	return func(k *SdfxKernel) {
		if n >= 2 {
			k.samples = n
		}
	}
}

// WithMassGrid sets the voxel count per axis used to integrate solids.
func WithMassGrid(n int) Option {
	return func(k *SdfxKernel) {
		if n >= 2 {
			k.massGrid = n
		}
	}
}

// WithTolerance sets the convergence distance of iterative queries.
func WithTolerance(tol float64) Option {
	return func(k *SdfxKernel) {
		if tol > 0 {
			k.tol = tol
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{
		samples:  kernel.DefaultSamples,
		massGrid: defaultMassGrid,
		tol:      geom.Tolerance,
	}
	for _, o := range opts {
		o(k)
	}
	return k
}

// ----------------------------------------------------------------------------
// Solid builders
// ----------------------------------------------------------------------------

// Box creates a box with the given dimensions and its minimum corner at the
// local origin, so a placement at (10, 0, 0) puts the corner at x=10.
func (k *SdfxKernel) Box(x, y, z float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	// sdf.Box3D is centered; shift to the min corner.
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return sdf.Transform3D(s, m), nil
}

// Cylinder creates a cylinder along Z with its base on the local XY plane.
func (k *SdfxKernel) Cylinder(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2})), nil
}

// Sphere creates a sphere centered on the local origin.
func (k *SdfxKernel) Sphere(radius float64) (sdf.SDF3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return s, nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b sdf.SDF3) sdf.SDF3 {
	return sdf.Union3D(a, b)
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b sdf.SDF3) sdf.SDF3 {
	return sdf.Difference3D(a, b)
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// ProjectCurve returns the parameter of the point on c closest to p.
func (k *SdfxKernel) ProjectCurve(c kernel.Curve, p geom.Vec) (float64, error) {
	if !geom.IsFinite(p) {
		return 0, fmt.Errorf("project onto %s: non-finite point", c.Kind())
	}
	t := kernel.ProjectCurve(c, p, k.samples)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("project onto %s: no solution", c.Kind())
	}
	return t, nil
}

// ProjectSurface returns the parameters of the point on s closest to p.
func (k *SdfxKernel) ProjectSurface(s kernel.Surface, p geom.Vec) (float64, float64, error) {
	if !geom.IsFinite(p) {
		return 0, 0, fmt.Errorf("project onto %s: non-finite point", s.Kind())
	}
	u, v := s.Project(p)
	return u, v, nil
}

// ParamAtFraction returns the parameter at fraction f of the arc length of c.
func (k *SdfxKernel) ParamAtFraction(c kernel.Curve, f float64) (float64, error) {
	return kernel.ParamAtFraction(c, f, k.samples)
}

// MassProperties sums the properties of all elements. Points are unit
// masses; curves, surfaces and solids have unit density in their own
// dimension.
func (k *SdfxKernel) MassProperties(elems ...kernel.Element) (kernel.MassProps, error) {
	var total kernel.MassProps
	for i, e := range elems {
		var mp kernel.MassProps
		switch g := e.(type) {
		case kernel.Point:
			mp = kernel.PointMass(g.P, 1)
		case kernel.Curve:
			mp = kernel.CurveMass(g, k.samples)
		case kernel.Surface:
			mp = kernel.SurfaceMass(g, k.samples)
		case kernel.Solid:
			var err error
			if mp, err = k.solidMass(g); err != nil {
				return kernel.MassProps{}, fmt.Errorf("element %d: %w", i+1, err)
			}
		default:
			return kernel.MassProps{}, fmt.Errorf("element %d: %w: %T", i+1, kernel.ErrUnsupported, e)
		}
		total = total.Add(mp)
	}
	return total, nil
}

// Extrema returns the mutually closest points of a and b.
func (k *SdfxKernel) Extrema(a, b kernel.Element) (geom.Vec, geom.Vec, error) {
	return kernel.Extrema(k.locus(a), k.locus(b), k.samples, k.tol)
}

func (k *SdfxKernel) locus(e kernel.Element) kernel.Element {
	if s, ok := e.(kernel.Solid); ok {
		return solidLocus{solid: s, tol: k.tol}
	}
	return e
}

// solidMass integrates unit density over the voxels whose centers lie
// inside the solid.
func (k *SdfxKernel) solidMass(s kernel.Solid) (kernel.MassProps, error) {
	if s.SDF == nil {
		return kernel.MassProps{}, fmt.Errorf("solid has no geometry")
	}
	bb := s.SDF.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return kernel.MassProps{}, fmt.Errorf("solid has an empty bounding box")
	}
	n := k.massGrid
	step := v3.Vec{X: size.X / float64(n), Y: size.Y / float64(n), Z: size.Z / float64(n)}
	cell := step.X * step.Y * step.Z

	var mp kernel.MassProps
	for i := range n {
		for j := range n {
			for l := range n {
				p := v3.Vec{
					X: bb.Min.X + (float64(i)+0.5)*step.X,
					Y: bb.Min.Y + (float64(j)+0.5)*step.Y,
					Z: bb.Min.Z + (float64(l)+0.5)*step.Z,
				}
				if s.SDF.Evaluate(p) <= 0 {
					mp = mp.Add(kernel.PointMass(s.Placement.Apply(p), cell))
				}
			}
		}
	}
	if mp.Mass == 0 {
		return kernel.MassProps{}, fmt.Errorf("solid has no interior at grid %d", n)
	}
	return mp, nil
}

// ----------------------------------------------------------------------------
// solidLocus
// ----------------------------------------------------------------------------

// solidLocus finds closest points on a placed SDF solid. Points inside the
// solid are their own closest point.
type solidLocus struct {
	solid kernel.Solid
	tol   float64
}

func (solidLocus) Dimension() int { return 3 }

func (s solidLocus) Closest(p geom.Vec) (geom.Vec, error) {
	pl := s.solid.Placement
	q := pl.Inverse().Apply(p)
	f := s.solid.SDF
	bb := f.BoundingBox()
	h := 1e-6 * math.Max(1, bb.Max.Sub(bb.Min).Length())
	tol := math.Max(s.tol, 1e-3*h)

	for range maxSurfaceSteps {
		d := f.Evaluate(q)
		if d <= tol {
			return pl.Apply(q), nil
		}
		g := v3.Vec{
			X: f.Evaluate(q.Add(v3.Vec{X: h})) - f.Evaluate(q.Sub(v3.Vec{X: h})),
			Y: f.Evaluate(q.Add(v3.Vec{Y: h})) - f.Evaluate(q.Sub(v3.Vec{Y: h})),
			Z: f.Evaluate(q.Add(v3.Vec{Z: h})) - f.Evaluate(q.Sub(v3.Vec{Z: h})),
		}
		n, ok := geom.Unit(g, 0)
		if !ok {
			return geom.Vec{}, fmt.Errorf("solid: flat distance field at %v", p)
		}
		q = q.Sub(n.MulScalar(d))
	}
	return geom.Vec{}, fmt.Errorf("solid: closest point did not converge from %v", p)
}
