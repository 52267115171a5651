// Package kernel defines the geometry kernel the attachment solvers query.
// It provides analytic curves and surfaces, the Shape that groups them for a
// document object, and the Kernel interface for projection, arc length,
// mass properties and distance queries. Implementations (sdfx) add solid
// support behind this interface, so the solvers never depend on a backend.
package kernel

import (
	"errors"

	"github.com/chazu/jig/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
)

// ErrUnsupported is returned when a query does not handle the given element.
var ErrUnsupported = errors.New("kernel: unsupported element")

// Element is one geometric input to a kernel query: a Point, a Curve, a
// Surface or a Solid.
type Element interface {
	// Dimension is 0 for points, 1 for curves, 2 for surfaces, 3 for solids.
	Dimension() int
}

// Point is a zero-dimensional element.
type Point struct {
	P geom.Vec
}

func (Point) Dimension() int { return 0 }

// Solid is an SDF solid in its own local coordinates, positioned in world
// space by Placement.
type Solid struct {
	SDF       sdf.SDF3
	Placement geom.Placement
}

func (Solid) Dimension() int { return 3 }

// Locus is an element that can report the point on itself closest to p.
// Backends use it to take part in distance queries for elements the
// analytic code cannot sample.
type Locus interface {
	Element
	Closest(p geom.Vec) (geom.Vec, error)
}

// Kernel is the abstract geometry kernel interface.
// All queries are read-only; implementations must be safe for concurrent use.
type Kernel interface {
	// ProjectCurve returns the parameter of the point on c closest to p.
	ProjectCurve(c Curve, p geom.Vec) (float64, error)
	// ProjectSurface returns the parameters of the point on s closest to p.
	ProjectSurface(s Surface, p geom.Vec) (u, v float64, err error)
	// ParamAtFraction returns the parameter at fraction f (0..1) of the arc
	// length of c.
	ParamAtFraction(c Curve, f float64) (float64, error)
	// MassProperties combines the mass properties of all elements, assuming
	// equal density within each dimension.
	MassProperties(elems ...Element) (MassProps, error)
	// Extrema returns the mutually closest points of a and b.
	Extrema(a, b Element) (pa, pb geom.Vec, err error)
}
