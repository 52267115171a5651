package kernel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/jig/pkg/geom"
)

// ElementKind is the type of a shape sub-element.
type ElementKind int

const (
	ElementVertex ElementKind = iota
	ElementEdge
	ElementFace
)

func (k ElementKind) String() string {
	switch k {
	case ElementVertex:
		return "Vertex"
	case ElementEdge:
		return "Edge"
	case ElementFace:
		return "Face"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Shape is the geometry of one document object in the object's local
// coordinates; the object's placement positions it in the world.
// Sub-elements are addressed by 1-based index, so "Edge2" is Edges[1].
type Shape struct {
	Vertices []geom.Vec
	Edges    []Curve
	Faces    []Surface
	Solid    sdf.SDF3
}

// Vertex returns vertex i (1-based).
func (s *Shape) Vertex(i int) (geom.Vec, bool) {
	if s == nil || i < 1 || i > len(s.Vertices) {
		return geom.Vec{}, false
	}
	return s.Vertices[i-1], true
}

// Edge returns edge i (1-based).
func (s *Shape) Edge(i int) (Curve, bool) {
	if s == nil || i < 1 || i > len(s.Edges) {
		return nil, false
	}
	return s.Edges[i-1], true
}

// Face returns face i (1-based).
func (s *Shape) Face(i int) (Surface, bool) {
	if s == nil || i < 1 || i > len(s.Faces) {
		return nil, false
	}
	return s.Faces[i-1], true
}

// Count returns the number of sub-elements of the given kind.
func (s *Shape) Count(k ElementKind) int {
	if s == nil {
		return 0
	}
	switch k {
	case ElementVertex:
		return len(s.Vertices)
	case ElementEdge:
		return len(s.Edges)
	case ElementFace:
		return len(s.Faces)
	}
	return 0
}

// IsEmpty reports whether the shape has no geometry at all.
func (s *Shape) IsEmpty() bool {
	return s == nil || (len(s.Vertices) == 0 && len(s.Edges) == 0 && len(s.Faces) == 0 && s.Solid == nil)
}

// AddSegment appends the segment a-b and its end points, returning the new
// edge index.
func (s *Shape) AddSegment(a, b geom.Vec) (int, error) {
	l, err := NewSegment(a, b)
	if err != nil {
		return 0, err
	}
	s.Vertices = append(s.Vertices, a, b)
	s.Edges = append(s.Edges, l)
	return len(s.Edges), nil
}
