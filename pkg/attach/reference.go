package attach

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// RefKind is the shape kind of a reference.
type RefKind int

const (
	RefVertex RefKind = iota
	RefEdge
	RefFace
	RefObject
)

func (k RefKind) String() string {
	switch k {
	case RefVertex:
		return "Vertex"
	case RefEdge:
		return "Edge"
	case RefFace:
		return "Face"
	case RefObject:
		return "Object"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// ParseRefKind parses a kind name case-insensitively.
func ParseRefKind(s string) (RefKind, error) {
	for k := RefVertex; k <= RefObject; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown reference kind %q (want vertex, edge, face or object)", s)
}

// Kinds is a set of reference kinds accepted by a slot.
type Kinds uint8

const (
	AcceptVertex Kinds = 1 << RefVertex
	AcceptEdge   Kinds = 1 << RefEdge
	AcceptFace   Kinds = 1 << RefFace
	AcceptObject Kinds = 1 << RefObject
	AcceptAny          = AcceptVertex | AcceptEdge | AcceptFace | AcceptObject
)

// Has reports whether k contains r.
func (k Kinds) Has(r RefKind) bool {
	return r >= RefVertex && r <= RefObject && k&(1<<r) != 0
}

func (k Kinds) String() string {
	if k == AcceptAny {
		return "Any"
	}
	var names []string
	for r := RefVertex; r <= RefObject; r++ {
		if k.Has(r) {
			names = append(names, r.String())
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// Reference is a resolved geometric input, in world coordinates.
type Reference struct {
	Kind   RefKind
	Object string
	// Index is the 1-based sub-element index, 0 for a whole object.
	Index   int
	Payload Payload
}

// Payload is the geometry carried by a Reference: VertexPayload,
// EdgePayload, FacePayload or ObjectPayload.
type Payload interface {
	payload() // marker method restricting implementations to this package
}

// VertexPayload is a point.
type VertexPayload struct {
	Point geom.Vec
}

func (VertexPayload) payload() {}

// EdgePayload is a curve with a default parameter at mid-domain.
type EdgePayload struct {
	Curve kernel.Curve
	Param float64
}

func (EdgePayload) payload() {}

// FacePayload is a surface with default parameters at mid-domain.
type FacePayload struct {
	Surface kernel.Surface
	U, V    float64
}

func (FacePayload) payload() {}

// ObjectPayload is a whole object: its placement and, if it has one, its
// solid in local coordinates.
type ObjectPayload struct {
	Placement geom.Placement
	Solid     sdf.SDF3
}

func (ObjectPayload) payload() {}

// Point returns the location of a vertex or the origin of an object.
func (r Reference) Point() (geom.Vec, bool) {
	switch p := r.Payload.(type) {
	case VertexPayload:
		return p.Point, true
	case ObjectPayload:
		return p.Placement.Origin, true
	}
	return geom.Vec{}, false
}

// Element converts the reference into a kernel element for mass and
// distance queries. Objects without a solid act as a point at their origin.
func (r Reference) Element() kernel.Element {
	switch p := r.Payload.(type) {
	case VertexPayload:
		return kernel.Point{P: p.Point}
	case EdgePayload:
		return p.Curve
	case FacePayload:
		return p.Surface
	case ObjectPayload:
		if p.Solid != nil {
			return kernel.Solid{SDF: p.Solid, Placement: p.Placement}
		}
		return kernel.Point{P: p.Placement.Origin}
	}
	return nil
}

func (r Reference) String() string {
	if r.Index == 0 {
		return r.Object
	}
	return fmt.Sprintf("%s:%s%d", r.Object, r.Kind, r.Index)
}
