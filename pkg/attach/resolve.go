package attach

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// MaxReferences is the most references an attachment may hold.
const MaxReferences = 4

// Selection is a raw reference: an object id and an optional sub-element
// name ("Vertex1", "Edge3", "Face2"); an empty Sub selects the whole object.
type Selection struct {
	Object string `cbor:"1,keyasint" json:"object" yaml:"object"`
	Sub    string `cbor:"2,keyasint,omitempty" json:"sub,omitempty" yaml:"sub,omitempty"`
}

// ParseSelection parses "object" or "object:Sub".
func ParseSelection(s string) (Selection, error) {
	obj, sub, _ := strings.Cut(s, ":")
	if obj == "" {
		return Selection{}, fmt.Errorf("selection %q: empty object id", s)
	}
	if _, _, err := ParseSubElement(sub); err != nil {
		return Selection{}, err
	}
	return Selection{Object: obj, Sub: sub}, nil
}

func (s Selection) String() string {
	if s.Sub == "" {
		return s.Object
	}
	return s.Object + ":" + s.Sub
}

// Kind returns the reference kind named by the selection without touching
// any geometry.
func (s Selection) Kind() (RefKind, error) {
	k, _, err := ParseSubElement(s.Sub)
	return k, err
}

// ParseSubElement splits a sub-element name into its kind and 1-based index.
// The empty name is the whole object.
func ParseSubElement(name string) (RefKind, int, error) {
	if name == "" {
		return RefObject, 0, nil
	}
	for _, k := range []RefKind{RefVertex, RefEdge, RefFace} {
		prefix := k.String()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		i, err := strconv.Atoi(name[len(prefix):])
		if err != nil || i < 1 {
			break
		}
		return k, i, nil
	}
	return 0, 0, newError(KindUnresolvableSelection, "malformed sub-element %q", name)
}

// Store is the read-only view of document geometry the resolver needs.
type Store interface {
	// Placement returns the placement of an object.
	Placement(id string) (geom.Placement, bool)
	// Shape returns an object's geometry in its local coordinates. It may
	// return a nil shape for an object with no geometry.
	Shape(id string) (*kernel.Shape, bool)
}

// Resolve turns a selection into a Reference in world coordinates.
func Resolve(store Store, sel Selection) (Reference, error) {
	kind, idx, err := ParseSubElement(sel.Sub)
	if err != nil {
		return Reference{}, err
	}
	pl, ok := store.Placement(sel.Object)
	if !ok {
		return Reference{}, newError(KindUnresolvableSelection, "no object %q", sel.Object)
	}
	shape, _ := store.Shape(sel.Object)

	ref := Reference{Kind: kind, Object: sel.Object, Index: idx}
	missing := func() (Reference, error) {
		return Reference{}, newError(KindUnresolvableSelection, "object %q has no %s", sel.Object, sel.Sub)
	}
	switch kind {
	case RefVertex:
		v, ok := shape.Vertex(idx)
		if !ok {
			return missing()
		}
		ref.Payload = VertexPayload{Point: pl.Apply(v)}
	case RefEdge:
		c, ok := shape.Edge(idx)
		if !ok {
			return missing()
		}
		c = c.Moved(pl)
		ref.Payload = EdgePayload{Curve: c, Param: kernel.MidParam(c)}
	case RefFace:
		s, ok := shape.Face(idx)
		if !ok {
			return missing()
		}
		s = s.Moved(pl)
		u, v := kernel.MidUV(s)
		ref.Payload = FacePayload{Surface: s, U: u, V: v}
	default:
		op := ObjectPayload{Placement: pl}
		if shape != nil {
			op.Solid = shape.Solid
		}
		ref.Payload = op
	}
	return ref, nil
}

// ResolveAll resolves selections in order, stopping at the first failure.
func ResolveAll(store Store, sels []Selection) ([]Reference, error) {
	refs := make([]Reference, 0, len(sels))
	for i, s := range sels {
		r, err := Resolve(store, s)
		if err != nil {
			if ae, ok := err.(*Error); ok {
				ae.Slot = i + 1
			}
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, nil
}

// KindsOf returns the reference kinds named by sels.
func KindsOf(sels []Selection) ([]RefKind, error) {
	kinds := make([]RefKind, len(sels))
	for i, s := range sels {
		k, err := s.Kind()
		if err != nil {
			if ae, ok := err.(*Error); ok {
				ae.Slot = i + 1
			}
			return nil, err
		}
		kinds[i] = k
	}
	return kinds, nil
}
