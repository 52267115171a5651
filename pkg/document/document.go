package document

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// ObjectID names a document object.
type ObjectID string

// NewObjectID returns a fresh random id for an unnamed object.
func NewObjectID() ObjectID {
	return ObjectID("obj-" + uuid.NewString())
}

// IsZero reports whether the id is empty.
func (id ObjectID) IsZero() bool { return id == "" }

// Short returns the id truncated to 12 characters for messages.
func (id ObjectID) Short() string {
	if len(id) > 12 {
		return string(id[:12])
	}
	return string(id)
}

// Object is one document object. Its Shape is in local coordinates. When
// Attachment is nil the object is free and keeps its own placement.
type Object struct {
	ID         ObjectID
	Label      string
	Shape      *kernel.Shape
	Attachment *attach.AttachedObject

	placement geom.Placement
}

// Placement returns the current world placement of the object.
func (o *Object) Placement() geom.Placement {
	if o.Attachment != nil {
		return o.Attachment.Placement()
	}
	return o.placement
}

// SetPlacement sets the placement directly. For an attached object this is
// the manual placement, which wins only while the attachment is
// deactivated.
func (o *Object) SetPlacement(p geom.Placement) {
	if o.Attachment != nil {
		o.Attachment.SetPlacement(p)
		return
	}
	o.placement = p
}

// Dependencies returns the distinct objects referenced by the attachment,
// in reference order.
func (o *Object) Dependencies() []ObjectID {
	if o.Attachment == nil {
		return nil
	}
	var deps []ObjectID
	for _, s := range o.Attachment.References() {
		id := ObjectID(s.Object)
		if !slices.Contains(deps, id) {
			deps = append(deps, id)
		}
	}
	return deps
}

// Document is a set of objects in insertion order. It implements
// attach.Store. It is not safe for concurrent mutation; Recompute
// coordinates its own workers.
type Document struct {
	objects map[ObjectID]*Object
	order   []ObjectID
	// Version increases on every structural change.
	Version uint64
}

var _ attach.Store = (*Document)(nil)

// New returns an empty document.
func New() *Document {
	return &Document{objects: make(map[ObjectID]*Object)}
}

// Add inserts o, assigning a fresh id when o.ID is empty. A free object
// with no placement starts at the identity.
func (d *Document) Add(o *Object) (ObjectID, error) {
	if o.ID.IsZero() {
		o.ID = NewObjectID()
	}
	if _, dup := d.objects[o.ID]; dup {
		return "", fmt.Errorf("document: duplicate object %q", o.ID)
	}
	if o.Attachment == nil && o.placement == (geom.Placement{}) {
		o.placement = geom.IdentityPlacement()
	}
	d.objects[o.ID] = o
	d.order = append(d.order, o.ID)
	d.Version++
	return o.ID, nil
}

// Remove deletes an object. Attachments referencing it fail on the next
// recompute.
func (d *Document) Remove(id ObjectID) bool {
	if _, ok := d.objects[id]; !ok {
		return false
	}
	delete(d.objects, id)
	d.order = slices.DeleteFunc(d.order, func(x ObjectID) bool { return x == id })
	d.Version++
	return true
}

// Get returns the object with the given id, or nil.
func (d *Document) Get(id ObjectID) *Object {
	return d.objects[id]
}

// Objects returns all objects in insertion order.
func (d *Document) Objects() []*Object {
	out := make([]*Object, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.objects[id])
	}
	return out
}

// Len returns the number of objects.
func (d *Document) Len() int { return len(d.objects) }

// Placement implements attach.Store.
func (d *Document) Placement(id string) (geom.Placement, bool) {
	o, ok := d.objects[ObjectID(id)]
	if !ok {
		return geom.Placement{}, false
	}
	return o.Placement(), true
}

// Shape implements attach.Store.
func (d *Document) Shape(id string) (*kernel.Shape, bool) {
	o, ok := d.objects[ObjectID(id)]
	if !ok {
		return nil, false
	}
	return o.Shape, true
}
