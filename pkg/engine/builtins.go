package engine

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/document"
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
	"github.com/chazu/jig/pkg/kernel/sdfx"
)

// builder is the state the builtins of one evaluation share.
type builder struct {
	doc    *document.Document
	kernel *sdfx.SdfxKernel
}

type builtin func(a kwArgs) (zygo.Sexp, error)

// registerBuiltins installs the jig builtins into env. Names use
// underscores; preprocessSource turns plane-face into plane_face.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	fns := map[string]builtin{
		"vec3":      b.vec3,
		"placement": b.placement,
		"offset":    b.offset,

		"segment":   b.segment,
		"circle":    b.circle,
		"ellipse":   b.ellipse,
		"parabola":  b.parabola,
		"hyperbola": b.hyperbola,
		"helix":     b.helix,

		"plane_face":    b.planeFace,
		"cylinder_face": b.cylinderFace,
		"sphere_face":   b.sphereFace,

		"box":        b.box,
		"cylinder":   b.cylinder,
		"sphere":     b.sphere,
		"union":      b.union,
		"difference": b.difference,

		"ref":       b.ref,
		"attach":    b.attach,
		"defobject": b.defobject,
		"object":    b.object,
	}
	for name, fn := range fns {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			out, err := fn(parseArgs(name, args))
			if err != nil {
				return zygo.SexpNull, err
			}
			return out, nil
		})
	}
}

// ---------------------------------------------------------------------------
// (vec3 1 2 3)
// (placement (vec3 0 0 5) :rotation (vec3 0 0 90))
// (placement :axis (vec3 0 0 1) :angle 45)
// (offset (vec3 0 0 1) :rotation (vec3 90 0 0))
// ---------------------------------------------------------------------------

func (b *builder) vec3(a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) != 3 {
		return nil, a.errorf("requires exactly 3 arguments, got %d", len(a.positional))
	}
	xyz, err := a.floats(0, "x", "y", "z")
	if err != nil {
		return nil, err
	}
	return &sexpVec3{v: geom.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
}

// rotation reads :rotation (Euler degrees) or :axis with :angle (degrees).
func rotation(a kwArgs) (geom.Rotation, error) {
	euler, hasEuler := a.kw["rotation"]
	_, hasAxis := a.kw["axis"]
	switch {
	case hasEuler && hasAxis:
		return geom.Rotation{}, a.errorf("use either :rotation or :axis, not both")
	case hasEuler:
		v, err := toVec3(euler)
		if err != nil {
			return geom.Rotation{}, a.errorf("rotation: %w", err)
		}
		return geom.EulerRotation(v.X, v.Y, v.Z), nil
	case hasAxis:
		axis, err := a.vec("axis", geom.ZAxis)
		if err != nil {
			return geom.Rotation{}, err
		}
		deg, err := a.float("angle", 0)
		if err != nil {
			return geom.Rotation{}, err
		}
		if _, ok := geom.Unit(axis, geom.Tolerance); !ok {
			return geom.Rotation{}, a.errorf("axis: zero length")
		}
		return geom.AxisAngleRotation(axis, deg*math.Pi/180), nil
	}
	return geom.Identity(), nil
}

// translation reads the optional leading vec3.
func translation(a kwArgs) (geom.Vec, error) {
	if len(a.positional) == 0 {
		return geom.Vec{}, nil
	}
	v, err := toVec3(a.positional[0])
	if err != nil {
		return geom.Vec{}, a.errorf("translation: %w", err)
	}
	return v, nil
}

func (b *builder) placement(a kwArgs) (zygo.Sexp, error) {
	t, err := translation(a)
	if err != nil {
		return nil, err
	}
	r, err := rotation(a)
	if err != nil {
		return nil, err
	}
	return &sexpPlacement{p: geom.At(t, r)}, nil
}

func (b *builder) offset(a kwArgs) (zygo.Sexp, error) {
	t, err := translation(a)
	if err != nil {
		return nil, err
	}
	r, err := rotation(a)
	if err != nil {
		return nil, err
	}
	return &sexpOffset{o: attach.Offset{Translation: t, Rotation: r}}, nil
}

// ---------------------------------------------------------------------------
// Curves
//
// (segment (vec3 0 0 0) (vec3 5 0 0))
// (circle (vec3 0 0 0) (vec3 0 0 1) 2)
// (ellipse center normal x-dir major minor)
// (parabola :focal 1 :from -2 :to 2 :at placement)
// (hyperbola :major 3 :minor 4 :from -1 :to 1 :at placement)
// (helix :radius 1 :pitch 2 :turns 2 :at placement)
// ---------------------------------------------------------------------------

func (b *builder) segment(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(2, "start end"); err != nil {
		return nil, err
	}
	p0, err := toVec3(a.positional[0])
	if err != nil {
		return nil, a.errorf("start: %w", err)
	}
	p1, err := toVec3(a.positional[1])
	if err != nil {
		return nil, a.errorf("end: %w", err)
	}
	l, err := kernel.NewSegment(p0, p1)
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpCurve{c: l}, nil
}

func (b *builder) circle(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(3, "center normal radius"); err != nil {
		return nil, err
	}
	center, err := toVec3(a.positional[0])
	if err != nil {
		return nil, a.errorf("center: %w", err)
	}
	normal, err := toVec3(a.positional[1])
	if err != nil {
		return nil, a.errorf("normal: %w", err)
	}
	r, err := a.floats(2, "radius")
	if err != nil {
		return nil, err
	}
	c, err := kernel.NewCircle(center, normal, r[0])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpCurve{c: c}, nil
}

func (b *builder) ellipse(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(5, "center normal x-dir major minor"); err != nil {
		return nil, err
	}
	var v [3]geom.Vec
	for i, name := range []string{"center", "normal", "x-dir"} {
		var err error
		if v[i], err = toVec3(a.positional[i]); err != nil {
			return nil, a.errorf("%s: %w", name, err)
		}
	}
	radii, err := a.floats(3, "major", "minor")
	if err != nil {
		return nil, err
	}
	e, err := kernel.NewEllipse(v[0], v[1], v[2], radii[0], radii[1])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpCurve{c: e}, nil
}

// bounds reads :from and :to and checks the range is not empty.
func bounds(a kwArgs, from, to float64) (float64, float64, error) {
	t0, err := a.float("from", from)
	if err != nil {
		return 0, 0, err
	}
	t1, err := a.float("to", to)
	if err != nil {
		return 0, 0, err
	}
	if !(t1 > t0) {
		return 0, 0, a.errorf("empty parameter range [%g, %g]", t0, t1)
	}
	return t0, t1, nil
}

// positive reads a required positive keyword.
func positive(a kwArgs, key string) (float64, error) {
	if _, ok := a.kw[key]; !ok {
		return 0, a.errorf(":%s is required", key)
	}
	f, err := a.float(key, 0)
	if err != nil {
		return 0, err
	}
	if !(f > 0) {
		return 0, a.errorf("%s must be positive, got %g", key, f)
	}
	return f, nil
}

func (b *builder) parabola(a kwArgs) (zygo.Sexp, error) {
	f, err := positive(a, "focal")
	if err != nil {
		return nil, err
	}
	t0, t1, err := bounds(a, -1, 1)
	if err != nil {
		return nil, err
	}
	pos, err := a.placement("at")
	if err != nil {
		return nil, err
	}
	return &sexpCurve{c: kernel.Parabola{Pos: pos, Focal: f, T0: t0, T1: t1}}, nil
}

func (b *builder) hyperbola(a kwArgs) (zygo.Sexp, error) {
	major, err := positive(a, "major")
	if err != nil {
		return nil, err
	}
	minor, err := positive(a, "minor")
	if err != nil {
		return nil, err
	}
	t0, t1, err := bounds(a, -1, 1)
	if err != nil {
		return nil, err
	}
	pos, err := a.placement("at")
	if err != nil {
		return nil, err
	}
	return &sexpCurve{c: kernel.Hyperbola{Pos: pos, Major: major, Minor: minor, T0: t0, T1: t1}}, nil
}

func (b *builder) helix(a kwArgs) (zygo.Sexp, error) {
	r, err := positive(a, "radius")
	if err != nil {
		return nil, err
	}
	pitch, err := positive(a, "pitch")
	if err != nil {
		return nil, err
	}
	turns, err := a.float("turns", 1)
	if err != nil {
		return nil, err
	}
	if !(turns > 0) {
		return nil, a.errorf("turns must be positive, got %g", turns)
	}
	pos, err := a.placement("at")
	if err != nil {
		return nil, err
	}
	return &sexpCurve{c: kernel.Helix{Pos: pos, Radius: r, Pitch: pitch, T1: 2 * math.Pi * turns}}, nil
}

// ---------------------------------------------------------------------------
// Faces
//
// (plane-face origin normal width height)
// (cylinder-face :radius 1 :height 4 :at placement)
// (sphere-face center radius)
// ---------------------------------------------------------------------------

func (b *builder) planeFace(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(4, "origin normal width height"); err != nil {
		return nil, err
	}
	origin, err := toVec3(a.positional[0])
	if err != nil {
		return nil, a.errorf("origin: %w", err)
	}
	normal, err := toVec3(a.positional[1])
	if err != nil {
		return nil, a.errorf("normal: %w", err)
	}
	wh, err := a.floats(2, "width", "height")
	if err != nil {
		return nil, err
	}
	p, err := kernel.NewPlane(origin, normal, wh[0], wh[1])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpSurface{s: p}, nil
}

func (b *builder) cylinderFace(a kwArgs) (zygo.Sexp, error) {
	r, err := positive(a, "radius")
	if err != nil {
		return nil, err
	}
	h, err := positive(a, "height")
	if err != nil {
		return nil, err
	}
	pos, err := a.placement("at")
	if err != nil {
		return nil, err
	}
	return &sexpSurface{s: kernel.Cylinder{Pos: pos, Radius: r, U1: 2 * math.Pi, V1: h}}, nil
}

func (b *builder) sphereFace(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(2, "center radius"); err != nil {
		return nil, err
	}
	center, err := toVec3(a.positional[0])
	if err != nil {
		return nil, a.errorf("center: %w", err)
	}
	r, err := a.floats(1, "radius")
	if err != nil {
		return nil, err
	}
	if !(r[0] > 0) {
		return nil, a.errorf("radius must be positive, got %g", r[0])
	}
	return &sexpSurface{s: kernel.NewSphere(center, r[0])}, nil
}

// ---------------------------------------------------------------------------
// Solids
//
// (box 1 2 3)  (cylinder height radius)  (sphere radius)
// (union a b ...)  (difference a b ...)
// ---------------------------------------------------------------------------

func (b *builder) box(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(3, "x y z"); err != nil {
		return nil, err
	}
	xyz, err := a.floats(0, "x", "y", "z")
	if err != nil {
		return nil, err
	}
	s, err := b.kernel.Box(xyz[0], xyz[1], xyz[2])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpSolid{s: s, desc: fmt.Sprintf("box %g %g %g", xyz[0], xyz[1], xyz[2])}, nil
}

func (b *builder) cylinder(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(2, "height radius"); err != nil {
		return nil, err
	}
	hr, err := a.floats(0, "height", "radius")
	if err != nil {
		return nil, err
	}
	s, err := b.kernel.Cylinder(hr[0], hr[1])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpSolid{s: s, desc: fmt.Sprintf("cylinder %g %g", hr[0], hr[1])}, nil
}

func (b *builder) sphere(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(1, "radius"); err != nil {
		return nil, err
	}
	r, err := a.floats(0, "radius")
	if err != nil {
		return nil, err
	}
	s, err := b.kernel.Sphere(r[0])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpSolid{s: s, desc: fmt.Sprintf("sphere %g", r[0])}, nil
}

// fold combines two or more solids left to right.
func (b *builder) fold(a kwArgs, op func(x, y sdf.SDF3) sdf.SDF3) (zygo.Sexp, error) {
	if err := a.need(2, "solid solid ..."); err != nil {
		return nil, err
	}
	var acc sdf.SDF3
	for i, arg := range a.positional {
		s, err := toSolid(arg)
		if err != nil {
			return nil, a.errorf("operand %d: %w", i+1, err)
		}
		if acc == nil {
			acc = s
			continue
		}
		acc = op(acc, s)
	}
	return &sexpSolid{s: acc, desc: fmt.Sprintf("%s of %d", a.fn, len(a.positional))}, nil
}

func (b *builder) union(a kwArgs) (zygo.Sexp, error)      { return b.fold(a, b.kernel.Union) }
func (b *builder) difference(a kwArgs) (zygo.Sexp, error) { return b.fold(a, b.kernel.Difference) }

// ---------------------------------------------------------------------------
// References and attachments
//
// (ref "base" :Vertex1)  (ref base "Edge2")  (ref "base:Face1")
// (attach :plane :ObjectXY (list (ref base :Vertex1))
//         :offset (offset ...) :flip true :path-param 0.5)
// ---------------------------------------------------------------------------

func (b *builder) ref(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(1, "object [sub-element]"); err != nil {
		return nil, err
	}
	if len(a.positional) == 1 && len(a.kw) == 0 {
		sel, err := toSelection(a.positional[0])
		if err != nil {
			return nil, a.errorf("%w", err)
		}
		return &sexpSelection{sel: sel}, nil
	}
	id, err := toObjectID(a.positional[0])
	if err != nil {
		return nil, a.errorf("object: %w", err)
	}
	sub, err := subElement(a)
	if err != nil {
		return nil, err
	}
	if _, _, err := attach.ParseSubElement(sub); err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpSelection{sel: attach.Selection{Object: string(id), Sub: sub}}, nil
}

// subElement reads the sub-element name given positionally ("Vertex1") or
// as a keyword flag (:Vertex1).
func subElement(a kwArgs) (string, error) {
	if len(a.positional) > 1 {
		s, err := toKeywordString(a.positional[1])
		if err != nil {
			return "", a.errorf("sub-element: %w", err)
		}
		return s, nil
	}
	for name := range a.kw {
		if len(a.kw) > 1 {
			return "", a.errorf("more than one sub-element")
		}
		return name, nil
	}
	return "", nil
}

func (b *builder) attach(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(2, "dimension mode [references]"); err != nil {
		return nil, err
	}
	dimName, err := toKeywordString(a.positional[0])
	if err != nil {
		return nil, a.errorf("dimension: %w", err)
	}
	dim, err := attach.ParseDimension(dimName)
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	mode, err := toKeywordString(a.positional[1])
	if err != nil {
		return nil, a.errorf("mode: %w", err)
	}

	obj := attach.NewAttachedObject(dim)
	obj.SetMode(attach.ModeID(mode))

	if len(a.positional) > 2 {
		items, err := sexpListToSlice(a.positional[2])
		if err != nil {
			return nil, a.errorf("references: %w", err)
		}
		sels := make([]attach.Selection, 0, len(items))
		for i, item := range items {
			sel, err := toSelection(item)
			if err != nil {
				return nil, a.errorf("reference %d: %w", i+1, err)
			}
			sels = append(sels, sel)
		}
		if err := obj.SetReferences(sels...); err != nil {
			return nil, a.errorf("%w", err)
		}
	}
	if v, ok := a.kw["offset"]; ok {
		off, ok := v.(*sexpOffset)
		if !ok {
			return nil, a.errorf("offset: expected offset, got %s", describe(v))
		}
		obj.SetOffset(off.o)
	}
	if v, ok := a.kw["flip"]; ok {
		flip, err := toBool(v)
		if err != nil {
			return nil, a.errorf("flip: %w", err)
		}
		obj.SetFlip(flip)
	}
	if _, ok := a.kw["path-param"]; ok {
		f, err := a.float("path-param", 0)
		if err != nil {
			return nil, err
		}
		if err := obj.SetPathParameter(f); err != nil {
			return nil, a.errorf("%w", err)
		}
	}
	return &sexpAttachment{obj: obj}, nil
}

// ---------------------------------------------------------------------------
// (defobject "name" :label "..." :placement p
//            :vertices (list ...) :edges (list ...) :faces (list ...)
//            :solid s :attach (attach ...))
// (object "name")
// ---------------------------------------------------------------------------

func (b *builder) defobject(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(1, "name ..."); err != nil {
		return nil, err
	}
	name, err := toString(a.positional[0])
	if err != nil {
		return nil, a.errorf("name: %w", err)
	}
	obj := &document.Object{ID: document.ObjectID(name), Label: name}
	if v, ok := a.kw["label"]; ok {
		if obj.Label, err = toString(v); err != nil {
			return nil, a.errorf("label: %w", err)
		}
	}
	if obj.Shape, err = shapeOf(a); err != nil {
		return nil, err
	}

	if v, ok := a.kw["attach"]; ok {
		att, ok := v.(*sexpAttachment)
		if !ok {
			return nil, a.errorf("attach: expected attachment, got %s", describe(v))
		}
		obj.Attachment = att.obj
	}
	if _, ok := a.kw["placement"]; ok {
		p, err := a.placement("placement")
		if err != nil {
			return nil, err
		}
		obj.SetPlacement(p)
	}

	id, err := b.doc.Add(obj)
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	return &sexpObjectRef{id: id}, nil
}

// shapeOf collects the geometry keywords of defobject.
func shapeOf(a kwArgs) (*kernel.Shape, error) {
	shape := &kernel.Shape{}
	if v, ok := a.kw["vertices"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, a.errorf("vertices: %w", err)
		}
		for i, item := range items {
			p, err := toVec3(item)
			if err != nil {
				return nil, a.errorf("vertex %d: %w", i+1, err)
			}
			shape.Vertices = append(shape.Vertices, p)
		}
	}
	if v, ok := a.kw["edges"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, a.errorf("edges: %w", err)
		}
		for i, item := range items {
			c, ok := item.(*sexpCurve)
			if !ok {
				return nil, a.errorf("edge %d: expected curve, got %s", i+1, describe(item))
			}
			shape.Edges = append(shape.Edges, c.c)
		}
	}
	if v, ok := a.kw["faces"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, a.errorf("faces: %w", err)
		}
		for i, item := range items {
			s, ok := item.(*sexpSurface)
			if !ok {
				return nil, a.errorf("face %d: expected surface, got %s", i+1, describe(item))
			}
			shape.Faces = append(shape.Faces, s.s)
		}
	}
	if v, ok := a.kw["solid"]; ok {
		s, err := toSolid(v)
		if err != nil {
			return nil, a.errorf("solid: %w", err)
		}
		shape.Solid = s
	}
	if shape.IsEmpty() {
		return nil, nil
	}
	return shape, nil
}

func (b *builder) object(a kwArgs) (zygo.Sexp, error) {
	if err := a.need(1, "name"); err != nil {
		return nil, err
	}
	id, err := toObjectID(a.positional[0])
	if err != nil {
		return nil, a.errorf("%w", err)
	}
	if b.doc.Get(id) == nil {
		return nil, a.errorf("no object named %q", string(id))
	}
	return &sexpObjectRef{id: id}, nil
}
