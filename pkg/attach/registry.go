package attach

import (
	"fmt"
	"slices"
)

// Common slot shapes.
var (
	slotVertex    = Slot{Kinds: AcceptVertex}
	slotOptVertex = Slot{Kinds: AcceptVertex, Optional: true}
	slotEdge      = Slot{Kinds: AcceptEdge}
	slotFace      = Slot{Kinds: AcceptFace}
	slotAny       = Slot{Kinds: AcceptAny}
	slotOptAny    = Slot{Kinds: AcceptAny, Optional: true}
	// An object, or a conic edge standing in for its own frame.
	slotPlaced = Slot{Kinds: AcceptObject | AcceptEdge}
	// A vertex or object supplying an origin.
	slotOrigin = Slot{Kinds: AcceptVertex | AcceptObject}
	// A vertex to aim at or a line to align with.
	slotAim    = Slot{Kinds: AcceptVertex | AcceptEdge}
	slotOptAim = Slot{Kinds: AcceptVertex | AcceptEdge, Optional: true}
)

var (
	edgeWhere    = []Slot{slotEdge, slotOptVertex}
	faceWhere    = []Slot{slotFace, slotOptVertex}
	placedWhere  = []Slot{slotPlaced, slotOptVertex}
	massRefs     = []Slot{slotAny, slotOptAny, slotOptAny, slotOptAny}
	threePoints  = []Slot{slotVertex, slotVertex, slotVertex}
	twoAny       = []Slot{slotAny, slotAny}
	foldingEdges = []Slot{slotEdge, slotEdge, slotEdge, slotEdge}
	alignRefs    = []Slot{slotOrigin, slotAim, slotOptAim}
)

const (
	tipWhere   = " Optional vertex link defines where."
	tipFrenet  = "Align to Frenet-Serret coordinate system of curved edge." + tipWhere
	tipConics  = " Works on objects with placements, and ellipse/parabola/hyperbola edges."
	tipFolding = "Specialty mode for folding polyhedra. Select 4 edges in order: foldable edge, fold line, other fold line, other foldable edge."
)

func deactivated(what string) *Mode {
	return &Mode{ID: ModeDeactivated, Caption: "Deactivated",
		Tooltip: "Attachment is disabled. " + what + " can be moved by editing Placement property."}
}

func pointModes() []*Mode {
	return []*Mode{
		deactivated("Point"),
		{ID: ModeObjectOrigin, Caption: "Object's origin", Slots: []Slot{slotPlaced},
			Tooltip: "Point is put at object's placement position." + tipConics},
		{ID: ModeFocus1, Caption: "Focus1", Slots: []Slot{slotEdge},
			Tooltip: "Focus of ellipse, parabola, hyperbola."},
		{ID: ModeFocus2, Caption: "Focus2", Slots: []Slot{slotEdge},
			Tooltip: "Second focus of ellipse and hyperbola."},
		{ID: ModeOnEdge, Caption: "On edge", Slots: edgeWhere,
			Tooltip: "Point is put on edge, MapPathParameter controls where. Additionally, vertex can be linked in for making a projection."},
		{ID: ModeCenterOfCurvature, Caption: "Center of curvature", Slots: edgeWhere,
			Tooltip: "Center of osculating circle of an edge." + tipWhere},
		{ID: ModeCenterOfMass, Caption: "Center of mass", Slots: massRefs,
			Tooltip: "Center of mass of all references (equal densities are assumed)."},
		{ID: ModeVertex, Caption: "Vertex", Slots: []Slot{slotVertex},
			Tooltip: "Put Datum point coincident with another vertex."},
		{ID: ModeProximity1, Caption: "Proximity point 1", Slots: twoAny,
			Tooltip: "Point on first reference that is closest to second reference."},
		{ID: ModeProximity2, Caption: "Proximity point 2", Slots: twoAny,
			Tooltip: "Point on second reference that is closest to first reference."},
	}
}

func lineModes() []*Mode {
	return []*Mode{
		deactivated("Line"),
		{ID: ModeObjectX, Caption: "Object's X", Slots: placedWhere,
			Tooltip: "Line is aligned along local X axis of object." + tipConics},
		{ID: ModeObjectY, Caption: "Object's Y", Slots: placedWhere,
			Tooltip: "Line is aligned along local Y axis of object." + tipConics},
		{ID: ModeObjectZ, Caption: "Object's Z", Slots: placedWhere,
			Tooltip: "Line is aligned along local Z axis of object." + tipConics},
		{ID: ModeAxisOfCurvature, Caption: "Axis of curvature", Slots: edgeWhere,
			Tooltip: "Line that is an axis of osculating circle of curved edge." + tipWhere},
		{ID: ModeDirectrix1, Caption: "Directrix1", Slots: []Slot{slotEdge},
			Tooltip: "Directrix line for ellipse, parabola, hyperbola."},
		{ID: ModeDirectrix2, Caption: "Directrix2", Slots: []Slot{slotEdge},
			Tooltip: "Second directrix line for ellipse and hyperbola."},
		{ID: ModeAsymptote1, Caption: "Asymptote1", Slots: []Slot{slotEdge},
			Tooltip: "Asymptote of a hyperbola."},
		{ID: ModeAsymptote2, Caption: "Asymptote2", Slots: []Slot{slotEdge},
			Tooltip: "Second asymptote of hyperbola."},
		{ID: ModeTangent, Caption: "Tangent", Slots: edgeWhere,
			Tooltip: "Line tangent to an edge." + tipWhere},
		{ID: ModeNormal, Caption: "Normal to edge", Slots: edgeWhere,
			Tooltip: "Align to N vector of Frenet-Serret coordinate system of curved edge." + tipWhere},
		{ID: ModeBinormal, Caption: "Binormal", Slots: edgeWhere,
			Tooltip: "Align to B vector of Frenet-Serret coordinate system of curved edge." + tipWhere},
		{ID: ModeTangentU, Caption: "Tangent to surface (U)", Slots: faceWhere,
			Tooltip: "Tangent to surface, along U parameter. Vertex link defines where."},
		{ID: ModeTangentV, Caption: "Tangent to surface (V)", Slots: faceWhere,
			Tooltip: "Tangent to surface, along V parameter. Vertex link defines where."},
		{ID: ModeTwoPointLine, Caption: "Through two points", Slots: []Slot{slotVertex, slotVertex},
			Tooltip: "Line that passes through two vertices."},
		{ID: ModeIntersection, Caption: "Intersection", Slots: []Slot{slotFace, slotFace},
			Tooltip: "Intersection of two faces."},
		{ID: ModeProximity, Caption: "Proximity line", Slots: twoAny,
			Tooltip: "Line that spans the shortest distance between shapes."},
		{ID: ModeInertia1, Caption: "1st principal axis", Slots: massRefs,
			Tooltip: "Line follows first principal axis of inertia."},
		{ID: ModeInertia2, Caption: "2nd principal axis", Slots: massRefs,
			Tooltip: "Line follows second principal axis of inertia."},
		{ID: ModeInertia3, Caption: "3rd principal axis", Slots: massRefs,
			Tooltip: "Line follows third principal axis of inertia."},
		{ID: ModeNormalToSurface, Caption: "Normal to surface", Slots: faceWhere,
			Tooltip: "Line perpendicular to surface at point set by vertex."},
	}
}

func planeModes() []*Mode {
	align := func(id ModeID, caption, axes string) *Mode {
		return &Mode{ID: id, Caption: "Align " + caption, Slots: alignRefs,
			Tooltip: "Match origin with first Vertex. Align " + axes + " towards vertex/along line."}
	}
	return []*Mode{
		deactivated("Object"),
		{ID: ModeTranslateOrigin, Caption: "Translate origin", Slots: []Slot{slotVertex},
			Tooltip: "Origin is aligned to match Vertex. Orientation is controlled by Placement property."},
		{ID: ModeObjectXY, Caption: "Object's XY", Slots: placedWhere,
			Tooltip: "Plane is aligned to XY local plane of linked object."},
		{ID: ModeObjectXZ, Caption: "Object's XZ", Slots: placedWhere,
			Tooltip: "Plane is aligned to XZ local plane of linked object."},
		{ID: ModeObjectYZ, Caption: "Object's YZ", Slots: placedWhere,
			Tooltip: "Plane is aligned to YZ local plane of linked object."},
		{ID: ModeParallelPlane, Caption: "XY parallel to plane", Slots: []Slot{{Kinds: AcceptFace | AcceptObject}, slotVertex},
			Tooltip: "X' Y' plane is parallel to the plane (object's XY) and passes through the vertex."},
		{ID: ModeFlatFace, Caption: "Plane face", Slots: []Slot{slotFace},
			Tooltip: "Plane is aligned to coincide planar face."},
		{ID: ModeTangentPlane, Caption: "Tangent to surface", Slots: faceWhere,
			Tooltip: "Plane is made tangent to surface at vertex."},
		{ID: ModeNormalToEdge, Caption: "Normal to edge", Slots: edgeWhere,
			Tooltip: "Plane is made tangent to edge." + tipWhere},
		{ID: ModeFrenetNB, Caption: "Frenet NB", Slots: edgeWhere, Tooltip: tipFrenet},
		{ID: ModeFrenetTN, Caption: "Frenet TN", Slots: edgeWhere, Tooltip: tipFrenet},
		{ID: ModeFrenetTB, Caption: "Frenet TB", Slots: edgeWhere, Tooltip: tipFrenet},
		{ID: ModeConcentric, Caption: "Concentric", Slots: edgeWhere,
			Tooltip: "Align to plane to osculating circle of an edge. Origin is aligned to point of curvature." + tipWhere},
		{ID: ModeRevolutionSection, Caption: "Revolution Section", Slots: edgeWhere,
			Tooltip: "Plane is perpendicular to edge, and Y axis is matched with axis of osculating circle." + tipWhere},
		{ID: ModeThreePointsPlane, Caption: "Plane by 3 points", Slots: threePoints,
			Tooltip: "Align plane to pass through three vertices."},
		{ID: ModeThreePointsNormal, Caption: "Normal to 3 points", Slots: threePoints,
			Tooltip: "Plane will pass through first two vertices, and perpendicular to plane that passes through three vertices."},
		{ID: ModeFolding, Caption: "Folding", Slots: foldingEdges,
			Tooltip: tipFolding + " Plane will be aligned to folding the first edge."},
		{ID: ModeInertia23, Caption: "Inertia 2-3", Slots: massRefs,
			Tooltip: "Plane constructed on second and third principal axes of inertia (passes through center of mass)."},
		align(ModeAlignONX, "O-N-X", "normal and horizontal plane axis"),
		align(ModeAlignONY, "O-N-Y", "normal and vertical plane axis"),
		align(ModeAlignOXY, "O-X-Y", "horizontal and vertical plane axes"),
		align(ModeAlignOXN, "O-X-N", "horizontal plane axis and normal"),
		align(ModeAlignOYN, "O-Y-N", "vertical plane axis and normal"),
		align(ModeAlignOYX, "O-Y-X", "vertical and horizontal plane axes"),
	}
}

func frameModes() []*Mode {
	align := func(id ModeID, a, b string) *Mode {
		return &Mode{ID: id, Caption: "Align O-" + a + "-" + b, Slots: alignRefs,
			Tooltip: "Match origin with first Vertex. Align " + a + "' and " + b + "' axes towards vertex/along line."}
	}
	return []*Mode{
		deactivated("Object"),
		{ID: ModeTranslateOrigin, Caption: "Translate origin", Slots: []Slot{slotVertex},
			Tooltip: "Origin is aligned to match Vertex. Orientation is controlled by Placement property."},
		{ID: ModeObjectXYZ, Caption: "Object's X Y Z", Slots: placedWhere,
			Tooltip: "Placement is made equal to Placement of linked object."},
		{ID: ModeObjectXZY, Caption: "Object's X Z Y", Slots: placedWhere,
			Tooltip: "X', Y', Z' axes are matched with object's local X, Z, -Y, respectively."},
		{ID: ModeObjectYZX, Caption: "Object's Y Z X", Slots: placedWhere,
			Tooltip: "X', Y', Z' axes are matched with object's local Y, Z, X, respectively."},
		{ID: ModeParallelPlane, Caption: "XY parallel to plane", Slots: []Slot{{Kinds: AcceptFace | AcceptObject}, slotVertex},
			Tooltip: "X' Y' plane is parallel to the plane (object's XY) and passes through the vertex."},
		{ID: ModeFlatFace, Caption: "XY on plane", Slots: []Slot{slotFace},
			Tooltip: "X' Y' plane is aligned to coincide planar face."},
		{ID: ModeTangentPlane, Caption: "XY tangent to surface", Slots: faceWhere,
			Tooltip: "X' Y' plane is made tangent to surface at vertex."},
		{ID: ModeNormalToEdge, Caption: "Z tangent to edge", Slots: edgeWhere,
			Tooltip: "Z' axis is aligned to be tangent to edge." + tipWhere},
		{ID: ModeFrenetNBT, Caption: "Frenet NBT", Slots: edgeWhere, Tooltip: tipFrenet},
		{ID: ModeFrenetTNB, Caption: "Frenet TNB", Slots: edgeWhere, Tooltip: tipFrenet},
		{ID: ModeFrenetTBN, Caption: "Frenet TBN", Slots: edgeWhere, Tooltip: tipFrenet},
		{ID: ModeConcentric, Caption: "Concentric", Slots: edgeWhere,
			Tooltip: "Align XY plane to osculating circle of an edge." + tipWhere},
		{ID: ModeRevolutionSection, Caption: "Revolution Section", Slots: edgeWhere,
			Tooltip: "Align Y' axis to match axis of osculating circle of an edge." + tipWhere},
		{ID: ModeThreePointsPlane, Caption: "XY plane by 3 points", Slots: threePoints,
			Tooltip: "Align XY plane to pass through three vertices."},
		{ID: ModeThreePointsNormal, Caption: "XZ plane by 3 points", Slots: threePoints,
			Tooltip: "Align XZ plane to pass through 3 points; X axis will pass through two first points."},
		{ID: ModeFolding, Caption: "Folding", Slots: foldingEdges,
			Tooltip: tipFolding + " XY plane will be aligned to folding the first edge."},
		{ID: ModeInertialCS, Caption: "Inertial CS", Slots: massRefs,
			Tooltip: "Inertial coordinate system, constructed on principal axes of inertia and center of mass."},
		align(ModeAlignOZX, "Z", "X"),
		align(ModeAlignOZY, "Z", "Y"),
		align(ModeAlignOXY, "X", "Y"),
		align(ModeAlignOXZ, "X", "Z"),
		align(ModeAlignOYZ, "Y", "Z"),
		align(ModeAlignOYX, "Y", "X"),
	}
}

type modeKey struct {
	dim Dimension
	id  ModeID
}

// Registry is the static table of attachment modes, in display order per
// dimension. It is immutable after construction and safe for concurrent use.
type Registry struct {
	byDim [DimFrame + 1][]*Mode
	index map[modeKey]*Mode
}

// NewRegistry builds the registry of all built-in modes.
func NewRegistry() *Registry {
	r := &Registry{index: make(map[modeKey]*Mode)}
	for dim, modes := range map[Dimension][]*Mode{
		DimPoint: pointModes(),
		DimLine:  lineModes(),
		DimPlane: planeModes(),
		DimFrame: frameModes(),
	} {
		for _, m := range modes {
			m.Dim = dim
			r.index[modeKey{dim, m.ID}] = m
		}
		r.byDim[dim] = modes
	}
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared built-in registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Lookup returns a copy of the mode with the given id in dim.
func (r *Registry) Lookup(dim Dimension, id ModeID) (*Mode, error) {
	m, err := r.lookup(dim, id)
	if err != nil {
		return nil, err
	}
	return m.clone(), nil
}

// lookup returns the shared entry; callers must not modify it.
func (r *Registry) lookup(dim Dimension, id ModeID) (*Mode, error) {
	if m, ok := r.index[modeKey{dim, id}]; ok {
		return m, nil
	}
	return nil, &Error{Kind: KindUnknownMode, Mode: id, Message: fmt.Sprintf("no %s mode", dim)}
}

// Modes returns copies of all modes of dim in display order.
func (r *Registry) Modes(dim Dimension) []*Mode {
	if dim < DimPoint || dim > DimFrame {
		return nil
	}
	out := make([]*Mode, len(r.byDim[dim]))
	for i, m := range r.byDim[dim] {
		out[i] = m.clone()
	}
	return out
}

func (m *Mode) clone() *Mode {
	c := *m
	c.Slots = slices.Clone(m.Slots)
	return &c
}

// ApplicableModes lists, in display order, the modes of dim whose slots
// accept kinds. Deactivated is never listed.
func (r *Registry) ApplicableModes(dim Dimension, kinds []RefKind) []ModeID {
	if dim < DimPoint || dim > DimFrame {
		return nil
	}
	var ids []ModeID
	for _, m := range r.byDim[dim] {
		if m.ID != ModeDeactivated && m.Accepts(kinds) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
