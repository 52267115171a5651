package attach

import (
	"fmt"
	"strings"
)

// Dimension is what an attachment mode produces.
type Dimension int

const (
	DimPoint Dimension = iota
	DimLine
	DimPlane
	DimFrame
)

func (d Dimension) String() string {
	switch d {
	case DimPoint:
		return "point"
	case DimLine:
		return "line"
	case DimPlane:
		return "plane"
	case DimFrame:
		return "frame"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// ParseDimension parses a dimension name as printed by String.
func ParseDimension(s string) (Dimension, error) {
	for d := DimPoint; d <= DimFrame; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q (want point, line, plane or frame)", s)
}

// ModeID names an attachment mode. Ids are unique within a dimension; the
// same id may exist in several dimensions with analogous meaning.
type ModeID string

const (
	ModeDeactivated ModeID = "Deactivated"

	// Origin and object alignment.
	ModeTranslateOrigin ModeID = "TranslateOrigin"
	ModeObjectOrigin    ModeID = "ObjectOrigin"
	ModeVertex          ModeID = "Vertex"
	ModeObjectX         ModeID = "ObjectX"
	ModeObjectY         ModeID = "ObjectY"
	ModeObjectZ         ModeID = "ObjectZ"
	ModeObjectXY        ModeID = "ObjectXY"
	ModeObjectXZ        ModeID = "ObjectXZ"
	ModeObjectYZ        ModeID = "ObjectYZ"
	ModeObjectXYZ       ModeID = "ObjectXYZ"
	ModeObjectXZY       ModeID = "ObjectXZY"
	ModeObjectYZX       ModeID = "ObjectYZX"

	// Conics.
	ModeFocus1     ModeID = "Focus1"
	ModeFocus2     ModeID = "Focus2"
	ModeDirectrix1 ModeID = "Directrix1"
	ModeDirectrix2 ModeID = "Directrix2"
	ModeAsymptote1 ModeID = "Asymptote1"
	ModeAsymptote2 ModeID = "Asymptote2"

	// Curves.
	ModeOnEdge            ModeID = "OnEdge"
	ModeCenterOfCurvature ModeID = "CenterOfCurvature"
	ModeAxisOfCurvature   ModeID = "AxisOfCurvature"
	ModeTangent           ModeID = "Tangent"
	ModeNormal            ModeID = "Normal"
	ModeBinormal          ModeID = "Binormal"
	ModeNormalToEdge      ModeID = "NormalToEdge"
	ModeFrenetNB          ModeID = "FrenetNB"
	ModeFrenetTN          ModeID = "FrenetTN"
	ModeFrenetTB          ModeID = "FrenetTB"
	ModeFrenetNBT         ModeID = "FrenetNBT"
	ModeFrenetTNB         ModeID = "FrenetTNB"
	ModeFrenetTBN         ModeID = "FrenetTBN"
	ModeConcentric        ModeID = "Concentric"
	ModeRevolutionSection ModeID = "RevolutionSection"

	// Surfaces.
	ModeTangentU        ModeID = "TangentU"
	ModeTangentV        ModeID = "TangentV"
	ModeNormalToSurface ModeID = "NormalToSurface"
	ModeTangentPlane    ModeID = "TangentPlane"
	ModeFlatFace        ModeID = "FlatFace"
	ModeParallelPlane   ModeID = "ParallelPlane"
	ModeIntersection    ModeID = "Intersection"

	// Points and proximity.
	ModeTwoPointLine      ModeID = "TwoPointLine"
	ModeThreePointsPlane  ModeID = "ThreePointsPlane"
	ModeThreePointsNormal ModeID = "ThreePointsNormal"
	ModeProximity         ModeID = "Proximity"
	ModeProximity1        ModeID = "Proximity1"
	ModeProximity2        ModeID = "Proximity2"

	// Mass.
	ModeCenterOfMass ModeID = "CenterOfMass"
	ModeInertia1     ModeID = "Inertia1"
	ModeInertia2     ModeID = "Inertia2"
	ModeInertia3     ModeID = "Inertia3"
	ModeInertia23    ModeID = "Inertia23"
	ModeInertialCS   ModeID = "InertialCS"

	ModeFolding ModeID = "Folding"

	// Frames by origin and two directions.
	ModeAlignOZX ModeID = "AlignOZX"
	ModeAlignOZY ModeID = "AlignOZY"
	ModeAlignOXY ModeID = "AlignOXY"
	ModeAlignOXZ ModeID = "AlignOXZ"
	ModeAlignOYZ ModeID = "AlignOYZ"
	ModeAlignOYX ModeID = "AlignOYX"

	// Planes by origin and two directions; N is the plane normal.
	ModeAlignONX ModeID = "AlignONX"
	ModeAlignONY ModeID = "AlignONY"
	ModeAlignOXN ModeID = "AlignOXN"
	ModeAlignOYN ModeID = "AlignOYN"
)

// Slot constrains one reference position of a mode.
type Slot struct {
	Kinds    Kinds
	Optional bool
}

// Mode is an immutable registry entry.
type Mode struct {
	Dim     Dimension
	ID      ModeID
	Caption string
	Tooltip string
	Slots   []Slot
}

// MinRefs is the number of required slots.
func (m *Mode) MinRefs() int {
	n := 0
	for _, s := range m.Slots {
		if !s.Optional {
			n++
		}
	}
	return n
}

// MaxRefs is the total number of slots.
func (m *Mode) MaxRefs() int { return len(m.Slots) }

func (m *Mode) String() string {
	return m.Dim.String() + "/" + string(m.ID)
}

// Accepts reports whether kinds satisfy the mode's slots.
func (m *Mode) Accepts(kinds []RefKind) bool {
	return m.check(kinds) == nil
}

// Validate checks references structurally against the slots of m. It never
// evaluates geometry.
func (m *Mode) Validate(refs []Reference) error {
	kinds := make([]RefKind, len(refs))
	for i, r := range refs {
		kinds[i] = r.Kind
	}
	return m.check(kinds)
}

func (m *Mode) check(kinds []RefKind) error {
	if len(kinds) < m.MinRefs() {
		return &Error{Kind: KindTooFewReferences, Mode: m.ID,
			Message: fmt.Sprintf("need at least %d, got %d", m.MinRefs(), len(kinds))}
	}
	if len(kinds) > m.MaxRefs() {
		return &Error{Kind: KindTooManyReferences, Mode: m.ID,
			Message: fmt.Sprintf("accepts at most %d, got %d", m.MaxRefs(), len(kinds))}
	}
	for i, k := range kinds {
		if !m.Slots[i].Kinds.Has(k) {
			return &Error{Kind: KindWrongReferenceKind, Mode: m.ID, Slot: i + 1,
				Expected: m.Slots[i].Kinds, Got: k}
		}
	}
	return nil
}
