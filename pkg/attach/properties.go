package attach

import (
	"fmt"
	"math"

	"github.com/chazu/jig/internal/codec"
	"github.com/chazu/jig/pkg/geom"
)

// PlacementProps is the persisted form of a placement: the origin and the
// rotation columns, stored exactly.
type PlacementProps struct {
	Origin   [3]float64 `cbor:"1,keyasint"`
	Rotation [9]float64 `cbor:"2,keyasint"`
}

// PlacementPropsOf converts a placement to its persisted form.
func PlacementPropsOf(p geom.Placement) PlacementProps {
	r := p.Rotation
	return PlacementProps{
		Origin:   [3]float64{p.Origin.X, p.Origin.Y, p.Origin.Z},
		Rotation: [9]float64{r.X.X, r.X.Y, r.X.Z, r.Y.X, r.Y.Y, r.Y.Z, r.Z.X, r.Z.Y, r.Z.Z},
	}
}

// Placement converts back, treating an all-zero rotation as the identity.
func (pp PlacementProps) Placement() geom.Placement {
	r := pp.Rotation
	rot := geom.Rotation{
		X: geom.Vec{X: r[0], Y: r[1], Z: r[2]},
		Y: geom.Vec{X: r[3], Y: r[4], Z: r[5]},
		Z: geom.Vec{X: r[6], Y: r[7], Z: r[8]},
	}
	if rot == (geom.Rotation{}) {
		rot = geom.Identity()
	}
	return geom.At(geom.Vec{X: pp.Origin[0], Y: pp.Origin[1], Z: pp.Origin[2]}, rot)
}

// Properties is the persisted state of an AttachedObject: its inputs, the
// manual placement and the last good placement.
type Properties struct {
	Dimension  Dimension      `cbor:"1,keyasint"`
	Mode       ModeID         `cbor:"2,keyasint,omitempty"`
	References []Selection    `cbor:"3,keyasint,omitempty"`
	Offset     PlacementProps `cbor:"4,keyasint"`
	Flip       bool           `cbor:"5,keyasint,omitempty"`
	PathParam  float64        `cbor:"6,keyasint,omitempty"`
	Manual     PlacementProps `cbor:"7,keyasint"`
	Placement  PlacementProps `cbor:"8,keyasint"`
}

// Properties captures the persistable state of o.
func (o *AttachedObject) Properties() Properties {
	off := o.offset.Placement()
	return Properties{
		Dimension:  o.dim,
		Mode:       o.mode,
		References: o.References(),
		Offset:     PlacementPropsOf(off),
		Flip:       o.flip,
		PathParam:  o.pathParam,
		Manual:     PlacementPropsOf(o.manual),
		Placement:  PlacementPropsOf(o.placement),
	}
}

// ApplyProperties restores persisted state after checking the dimension,
// the mode, the reference count and the path parameter. The object is left
// Unattached until the next recompute.
func (o *AttachedObject) ApplyProperties(p Properties) error {
	if p.Dimension < DimPoint || p.Dimension > DimFrame {
		return fmt.Errorf("properties: invalid dimension %d", int(p.Dimension))
	}
	if len(p.References) > MaxReferences {
		return fmt.Errorf("properties: %d references, at most %d", len(p.References), MaxReferences)
	}
	if math.IsNaN(p.PathParam) || p.PathParam < 0 || p.PathParam > 1 {
		return fmt.Errorf("properties: path parameter %g outside [0, 1]", p.PathParam)
	}
	mode := p.Mode
	if mode == "" {
		mode = ModeDeactivated
	}
	if _, err := DefaultRegistry().Lookup(p.Dimension, mode); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	off := p.Offset.Placement()
	*o = AttachedObject{
		dim:       p.Dimension,
		mode:      mode,
		refs:      append([]Selection(nil), p.References...),
		offset:    Offset{Translation: off.Origin, Rotation: off.Rotation},
		flip:      p.Flip,
		pathParam: p.PathParam,
		manual:    p.Manual.Placement(),
		placement: p.Placement.Placement(),
	}
	return nil
}

// MarshalProperties encodes the properties of o as deterministic CBOR.
func (o *AttachedObject) MarshalProperties() ([]byte, error) {
	return codec.Marshal(o.Properties())
}

// UnmarshalProperties decodes CBOR produced by MarshalProperties into o.
func (o *AttachedObject) UnmarshalProperties(data []byte) error {
	var p Properties
	if err := codec.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode attachment properties: %w", err)
	}
	return o.ApplyProperties(p)
}
