package document

import (
	"fmt"

	"github.com/chazu/jig/internal/codec"
	"github.com/chazu/jig/pkg/attach"
)

// snapshotVersion is bumped when the record layout changes incompatibly.
const snapshotVersion = 1

// ObjectRecord is the persisted state of one object. Geometry is not
// stored; it comes from the script that built the document.
type ObjectRecord struct {
	ID         ObjectID              `cbor:"1,keyasint"`
	Label      string                `cbor:"2,keyasint,omitempty"`
	Placement  attach.PlacementProps `cbor:"3,keyasint"`
	Attachment *attach.Properties    `cbor:"4,keyasint,omitempty"`
}

// Snapshot is the persisted state of a document.
type Snapshot struct {
	Version int            `cbor:"1,keyasint"`
	Objects []ObjectRecord `cbor:"2,keyasint"`
}

// Snapshot captures the placements and attachment state of all objects.
func (d *Document) Snapshot() Snapshot {
	snap := Snapshot{Version: snapshotVersion}
	for _, o := range d.Objects() {
		rec := ObjectRecord{ID: o.ID, Label: o.Label}
		if o.Attachment != nil {
			p := o.Attachment.Properties()
			rec.Attachment = &p
			rec.Placement = p.Placement
		} else {
			rec.Placement = attach.PlacementPropsOf(o.placement)
		}
		snap.Objects = append(snap.Objects, rec)
	}
	return snap
}

// Restore applies a snapshot to the objects of d with matching ids. Every
// record must name an existing object; nothing is changed on error.
func (d *Document) Restore(snap Snapshot) error {
	if snap.Version != snapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", snap.Version, snapshotVersion)
	}
	for _, rec := range snap.Objects {
		if d.objects[rec.ID] == nil {
			return fmt.Errorf("snapshot names unknown object %q", rec.ID)
		}
	}

	staged := make(map[ObjectID]*attach.AttachedObject)
	for _, rec := range snap.Objects {
		if rec.Attachment == nil {
			continue
		}
		a := attach.NewAttachedObject(rec.Attachment.Dimension)
		if err := a.ApplyProperties(*rec.Attachment); err != nil {
			return fmt.Errorf("object %q: %w", rec.ID, err)
		}
		staged[rec.ID] = a
	}

	for _, rec := range snap.Objects {
		o := d.objects[rec.ID]
		o.Label = rec.Label
		if a, ok := staged[rec.ID]; ok {
			o.Attachment = a
			continue
		}
		o.Attachment = nil
		o.placement = rec.Placement.Placement()
	}
	d.Version++
	return nil
}

// MarshalSnapshot encodes the document state as deterministic CBOR.
func (d *Document) MarshalSnapshot() ([]byte, error) {
	return codec.Marshal(d.Snapshot())
}

// UnmarshalSnapshot decodes CBOR from MarshalSnapshot and restores it.
func (d *Document) UnmarshalSnapshot(data []byte) error {
	var snap Snapshot
	if err := codec.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return d.Restore(snap)
}
