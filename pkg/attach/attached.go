package attach

import (
	"fmt"
	"math"

	"github.com/chazu/jig/pkg/geom"
)

// State is the attachment status of an object.
type State int

const (
	// Unattached: deactivated; the placement is whatever was last set.
	Unattached State = iota
	// Attached: the last solve succeeded and the placement reflects it.
	Attached
	// AttachmentError: the last validation or solve failed; the placement
	// keeps its last good value.
	AttachmentError
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Attached:
		return "attached"
	case AttachmentError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AttachedObject is the attachment state of one dependent object. It is not
// safe for concurrent mutation.
type AttachedObject struct {
	dim       Dimension
	mode      ModeID
	refs      []Selection
	offset    Offset
	flip      bool
	pathParam float64
	manual    geom.Placement
	placement geom.Placement
	state     State
	err       error
}

// NewAttachedObject returns a deactivated attachment producing dim, at the
// identity placement.
func NewAttachedObject(dim Dimension) *AttachedObject {
	return &AttachedObject{
		dim:       dim,
		mode:      ModeDeactivated,
		offset:    IdentityOffset(),
		manual:    geom.IdentityPlacement(),
		placement: geom.IdentityPlacement(),
	}
}

func (o *AttachedObject) Dimension() Dimension { return o.dim }
func (o *AttachedObject) Mode() ModeID         { return o.mode }
func (o *AttachedObject) Offset() Offset       { return o.offset }
func (o *AttachedObject) Flip() bool           { return o.flip }
func (o *AttachedObject) PathParameter() float64 {
	return o.pathParam
}

// References returns a copy of the ordered selections.
func (o *AttachedObject) References() []Selection {
	return append([]Selection(nil), o.refs...)
}

// Placement returns the last computed or directly set placement.
func (o *AttachedObject) Placement() geom.Placement { return o.placement }

// ManualPlacement returns the placement last set by SetPlacement.
func (o *AttachedObject) ManualPlacement() geom.Placement { return o.manual }

func (o *AttachedObject) State() State { return o.state }

// Err returns the error of the last recompute, nil when attached.
func (o *AttachedObject) Err() error { return o.err }

// IsActive reports whether a mode other than Deactivated is selected.
func (o *AttachedObject) IsActive() bool {
	return o.mode != "" && o.mode != ModeDeactivated
}

// SetMode selects the mode; the id is checked at the next recompute.
func (o *AttachedObject) SetMode(id ModeID) { o.mode = id }

// SetReferences replaces the ordered selections.
func (o *AttachedObject) SetReferences(sels ...Selection) error {
	if len(sels) > MaxReferences {
		return &Error{Kind: KindTooManyReferences, Mode: o.mode,
			Message: fmt.Sprintf("at most %d references, got %d", MaxReferences, len(sels))}
	}
	o.refs = append([]Selection(nil), sels...)
	return nil
}

func (o *AttachedObject) SetOffset(off Offset) { o.offset = off }
func (o *AttachedObject) SetFlip(flip bool)    { o.flip = flip }

// SetPathParameter sets the arc-length fraction used by OnEdge.
func (o *AttachedObject) SetPathParameter(f float64) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return fmt.Errorf("path parameter %g outside [0, 1]", f)
	}
	o.pathParam = f
	return nil
}

// SetPlacement records a direct placement edit. It becomes the current
// placement and supplies the rotation of origin-only modes.
func (o *AttachedObject) SetPlacement(p geom.Placement) {
	o.manual = p
	o.placement = p
}
