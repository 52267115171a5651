package document

import (
	"fmt"
	"slices"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/kernel"
)

// ValidationSeverity indicates whether a finding blocks recompute of the
// object or is advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // the attachment cannot solve
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ObjectID ObjectID           // which object has the problem (zero if document-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ObjectID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] object %s: %s", e.Severity, e.ObjectID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	ObjectID ObjectID
	Message  string
}

// ValidationResult separates blocking errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural checks: dependency cycles, dangling
// references and sub-elements that do not exist. It never touches the
// geometry kernel and never mutates d.
func Validate(d *Document) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(d)...)
	errs = append(errs, validateReferences(d)...)
	errs = append(errs, validateModes(d)...)
	return errs
}

// ValidateAll runs Validate and sorts its findings by severity.
func ValidateAll(d *Document) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(d) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{ObjectID: e.ObjectID, Message: e.Message})
			continue
		}
		result.Errors = append(result.Errors, e)
	}
	return result
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White = unvisited, gray = on the current path, black = fully explored.
// Reaching a gray object closes a cycle.
func validateDAG(d *Document) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[ObjectID]int)
	var errs []ValidationError

	var visit func(id ObjectID) bool
	visit = func(id ObjectID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				ObjectID: id,
				Message:  fmt.Sprintf("cycle detected: object %s depends on itself", id.Short()),
				Severity: SeverityError,
			})
			return true
		}
		color[id] = gray
		o := d.objects[id]
		if o == nil {
			// Dangling; reported by validateReferences.
			color[id] = black
			return false
		}
		for _, dep := range o.Dependencies() {
			if visit(dep) {
				return true
			}
		}
		color[id] = black
		return false
	}

	// Visit in insertion order so the reported object is stable.
	for _, id := range d.order {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every selection names an existing object
// and sub-element.
func validateReferences(d *Document) []ValidationError {
	var errs []ValidationError
	for _, o := range d.Objects() {
		if o.Attachment == nil {
			continue
		}
		for i, s := range o.Attachment.References() {
			target := d.objects[ObjectID(s.Object)]
			if target == nil {
				errs = append(errs, ValidationError{
					ObjectID: o.ID,
					Message:  fmt.Sprintf("reference %d: object %q does not exist", i+1, s.Object),
					Severity: SeverityError,
				})
				continue
			}
			kind, idx, err := attach.ParseSubElement(s.Sub)
			if err != nil {
				errs = append(errs, ValidationError{
					ObjectID: o.ID,
					Message:  fmt.Sprintf("reference %d: %v", i+1, err),
					Severity: SeverityError,
				})
				continue
			}
			if n, ek, ok := elementCount(target.Shape, kind); ok && idx > n {
				errs = append(errs, ValidationError{
					ObjectID: o.ID,
					Message:  fmt.Sprintf("reference %d: %s has %d %s elements, no %s", i+1, s.Object, n, ek, s.Sub),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

func elementCount(s *kernel.Shape, k attach.RefKind) (int, kernel.ElementKind, bool) {
	var ek kernel.ElementKind
	switch k {
	case attach.RefVertex:
		ek = kernel.ElementVertex
	case attach.RefEdge:
		ek = kernel.ElementEdge
	case attach.RefFace:
		ek = kernel.ElementFace
	default:
		return 0, 0, false
	}
	return s.Count(ek), ek, true
}

// validateModes reports unknown modes and reference kinds the selected mode
// does not accept as errors, and references held while deactivated as
// warnings.
func validateModes(d *Document) []ValidationError {
	reg := attach.DefaultRegistry()
	var errs []ValidationError
	for _, o := range d.Objects() {
		a := o.Attachment
		if a == nil {
			continue
		}
		if !a.IsActive() {
			if len(a.References()) > 0 {
				errs = append(errs, ValidationError{
					ObjectID: o.ID,
					Message:  "attachment is deactivated; its references are ignored",
					Severity: SeverityWarning,
				})
			}
			continue
		}
		m, err := reg.Lookup(a.Dimension(), a.Mode())
		if err != nil {
			errs = append(errs, ValidationError{ObjectID: o.ID, Message: err.Error(), Severity: SeverityError})
			continue
		}
		kinds, err := attach.KindsOf(a.References())
		if err != nil {
			// Reported by validateReferences.
			continue
		}
		if !m.Accepts(kinds) {
			applicable := reg.ApplicableModes(a.Dimension(), kinds)
			msg := fmt.Sprintf("mode %s does not accept %d reference(s) of kinds %v", m, len(kinds), kinds)
			if len(applicable) > 0 {
				msg += fmt.Sprintf("; applicable: %v", applicable)
			}
			errs = append(errs, ValidationError{ObjectID: o.ID, Message: msg, Severity: SeverityError})
		}
		if slices.Contains(o.Dependencies(), o.ID) {
			// Also reported as a cycle.
			errs = append(errs, ValidationError{
				ObjectID: o.ID,
				Message:  "attachment references its own object",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
