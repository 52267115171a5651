package attach

import (
	"errors"
	"log/slog"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// Engine runs attachments against a geometry store: validate, resolve,
// solve, compose. It holds no per-object state, so one Engine may
// recompute independent objects from several goroutines as long as the
// store is not mutated meanwhile.
type Engine struct {
	store    Store
	kernel   kernel.Kernel
	registry *Registry
	tol      float64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRegistry replaces the built-in mode registry.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) { e.registry = r }
}

// WithTolerance sets the confusion distance for degeneracy checks.
func WithTolerance(tol float64) EngineOption {
	return func(e *Engine) {
		if tol > 0 {
			e.tol = tol
		}
	}
}

// NewEngine returns an engine reading geometry from store and querying k.
func NewEngine(store Store, k kernel.Kernel, opts ...EngineOption) *Engine {
	e := &Engine{store: store, kernel: k, registry: DefaultRegistry(), tol: geom.Tolerance}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Registry returns the mode registry in use.
func (e *Engine) Registry() *Registry { return e.registry }

// Recompute refreshes the placement of obj from its current inputs.
//
// A deactivated object moves to Unattached and returns its kept placement
// with ErrNotAttached. Any validation or solve failure moves it to
// AttachmentError and returns the kept placement with an *Error. On success
// the object is Attached and holds the new placement. Recomputing unchanged
// inputs yields the identical placement.
func (e *Engine) Recompute(obj *AttachedObject) (geom.Placement, error) {
	if !obj.IsActive() {
		obj.state = Unattached
		obj.err = ErrNotAttached
		return obj.placement, ErrNotAttached
	}
	p, err := e.solve(obj)
	if err != nil {
		obj.state = AttachmentError
		obj.err = err
		Logger().Warn("attachment failed", slog.String("mode", string(obj.mode)),
			slog.String("dim", obj.dim.String()), slog.Any("err", err))
		return obj.placement, err
	}
	obj.placement = p
	obj.state = Attached
	obj.err = nil
	Logger().Debug("attachment solved", slog.String("mode", string(obj.mode)),
		slog.String("dim", obj.dim.String()), slog.String("placement", p.String()))
	return p, nil
}

// Evaluate computes what Recompute would produce without touching obj.
func (e *Engine) Evaluate(obj *AttachedObject) (geom.Placement, error) {
	if !obj.IsActive() {
		return obj.placement, ErrNotAttached
	}
	return e.solve(obj)
}

func (e *Engine) solve(obj *AttachedObject) (geom.Placement, error) {
	mode, err := e.registry.lookup(obj.dim, obj.mode)
	if err != nil {
		return geom.Placement{}, err
	}
	// Kind checks come before any geometry is touched.
	kinds, err := KindsOf(obj.refs)
	if err != nil {
		return geom.Placement{}, withMode(err, mode.ID)
	}
	if err := mode.check(kinds); err != nil {
		return geom.Placement{}, err
	}
	refs, err := ResolveAll(e.store, obj.refs)
	if err != nil {
		return geom.Placement{}, withMode(err, mode.ID)
	}
	sc := SolveContext{
		Kernel:    e.kernel,
		Manual:    obj.manual,
		PathParam: obj.pathParam,
		Tolerance: e.tol,
	}
	base, err := Solve(sc, mode, refs)
	if err != nil {
		return geom.Placement{}, err
	}
	return Compose(base, obj.offset, obj.flip), nil
}

// ListApplicableModes lists the modes of dim that accept kinds, in display
// order.
func (e *Engine) ListApplicableModes(dim Dimension, kinds []RefKind) []ModeID {
	return e.registry.ApplicableModes(dim, kinds)
}

func withMode(err error, id ModeID) error {
	var ae *Error
	if errors.As(err, &ae) && ae.Mode == "" {
		ae.Mode = id
	}
	return err
}
