package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// CycleError is returned by Recompute when attachments depend on each other
// in a loop. No object is recomputed.
type CycleError struct {
	IDs []ObjectID
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		names[i] = string(id)
	}
	return "document: attachment cycle among " + strings.Join(names, ", ")
}

// Result is the outcome of recomputing one attached object.
type Result struct {
	ID        ObjectID
	Level     int
	State     attach.State
	Placement geom.Placement
	Err       error
}

// Report summarizes a recompute.
type Report struct {
	Results  []Result
	Levels   int
	Duration time.Duration
}

// Failed returns the results whose attachment errored.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.State == attach.AttachmentError {
			out = append(out, res)
		}
	}
	return out
}

// Result returns the outcome for id.
func (r *Report) Result(id ObjectID) (Result, bool) {
	for _, res := range r.Results {
		if res.ID == id {
			return res, true
		}
	}
	return Result{}, false
}

type recomputeConfig struct {
	parallelism int
	engineOpts  []attach.EngineOption
}

// RecomputeOption configures Recompute.
type RecomputeOption func(*recomputeConfig)

// WithParallelism bounds the number of objects solved at once within a
// level. Values below 1 mean GOMAXPROCS.
func WithParallelism(n int) RecomputeOption {
	return func(c *recomputeConfig) { c.parallelism = n }
}

// WithEngineOptions passes options to the attachment engine.
func WithEngineOptions(opts ...attach.EngineOption) RecomputeOption {
	return func(c *recomputeConfig) { c.engineOpts = append(c.engineOpts, opts...) }
}

// Levels groups the attached objects by dependency depth: level 0 depends
// only on free objects, level n on objects below n. Objects within a level
// are in insertion order. A cycle yields a *CycleError.
func (d *Document) Levels() ([][]ObjectID, error) {
	level := make(map[ObjectID]int)
	pending := make([]ObjectID, 0, len(d.order))
	for _, id := range d.order {
		if d.objects[id].Attachment != nil {
			pending = append(pending, id)
		}
	}

	var levels [][]ObjectID
	for len(pending) > 0 {
		var ready, rest []ObjectID
		for _, id := range pending {
			if d.depsLeveled(id, level) {
				ready = append(ready, id)
			} else {
				rest = append(rest, id)
			}
		}
		if len(ready) == 0 {
			return nil, &CycleError{IDs: rest}
		}
		n := len(levels)
		for _, id := range ready {
			level[id] = n
		}
		levels = append(levels, ready)
		pending = rest
	}
	return levels, nil
}

// depsLeveled reports whether every attached dependency of id already has
// a level. Free and missing objects do not count.
func (d *Document) depsLeveled(id ObjectID, level map[ObjectID]int) bool {
	for _, dep := range d.objects[id].Dependencies() {
		o := d.objects[dep]
		if o == nil || o.Attachment == nil {
			continue
		}
		if _, ok := level[dep]; !ok {
			return false
		}
	}
	return true
}

// Recompute solves every attached object in dependency order. Objects of
// one level run concurrently, bounded by the parallelism option; a level
// starts only after the previous one has written back its placements.
//
// Attachment failures do not stop the recompute: the object keeps its last
// placement and its dependents solve against it. Failures are listed in
// the report. The returned error is non-nil only for a cycle or a
// cancelled context.
func (d *Document) Recompute(ctx context.Context, k kernel.Kernel, opts ...RecomputeOption) (*Report, error) {
	cfg := recomputeConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = runtime.GOMAXPROCS(0)
	}

	levels, err := d.Levels()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	eng := attach.NewEngine(d, k, cfg.engineOpts...)
	report := &Report{Levels: len(levels)}

	for lvl, ids := range levels {
		results := make([]Result, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.parallelism)
		for i, id := range ids {
			obj := d.objects[id]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				p, err := eng.Recompute(obj.Attachment)
				if errors.Is(err, attach.ErrNotAttached) {
					err = nil
				}
				results[i] = Result{
					ID:        id,
					Level:     lvl,
					State:     obj.Attachment.State(),
					Placement: p,
					Err:       err,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("recompute level %d: %w", lvl, err)
		}
		report.Results = append(report.Results, results...)
	}
	report.Duration = time.Since(start)

	attach.Logger().Info("document recomputed",
		slog.Int("objects", len(report.Results)),
		slog.Int("levels", report.Levels),
		slog.Int("failed", len(report.Failed())),
		slog.Duration("took", report.Duration))
	return report, nil
}

// Dependents returns the attached objects that depend on id directly or
// through other attachments, in insertion order.
func (d *Document) Dependents(id ObjectID) []ObjectID {
	reached := map[ObjectID]bool{id: true}
	changed := true
	for changed {
		changed = false
		for _, oid := range d.order {
			if reached[oid] {
				continue
			}
			for _, dep := range d.objects[oid].Dependencies() {
				if reached[dep] {
					reached[oid] = true
					changed = true
					break
				}
			}
		}
	}
	var out []ObjectID
	for _, oid := range d.order {
		if oid != id && reached[oid] {
			out = append(out, oid)
		}
	}
	return slices.Clip(out)
}
