package attach

import (
	"fmt"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

func unsupportedCurve(c kernel.Curve, what string) *Error {
	return &Error{Kind: KindUnsupportedCurveKind, Slot: 1, Message: fmt.Sprintf("%s has no %s", c.Kind(), what)}
}

func solveFocus(i int) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		c := refs[0].Payload.(EdgePayload).Curve
		switch g := c.(type) {
		case kernel.Ellipse:
			return sc.pointAt(g.Focus(i)), nil
		case kernel.Hyperbola:
			return sc.pointAt(g.Focus(i)), nil
		case kernel.Parabola:
			if i == 1 {
				return sc.pointAt(g.Focus()), nil
			}
		}
		return geom.Placement{}, unsupportedCurve(c, fmt.Sprintf("focus %d", i))
	}
}

func solveDirectrix(i int) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		c := refs[0].Payload.(EdgePayload).Curve
		var p, dir geom.Vec
		switch g := c.(type) {
		case kernel.Ellipse:
			var ok bool
			if p, dir, ok = g.Directrix(i); !ok {
				return geom.Placement{}, newError(KindDegenerateConfiguration, "circular ellipse has no directrix")
			}
		case kernel.Hyperbola:
			p, dir = g.Directrix(i)
		case kernel.Parabola:
			if i != 1 {
				return geom.Placement{}, unsupportedCurve(c, "second directrix")
			}
			p, dir = g.Directrix()
		default:
			return geom.Placement{}, unsupportedCurve(c, "directrix")
		}
		// Keep the conic's major axis as X.
		rot, err := geom.FrameZX(dir, c.(kernel.Conic).Position().Rotation.X)
		if err != nil {
			return geom.Placement{}, degenerate(err)
		}
		return geom.At(p, rot), nil
	}
}

func solveAsymptote(i int) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		c := refs[0].Payload.(EdgePayload).Curve
		h, ok := c.(kernel.Hyperbola)
		if !ok {
			return geom.Placement{}, unsupportedCurve(c, "asymptote")
		}
		o, dir := h.Asymptote(i)
		return lineAt(o, dir)
	}
}
