package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/jig/pkg/geom"
)

// DefaultSamples is the sample count used by the numeric queries when a
// backend does not configure one.
const DefaultSamples = 64

// ErrZeroLength is returned for arc-length queries on a curve of zero length.
var ErrZeroLength = errors.New("kernel: curve has zero length")

// ProjectCurve returns the parameter of the point on c closest to p.
// Lines and circles project onto the unbounded underlying curve in closed
// form; other curves are sampled over their domain and refined with Newton
// steps, staying inside the domain.
func ProjectCurve(c Curve, p geom.Vec, samples int) float64 {
	if cp, ok := c.(curveProjector); ok {
		return cp.project(p)
	}
	if samples < 2 {
		samples = DefaultSamples
	}
	t0, t1 := c.Domain()
	best, bestD := t0, math.Inf(1)
	for i := 0; i <= samples; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(samples)
		if d := c.Value(t).Sub(p).Length(); d < bestD {
			best, bestD = t, d
		}
	}
	t := best
	for i := 0; i < 32; i++ {
		r := c.Value(t).Sub(p)
		d1 := c.D1(t)
		g := d1.Dot(r)
		h := c.D2(t).Dot(r) + d1.Dot(d1)
		if h <= 0 {
			break
		}
		next := clamp(t-g/h, t0, t1)
		if math.Abs(next-t) < 1e-14*(1+math.Abs(t)) {
			t = next
			break
		}
		t = next
	}
	if c.Value(t).Sub(p).Length() > bestD {
		return best
	}
	return t
}

// ClampParam limits t to the domain of c.
func ClampParam(c Curve, t float64) float64 {
	t0, t1 := c.Domain()
	return clamp(t, t0, t1)
}

// ArcLength returns the length of c between t0 and t1 by composite Simpson
// integration over n intervals.
func ArcLength(c Curve, t0, t1 float64, n int) float64 {
	return simpson(t0, t1, n, func(t float64) float64 { return c.D1(t).Length() })
}

// ParamAtFraction returns the parameter at fraction f of the arc length of c,
// measured from the domain start.
func ParamAtFraction(c Curve, f float64, n int) (float64, error) {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return 0, fmt.Errorf("kernel: path fraction %g outside [0, 1]", f)
	}
	t0, t1 := c.Domain()
	if l, ok := c.(Line); ok {
		return l.T0 + f*(l.T1-l.T0), nil
	}
	total := ArcLength(c, t0, t1, n)
	if total <= geom.Tolerance {
		return 0, ErrZeroLength
	}
	target := f * total
	lo, hi := t0, t1
	for i := 0; i < 60 && hi-lo > 1e-13*(1+math.Abs(hi)); i++ {
		mid := (lo + hi) / 2
		if ArcLength(c, t0, mid, n) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// simpson integrates f over [a, b] with the composite Simpson rule.
func simpson(a, b float64, n int, f func(float64) float64) float64 {
	if n < 2 {
		n = DefaultSamples
	}
	if n%2 == 1 {
		n++
	}
	h := (b - a) / float64(n)
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		w := 2.0
		if i%2 == 1 {
			w = 4
		}
		sum += w * f(a+float64(i)*h)
	}
	return sum * h / 3
}

// simpsonWeights returns the n+1 node offsets and weights of the composite
// Simpson rule over [a, b].
func simpsonWeights(a, b float64, n int) ([]float64, []float64) {
	if n < 2 {
		n = DefaultSamples
	}
	if n%2 == 1 {
		n++
	}
	h := (b - a) / float64(n)
	xs := make([]float64, n+1)
	ws := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		xs[i] = a + float64(i)*h
		switch {
		case i == 0 || i == n:
			ws[i] = h / 3
		case i%2 == 1:
			ws[i] = 4 * h / 3
		default:
			ws[i] = 2 * h / 3
		}
	}
	return xs, ws
}

func clamp(x, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, x))
}
