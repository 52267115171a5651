package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/jig/pkg/geom"
)

// Closest returns the point of e nearest to p. Curves and surfaces are
// bounded to their domains. A Locus answers for itself.
func Closest(e Element, p geom.Vec, samples int) (geom.Vec, error) {
	switch g := e.(type) {
	case Point:
		return g.P, nil
	case Curve:
		return g.Value(ClampParam(g, ProjectCurve(g, p, samples))), nil
	case Surface:
		u, v := g.Project(p)
		u0, u1, v0, v1 := g.Domain()
		return g.Value(clamp(u, u0, u1), clamp(v, v0, v1)), nil
	case Locus:
		return g.Closest(p)
	}
	return geom.Vec{}, fmt.Errorf("%w: %T", ErrUnsupported, e)
}

// samplePoints spreads points over e for the coarse search. Elements that
// cannot be sampled return nil.
func samplePoints(e Element, n int) []geom.Vec {
	if n < 2 {
		n = DefaultSamples
	}
	switch g := e.(type) {
	case Point:
		return []geom.Vec{g.P}
	case Curve:
		t0, t1 := g.Domain()
		pts := make([]geom.Vec, 0, n+1)
		for i := 0; i <= n; i++ {
			pts = append(pts, g.Value(t0+(t1-t0)*float64(i)/float64(n)))
		}
		return pts
	case Surface:
		k := int(math.Ceil(math.Sqrt(float64(n)))) * 2
		u0, u1, v0, v1 := g.Domain()
		pts := make([]geom.Vec, 0, (k+1)*(k+1))
		for i := 0; i <= k; i++ {
			for j := 0; j <= k; j++ {
				u := u0 + (u1-u0)*float64(i)/float64(k)
				v := v0 + (v1-v0)*float64(j)/float64(k)
				pts = append(pts, g.Value(u, v))
			}
		}
		return pts
	}
	return nil
}

// Extrema returns the mutually closest points of a and b. Segment pairs are
// solved in closed form; everything else is a coarse sampled search refined
// by alternating projection. At least one of a and b must be a Point, Curve
// or Surface.
func Extrema(a, b Element, samples int, tol float64) (geom.Vec, geom.Vec, error) {
	if la, ok := a.(Line); ok {
		if lb, ok := b.(Line); ok {
			pa, pb := segmentClosest(la, lb)
			return pa, pb, nil
		}
	}

	var pa, pb geom.Vec
	best := math.Inf(1)
	for _, s := range samplePoints(a, samples) {
		q, err := Closest(b, s, samples)
		if err != nil {
			return geom.Vec{}, geom.Vec{}, err
		}
		if d := s.Sub(q).Length(); d < best {
			best, pa, pb = d, s, q
		}
	}
	for _, s := range samplePoints(b, samples) {
		q, err := Closest(a, s, samples)
		if err != nil {
			return geom.Vec{}, geom.Vec{}, err
		}
		if d := s.Sub(q).Length(); d < best {
			best, pa, pb = d, q, s
		}
	}
	if math.IsInf(best, 1) {
		return geom.Vec{}, geom.Vec{}, fmt.Errorf("%w: extrema of %T and %T", ErrUnsupported, a, b)
	}

	for i := 0; i < 200; i++ {
		na, err := Closest(a, pb, samples)
		if err != nil {
			return geom.Vec{}, geom.Vec{}, err
		}
		nb, err := Closest(b, na, samples)
		if err != nil {
			return geom.Vec{}, geom.Vec{}, err
		}
		if na.Sub(nb).Length() > best {
			break
		}
		done := geom.Near(na, pa, tol) && geom.Near(nb, pb, tol)
		pa, pb, best = na, nb, na.Sub(nb).Length()
		if done {
			break
		}
	}
	if !geom.IsFinite(pa) || !geom.IsFinite(pb) {
		return geom.Vec{}, geom.Vec{}, fmt.Errorf("kernel: extrema did not converge")
	}
	return pa, pb, nil
}

// segmentClosest returns the closest points of two bounded segments.
func segmentClosest(a, b Line) (geom.Vec, geom.Vec) {
	w := a.Origin.Sub(b.Origin)
	k := a.Dir.Dot(b.Dir)
	d, e := a.Dir.Dot(w), b.Dir.Dot(w)
	denom := 1 - k*k
	var s float64
	if denom > 1e-12 {
		s = (k*e - d) / denom
	}
	s = clamp(s, a.T0, a.T1)
	t := clamp(b.project(a.Value(s)), b.T0, b.T1)
	s = clamp(a.project(b.Value(t)), a.T0, a.T1)
	return a.Value(s), b.Value(t)
}
