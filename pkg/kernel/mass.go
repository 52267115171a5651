package kernel

import (
	"github.com/chazu/jig/pkg/geom"
)

// MassProps accumulates the moments of a mass distribution about a
// reference point near the geometry, so that moments of geometry far from
// the world origin keep their precision. The first sample fixes Ref. Values
// from several elements combine by Add.
type MassProps struct {
	Mass float64
	// Ref is the point the moments are taken about.
	Ref geom.Vec
	// First is ∫ (r-Ref) dm.
	First geom.Vec
	// Second is ∫ (r-Ref)(r-Ref)ᵀ dm, row-major.
	Second [3][3]float64

	anchored bool
}

// PointMass returns the properties of mass m concentrated at p.
func PointMass(p geom.Vec, m float64) MassProps {
	var mp MassProps
	mp.addSample(p, m)
	return mp
}

// Add returns the combined properties of m and o, about m's reference
// point. o's moments move there by the parallel axis theorem.
func (m MassProps) Add(o MassProps) MassProps {
	if !o.anchored {
		return m
	}
	if !m.anchored {
		return o
	}
	d := o.Ref.Sub(m.Ref)
	dv := [3]float64{d.X, d.Y, d.Z}
	fv := [3]float64{o.First.X, o.First.Y, o.First.Z}
	m.Mass += o.Mass
	m.First = m.First.Add(o.First).Add(d.MulScalar(o.Mass))
	for i := range 3 {
		for j := range 3 {
			m.Second[i][j] += o.Second[i][j] + fv[i]*dv[j] + dv[i]*fv[j] + o.Mass*dv[i]*dv[j]
		}
	}
	return m
}

// Scale multiplies every moment by k, e.g. to apply a density.
func (m MassProps) Scale(k float64) MassProps {
	m.Mass *= k
	m.First = m.First.MulScalar(k)
	for i := range 3 {
		for j := range 3 {
			m.Second[i][j] *= k
		}
	}
	return m
}

// Center returns the center of mass. ok is false for zero mass.
func (m MassProps) Center() (geom.Vec, bool) {
	if !(m.Mass > 0) {
		return geom.Vec{}, false
	}
	return m.Ref.Add(m.First.MulScalar(1 / m.Mass)), true
}

// Inertia returns the inertia tensor about the center of mass.
func (m MassProps) Inertia() [3][3]float64 {
	var cv [3]float64
	if m.Mass > 0 {
		c := m.First.MulScalar(1 / m.Mass)
		cv = [3]float64{c.X, c.Y, c.Z}
	}
	// Second moments about the center.
	var s [3][3]float64
	for i := range 3 {
		for j := range 3 {
			s[i][j] = m.Second[i][j] - m.Mass*cv[i]*cv[j]
		}
	}
	tr := s[0][0] + s[1][1] + s[2][2]
	var in [3][3]float64
	for i := range 3 {
		for j := range 3 {
			in[i][j] = -s[i][j]
			if i == j {
				in[i][j] += tr
			}
		}
	}
	return in
}

func (m *MassProps) addSample(p geom.Vec, w float64) {
	if !m.anchored {
		m.Ref, m.anchored = p, true
	}
	r := p.Sub(m.Ref)
	m.Mass += w
	m.First = m.First.Add(r.MulScalar(w))
	rv := [3]float64{r.X, r.Y, r.Z}
	for i := range 3 {
		for j := range 3 {
			m.Second[i][j] += w * rv[i] * rv[j]
		}
	}
}

// CurveMass integrates a unit linear density along c; the mass is the arc
// length.
func CurveMass(c Curve, n int) MassProps {
	t0, t1 := c.Domain()
	ts, ws := simpsonWeights(t0, t1, n)
	var mp MassProps
	for i, t := range ts {
		mp.addSample(c.Value(t), ws[i]*c.D1(t).Length())
	}
	return mp
}

// SurfaceMass integrates a unit areal density over s; the mass is the area.
func SurfaceMass(s Surface, n int) MassProps {
	u0, u1, v0, v1 := s.Domain()
	us, wu := simpsonWeights(u0, u1, n)
	vs, wv := simpsonWeights(v0, v1, n)
	var mp MassProps
	for i, u := range us {
		for j, v := range vs {
			da := s.DU(u, v).Cross(s.DV(u, v)).Length()
			mp.addSample(s.Value(u, v), wu[i]*wv[j]*da)
		}
	}
	return mp
}
