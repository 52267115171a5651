package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

func near(a, b geom.Vec, tol float64) bool { return geom.Near(a, b, tol) }

func TestBoxMinCorner(t *testing.T) {
	k := New()
	box, err := k.Box(100, 50, 25)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	bb := box.BoundingBox()
	if !near(bb.Min, geom.Vec{}, 1e-9) || !near(bb.Max, geom.Vec{X: 100, Y: 50, Z: 25}, 1e-9) {
		t.Fatalf("bounding box = %v..%v, want origin..(100 50 25)", bb.Min, bb.Max)
	}
	if _, err := k.Box(0, 1, 1); err == nil {
		t.Fatal("expected error for zero size box")
	}
}

func TestBoxMassProperties(t *testing.T) {
	k := New(WithMassGrid(32))
	box, err := k.Box(4, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	pl := geom.At(geom.Vec{X: 10}, geom.Identity())
	mp, err := k.MassProperties(kernel.Solid{SDF: box, Placement: pl})
	if err != nil {
		t.Fatalf("MassProperties failed: %v", err)
	}
	if math.Abs(mp.Mass-8) > 1e-6 {
		t.Errorf("mass = %g, want 8", mp.Mass)
	}
	c, _ := mp.Center()
	if !near(c, geom.Vec{X: 12, Y: 1, Z: 0.5}, 1e-6) {
		t.Errorf("center = %v, want (12 1 0.5)", c)
	}
	in := mp.Inertia()
	// Longest side has the smallest moment.
	if !(in[0][0] < in[1][1] && in[1][1] < in[2][2]) {
		t.Errorf("moments not ordered by side length: %v", in)
	}
	if math.Abs(in[0][1]) > 1e-6 || math.Abs(in[1][2]) > 1e-6 {
		t.Errorf("off-diagonal moments = %v", in)
	}
}

func TestMixedMassProperties(t *testing.T) {
	k := New()
	seg, err := kernel.NewSegment(geom.Vec{}, geom.Vec{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	mp, err := k.MassProperties(kernel.Point{P: geom.Vec{Y: 3}}, seg)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := mp.Center()
	if !near(c, geom.Vec{X: 2.0 / 3, Y: 1}, 1e-9) {
		t.Errorf("center = %v", c)
	}

	_, err = k.MassProperties(kernel.Solid{})
	if err == nil {
		t.Error("expected error for empty solid")
	}
}

func TestSolidExtrema(t *testing.T) {
	k := New()
	box, err := k.Box(2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	solid := kernel.Solid{SDF: box, Placement: geom.At(geom.Vec{Z: 10}, geom.Identity())}

	pa, pb, err := k.Extrema(kernel.Point{P: geom.Vec{X: 1, Y: 1, Z: 20}}, solid)
	if err != nil {
		t.Fatalf("Extrema failed: %v", err)
	}
	if !near(pa, geom.Vec{X: 1, Y: 1, Z: 20}, 1e-9) {
		t.Errorf("point side = %v", pa)
	}
	if !near(pb, geom.Vec{X: 1, Y: 1, Z: 12}, 1e-6) {
		t.Errorf("solid side = %v, want (1 1 12)", pb)
	}

	// A point inside the solid is its own closest point.
	_, pb, err = k.Extrema(kernel.Point{P: geom.Vec{X: 1, Y: 1, Z: 11}}, solid)
	if err != nil {
		t.Fatal(err)
	}
	if !near(pb, geom.Vec{X: 1, Y: 1, Z: 11}, 1e-9) {
		t.Errorf("inside point moved to %v", pb)
	}

	_, _, err = k.Extrema(solid, solid)
	if !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("solid-solid err = %v, want ErrUnsupported", err)
	}
}

func TestProjectRejectsNonFinite(t *testing.T) {
	k := New()
	seg, _ := kernel.NewSegment(geom.Vec{}, geom.Vec{X: 1})
	if _, err := k.ProjectCurve(seg, geom.Vec{X: math.NaN()}); err == nil {
		t.Error("expected error for NaN point")
	}
	pl, _ := kernel.NewPlane(geom.Vec{}, geom.ZAxis, 1, 1)
	u, v, err := k.ProjectSurface(pl, geom.Vec{X: 0.2, Y: -0.3, Z: 5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(u-0.2) > 1e-12 || math.Abs(v+0.3) > 1e-12 {
		t.Errorf("uv = (%g, %g)", u, v)
	}
}

func TestUnionDifference(t *testing.T) {
	k := New(WithMassGrid(40))
	a, _ := k.Box(2, 2, 2)
	b, _ := k.Sphere(0.5)
	u := k.Union(a, b)
	d := k.Difference(a, b)
	mu, err := k.MassProperties(kernel.Solid{SDF: u, Placement: geom.IdentityPlacement()})
	if err != nil {
		t.Fatal(err)
	}
	md, err := k.MassProperties(kernel.Solid{SDF: d, Placement: geom.IdentityPlacement()})
	if err != nil {
		t.Fatal(err)
	}
	if !(md.Mass < mu.Mass) {
		t.Errorf("difference mass %g should be below union mass %g", md.Mass, mu.Mass)
	}
}
