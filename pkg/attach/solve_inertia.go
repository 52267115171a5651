package attach

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// eigenTolerance is the relative gap below which two principal moments are
// treated as equal.
const eigenTolerance = 1e-6

var errEigen = errors.New("eigen decomposition did not converge")

type principal struct {
	center  geom.Vec
	axes    [3]geom.Vec
	moments [3]float64
}

// massOf combines the mass properties of all references.
func (sc *SolveContext) massOf(refs []Reference) (kernel.MassProps, error) {
	elems := make([]kernel.Element, len(refs))
	for i, r := range refs {
		elems[i] = r.Element()
	}
	mp, err := sc.Kernel.MassProperties(elems...)
	if err != nil {
		return kernel.MassProps{}, kernelFailure("mass properties", err)
	}
	if !(mp.Mass > 0) {
		return kernel.MassProps{}, newError(KindDegenerateConfiguration, "references have no mass")
	}
	return mp, nil
}

// principalAxes decomposes the inertia tensor. Axes come in ascending order
// of moment; each is signed so its largest component is positive, and the
// third is then rebuilt as the cross product of the first two, so it may
// break that rule to keep the frame right-handed.
func (sc *SolveContext) principalAxes(refs []Reference) (principal, error) {
	mp, err := sc.massOf(refs)
	if err != nil {
		return principal{}, err
	}
	in := mp.Inertia()
	sym := mat.NewSymDense(3, []float64{
		in[0][0], in[0][1], in[0][2],
		in[1][0], in[1][1], in[1][2],
		in[2][0], in[2][1], in[2][2],
	})
	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return principal{}, kernelFailure("inertia eigen decomposition", errEigen)
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	var pr principal
	pr.center, _ = mp.Center()
	for j := range 3 {
		pr.moments[j] = vals[j]
		pr.axes[j] = canonicalSign(geom.Vec{X: vecs.At(0, j), Y: vecs.At(1, j), Z: vecs.At(2, j)})
	}
	pr.axes[2] = pr.axes[0].Cross(pr.axes[1])
	return pr, nil
}

// requireDistinct fails unless the moment of each listed axis differs from
// the other two.
func (pr principal) requireDistinct(axes ...int) error {
	scale := math.Max(math.Abs(pr.moments[0]), math.Max(math.Abs(pr.moments[1]), math.Abs(pr.moments[2])))
	if scale == 0 {
		return newError(KindDegenerateConfiguration, "inertia tensor is zero")
	}
	for _, i := range axes {
		for j := range 3 {
			if j != i && !distinct(pr.moments[i], pr.moments[j], scale, eigenTolerance) {
				return newError(KindDegenerateConfiguration,
					"principal axis %d is not unique: moments %g and %g are equal", i+1, pr.moments[i], pr.moments[j])
			}
		}
	}
	return nil
}

// canonicalSign flips v so that its largest-magnitude component is positive.
// Ties go to the earlier component.
func canonicalSign(v geom.Vec) geom.Vec {
	c, big := 0.0, -1.0
	for i := range 3 {
		if a := math.Abs(geom.Component(v, i)); a > big+1e-12 {
			big, c = a, geom.Component(v, i)
		}
	}
	if c < 0 {
		return v.Neg()
	}
	return v
}

func solveCenterOfMass(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	mp, err := sc.massOf(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	c, _ := mp.Center()
	return sc.pointAt(c), nil
}

func solveInertiaAxis(i int) solveFunc {
	return func(sc *SolveContext, refs []Reference) (geom.Placement, error) {
		pr, err := sc.principalAxes(refs)
		if err != nil {
			return geom.Placement{}, err
		}
		if err := pr.requireDistinct(i); err != nil {
			return geom.Placement{}, err
		}
		// A line has no handedness to keep, so every axis gets the sign rule.
		return lineAt(pr.center, canonicalSign(pr.axes[i]))
	}
}

// solveInertia23 spans the plane of the second and third axes: X along the
// second axis, normal along the first.
func solveInertia23(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	pr, err := sc.principalAxes(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	if err := pr.requireDistinct(0, 1); err != nil {
		return geom.Placement{}, err
	}
	a1, a2 := pr.axes[0], pr.axes[1]
	return geom.At(pr.center, geom.Rotation{X: a2, Y: a1.Cross(a2), Z: a1}), nil
}

func solveInertialCS(sc *SolveContext, refs []Reference) (geom.Placement, error) {
	pr, err := sc.principalAxes(refs)
	if err != nil {
		return geom.Placement{}, err
	}
	if err := pr.requireDistinct(0, 1, 2); err != nil {
		return geom.Placement{}, err
	}
	return geom.At(pr.center, geom.Rotation{X: pr.axes[0], Y: pr.axes[1], Z: pr.axes[2]}), nil
}
