package geom

import (
	"errors"
	"fmt"
)

// ErrDegenerateFrame is returned when the directions handed to a frame
// builder are zero or parallel.
var ErrDegenerateFrame = errors.New("geom: degenerate frame")

// Axis names one axis of a frame.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// FrameFromAxes builds a rotation whose primary axis points along dir1 and
// whose secondary axis lies in the plane of dir1 and dir2, on the dir2 side.
// dir2 need not be perpendicular to dir1: only its component orthogonal to
// dir1 is used. The remaining axis completes a right-handed frame.
func FrameFromAxes(primary Axis, dir1 Vec, secondary Axis, dir2 Vec) (Rotation, error) {
	if primary == secondary || primary < AxisX || primary > AxisZ || secondary < AxisX || secondary > AxisZ {
		return Rotation{}, fmt.Errorf("%w: axes %s and %s", ErrDegenerateFrame, primary, secondary)
	}
	u1, ok := Unit(dir1, Tolerance)
	if !ok {
		return Rotation{}, fmt.Errorf("%w: zero primary direction", ErrDegenerateFrame)
	}
	u2, ok := Unit(Reject(dir2, u1), Tolerance)
	if !ok {
		return Rotation{}, fmt.Errorf("%w: secondary direction parallel to primary", ErrDegenerateFrame)
	}

	var cols [3]Vec
	cols[primary] = u1
	cols[secondary] = u2
	third := 3 - primary - secondary
	if (primary+1)%3 == secondary {
		cols[third] = u1.Cross(u2)
	} else {
		cols[third] = u2.Cross(u1)
	}
	return Rotation{X: cols[AxisX], Y: cols[AxisY], Z: cols[AxisZ]}, nil
}

// FrameZX builds a rotation with Z along z and X toward xHint.
func FrameZX(z, xHint Vec) (Rotation, error) {
	return FrameFromAxes(AxisZ, z, AxisX, xHint)
}

// FrameZ builds the rotation that turns the world Z axis onto z by the
// smallest angle. When z points straight down the result is a half turn
// about X.
func FrameZ(z Vec) (Rotation, error) {
	n, ok := Unit(z, Tolerance)
	if !ok {
		return Rotation{}, fmt.Errorf("%w: zero normal", ErrDegenerateFrame)
	}
	a, b, c := n.X, n.Y, n.Z
	if c < -1+1e-12 {
		return Rotation{X: XAxis, Y: YAxis.Neg(), Z: ZAxis.Neg()}, nil
	}
	k := 1 / (1 + c)
	return Rotation{
		X: Vec{X: 1 - a*a*k, Y: -a * b * k, Z: -a},
		Y: Vec{X: -a * b * k, Y: 1 - b*b*k, Z: -b},
		Z: n,
	}, nil
}
