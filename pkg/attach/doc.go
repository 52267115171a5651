// Package attach computes placements for objects attached to other
// geometry. An AttachedObject names up to four references (vertices, edges,
// faces or whole objects) and an attachment mode; the Engine resolves the
// references against a Store, validates them against the mode's slots,
// runs the mode's solver and layers the object's offset and flip on top.
//
// Modes are grouped by the dimension of what they produce: a Point, a Line
// (placement Z is the direction), a Plane (placement Z is the normal) or a
// full Frame. The Registry lists them; Solve dispatches on (dimension, mode).
package attach
