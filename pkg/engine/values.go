package engine

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/document"
	"github.com/chazu/jig/pkg/geom"
	"github.com/chazu/jig/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Sexp wrappers for Go values passed between builtins
// ---------------------------------------------------------------------------

type sexpVec3 struct{ v geom.Vec }

func (s *sexpVec3) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", s.v.X, s.v.Y, s.v.Z)
}
func (s *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpPlacement struct{ p geom.Placement }

func (s *sexpPlacement) SexpString(*zygo.PrintState) string { return "(placement " + s.p.String() + ")" }
func (s *sexpPlacement) Type() *zygo.RegisteredType         { return nil }

type sexpOffset struct{ o attach.Offset }

func (s *sexpOffset) SexpString(*zygo.PrintState) string {
	return "(offset " + s.o.Placement().String() + ")"
}
func (s *sexpOffset) Type() *zygo.RegisteredType { return nil }

type sexpCurve struct{ c kernel.Curve }

func (s *sexpCurve) SexpString(*zygo.PrintState) string { return "(" + s.c.Kind().String() + ")" }
func (s *sexpCurve) Type() *zygo.RegisteredType         { return nil }

type sexpSurface struct{ s kernel.Surface }

func (s *sexpSurface) SexpString(*zygo.PrintState) string { return "(" + s.s.Kind().String() + ")" }
func (s *sexpSurface) Type() *zygo.RegisteredType         { return nil }

type sexpSolid struct {
	s    sdf.SDF3
	desc string
}

func (s *sexpSolid) SexpString(*zygo.PrintState) string { return "(" + s.desc + ")" }
func (s *sexpSolid) Type() *zygo.RegisteredType         { return nil }

type sexpSelection struct{ sel attach.Selection }

func (s *sexpSelection) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(ref %q)", s.sel.String())
}
func (s *sexpSelection) Type() *zygo.RegisteredType { return nil }

type sexpAttachment struct{ obj *attach.AttachedObject }

func (s *sexpAttachment) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(attach %s %s)", s.obj.Dimension(), s.obj.Mode())
}
func (s *sexpAttachment) Type() *zygo.RegisteredType { return nil }

// sexpObjectRef is returned by defobject and object.
type sexpObjectRef struct{ id document.ObjectID }

func (s *sexpObjectRef) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(object %q)", string(s.id))
}
func (s *sexpObjectRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs is a mixed positional and keyword argument list.
type kwArgs struct {
	fn         string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(fn string, args []zygo.Sexp) kwArgs {
	a := kwArgs{fn: fn, kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			a.positional = append(a.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			a.kw[name] = args[i+1]
			i++
		} else {
			// trailing keyword is a flag
			a.kw[name] = zygo.SexpNull
		}
	}
	return a
}

// errorf prefixes the builtin name.
func (a kwArgs) errorf(format string, args ...any) error {
	return fmt.Errorf(a.fn+": "+format, args...)
}

// need checks that at least n positional arguments were given.
func (a kwArgs) need(n int, usage string) error {
	if len(a.positional) < n {
		return a.errorf("usage: (%s %s)", a.fn, usage)
	}
	return nil
}

func (a kwArgs) float(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, a.errorf("%s: %w", key, err)
	}
	return f, nil
}

func (a kwArgs) vec(key string, def geom.Vec) (geom.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	out, err := toVec3(v)
	if err != nil {
		return geom.Vec{}, a.errorf("%s: %w", key, err)
	}
	return out, nil
}

// placement reads a placement keyword, defaulting to the identity.
func (a kwArgs) placement(key string) (geom.Placement, error) {
	v, ok := a.kw[key]
	if !ok {
		return geom.IdentityPlacement(), nil
	}
	p, err := toPlacement(v)
	if err != nil {
		return geom.Placement{}, a.errorf("%s: %w", key, err)
	}
	return p, nil
}

// floats reads the positional arguments from index i on as numbers.
func (a kwArgs) floats(i int, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for j, name := range names {
		f, err := toFloat64(a.positional[i+j])
		if err != nil {
			return nil, a.errorf("%s: %w", name, err)
		}
		out[j] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toKeywordString accepts a keyword (:plane) or a plain string ("plane").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", describe(s))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		// a bare trailing keyword
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %s", describe(s))
}

func toVec3(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

// toPlacement accepts a placement or a bare vec3 translation.
func toPlacement(s zygo.Sexp) (geom.Placement, error) {
	switch v := s.(type) {
	case *sexpPlacement:
		return v.p, nil
	case *sexpVec3:
		return geom.At(v.v, geom.Identity()), nil
	}
	return geom.Placement{}, fmt.Errorf("expected placement, got %s", describe(s))
}

// toSelection accepts (ref ...), an object reference or "object:Sub".
func toSelection(s zygo.Sexp) (attach.Selection, error) {
	switch v := s.(type) {
	case *sexpSelection:
		return v.sel, nil
	case *sexpObjectRef:
		return attach.Selection{Object: string(v.id)}, nil
	case *zygo.SexpStr:
		return attach.ParseSelection(v.S)
	}
	return attach.Selection{}, fmt.Errorf("expected reference, got %s", describe(s))
}

func toObjectID(s zygo.Sexp) (document.ObjectID, error) {
	switch v := s.(type) {
	case *sexpObjectRef:
		return v.id, nil
	case *zygo.SexpStr:
		if v.S == "" {
			return "", fmt.Errorf("empty object name")
		}
		return document.ObjectID(v.S), nil
	}
	return "", fmt.Errorf("expected object, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (sdf.SDF3, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

// sexpListToSlice converts a list or array to a slice. A single non-list
// value is returned as a one-element slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return []zygo.Sexp{s}, nil
}
