// Package engine evaluates jig scripts. A script is a zygomys Lisp program
// whose builtins (defobject, attach, segment, box, ...) populate a
// document.Document with shapes and attachments. Each evaluation runs in a
// fresh sandbox, so the same source always yields the same document.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/document"
	"github.com/chazu/jig/pkg/kernel/sdfx"
)

// EvalError is a non-fatal error in user code: a parse error, a runtime
// error or a bad builtin argument.
type EvalError struct {
	Line     int
	Col      int
	Message  string
	ObjectID document.ObjectID
}

func (e EvalError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case !e.ObjectID.IsZero():
		return fmt.Sprintf("object %s: %s", e.ObjectID, e.Message)
	}
	return e.Message
}

// EvalWarning is advisory output of Check.
type EvalWarning struct {
	Line     int
	Col      int
	Message  string
	ObjectID document.ObjectID
}

// EvalResult bundles the output of Check.
type EvalResult struct {
	Document *document.Document
	Errors   []EvalError
	Warnings []EvalWarning
}

// OK reports whether evaluation and validation found no errors.
func (r *EvalResult) OK() bool { return len(r.Errors) == 0 }

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel  *sdfx.SdfxKernel
	timeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithKernel sets the kernel used to build solids.
func WithKernel(k *sdfx.SdfxKernel) Option {
	return func(e *Engine) {
		if k != nil {
			e.kernel = k
		}
	}
}

// WithTimeout overrides EvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, o := range opts {
		o(e)
	}
	if e.kernel == nil {
		e.kernel = sdfx.New()
	}
	return e
}

// Evaluate runs source and returns the document it builds. Placements of
// attached objects are not solved; call Document.Recompute for that.
//
// Return semantics:
//   - On success: returns document + nil errors + nil error
//   - On parse/eval failure: returns nil document + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*document.Document, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		d, evalErrs, err := e.evaluate(source)
		ch <- evalResult{doc: d, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

// Check evaluates source and validates the resulting document. Validation
// findings are reported against the object they concern.
func (e *Engine) Check(source string) (*EvalResult, error) {
	d, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return nil, err
	}
	res := &EvalResult{Document: d, Errors: evalErrs}
	if d == nil {
		return res, nil
	}
	for _, f := range document.Validate(d) {
		switch f.Severity {
		case document.SeverityWarning:
			res.Warnings = append(res.Warnings, EvalWarning{Message: f.Message, ObjectID: f.ObjectID})
		default:
			res.Errors = append(res.Errors, EvalError{Message: f.Message, ObjectID: f.ObjectID})
		}
	}
	return res, nil
}

func (e *Engine) evaluate(source string) (*document.Document, []EvalError, error) {
	doc := document.New()
	if strings.TrimSpace(source) == "" {
		return doc, nil, nil
	}

	// The sandbox keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, &builder{doc: doc, kernel: e.kernel})

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	attach.Logger().Debug("engine: evaluated", "objects", doc.Len())
	return doc, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting
// the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
