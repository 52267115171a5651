package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/jig/pkg/document"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	doc    *document.Document
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch for at most timeout. A result
// whose generation is no longer current is discarded.
//
// On timeout the evaluating goroutine may still be running; the generation
// check drops its result when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	timeout time.Duration,
	mu *sync.Mutex,
	currentGen *uint64,
) (*document.Document, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.doc, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
