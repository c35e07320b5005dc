package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chazu/footwork/pkg/footprint"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrSuperseded is returned when a newer evaluation started on the same
	// engine before this one finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")

	// ErrTimeout is returned when an evaluation runs past the engine's
	// timeout.
	ErrTimeout = errors.New("evaluation timed out")
)

// evalResult is what an evaluation goroutine hands back.
type evalResult struct {
	footprint *footprint.Footprint
	errors    []EvalError
	err       error
}

// evalRequest identifies one in-flight evaluation.
type evalRequest struct {
	name string
	gen  uint64
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func (e *Engine) logger() *slog.Logger {
	if e.cfg.Logger != nil {
		return e.cfg.Logger
	}
	return slog.Default()
}

// wait collects req's result from ch. A result that arrives after a newer
// request has started is dropped. On timeout the goroutine keeps running;
// by the time it finishes its generation is stale, so nobody sees it.
func (e *Engine) wait(req evalRequest, ch <-chan evalResult) (*footprint.Footprint, []EvalError, error) {
	timeout := e.timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if current := e.currentGeneration(); req.gen != current {
			e.logger().Debug("discarding stale evaluation",
				"footprint", req.name, "generation", req.gen, "current", current)
			return nil, nil, fmt.Errorf("engine: %s: %w", req.name, ErrSuperseded)
		}
		return res.footprint, res.errors, res.err

	case <-timer.C:
		e.logger().Warn("evaluation timed out", "footprint", req.name, "after", timeout)
		return nil, nil, fmt.Errorf("engine: %s: %w after %s", req.name, ErrTimeout, timeout)
	}
}
