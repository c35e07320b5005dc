// Package engine provides the Lisp evaluation engine for footwork sources.
// It wraps zygomys in a sandboxed environment and produces an unsolved
// Footprint from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/footwork/pkg/footprint"
)

// DefaultName names a footprint whose source never calls (footprint ...).
const DefaultName = "footprint"

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Col     int    `json:"col,omitempty" yaml:"col,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for footprint evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh footprint.
type Engine struct {
	cfg footprint.Config

	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine creates an Engine whose footprints use cfg.
func NewEngine(cfg footprint.Config) *Engine {
	return &Engine{cfg: cfg, timeout: EvalTimeout}
}

// Config returns the footprint configuration.
func (e *Engine) Config() footprint.Config { return e.cfg }

// Evaluate runs source and returns the footprint it describes, named
// DefaultName unless the source names it.
func (e *Engine) Evaluate(source string) (*footprint.Footprint, []EvalError, error) {
	return e.EvaluateNamed(DefaultName, source)
}

// EvaluateNamed is Evaluate with a different fallback name.
//
// Return semantics:
//   - On success: returns footprint + nil errors + nil error
//   - On parse/eval failure: returns nil footprint + eval errors + nil error
//   - On fatal failure (bad config, timeout, panic): returns nil + nil + error
func (e *Engine) EvaluateNamed(name, source string) (*footprint.Footprint, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	req := evalRequest{name: name, gen: e.generation}
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		fp, evalErrs, err := e.evaluate(name, source)
		ch <- evalResult{footprint: fp, errors: evalErrs, err: err}
	}()

	return e.wait(req, ch)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(name, source string) (*footprint.Footprint, []EvalError, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	s := &session{cfg: e.cfg, name: name}

	// Empty source is a valid program that produces an empty footprint.
	if strings.TrimSpace(source) == "" {
		fp, err := s.footprint()
		return fp, nil, err
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	fp, err := s.footprint()
	return fp, nil, err
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
