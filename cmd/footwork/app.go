package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/footwork/pkg/engine"
	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/kernel"
	"github.com/chazu/footwork/pkg/kernel/sdfx"
	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/solver"
	"github.com/chazu/footwork/pkg/validate"
)

// Build statuses beyond the solver's own.
const statusError = "error"

// App turns footprint scripts into solved, validated footprints. The
// commands share it.
type App struct {
	cfg    footprint.Config
	opts   validate.Options
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// EvalErrorData is a serializable script error.
type EvalErrorData struct {
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Col     int    `json:"col,omitempty" yaml:"col,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// BuildResult is the report for one script.
type BuildResult struct {
	Script     string          `json:"script,omitempty" yaml:"script,omitempty"`
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Status     string          `json:"status" yaml:"status"`
	DOF        int             `json:"dof" yaml:"dof"`
	Failed     []string        `json:"failed,omitempty" yaml:"failed,omitempty"`
	Redundant  []string        `json:"redundant,omitempty" yaml:"redundant,omitempty"`
	Errors     []EvalErrorData `json:"errors,omitempty" yaml:"errors,omitempty"`
	Validation validate.Result `json:"validation" yaml:"validation"`

	// Output is the serialized module, set once the footprint solves.
	Output string `json:"-" yaml:"-"`

	footprint *footprint.Footprint
}

// OK reports whether the script evaluated, solved and validated cleanly.
func (r BuildResult) OK() bool {
	return len(r.Errors) == 0 && r.Status == solver.Solved.String() && r.Validation.OK()
}

// Footprint returns the evaluated footprint, or nil after a script error.
func (r BuildResult) Footprint() *footprint.Footprint { return r.footprint }

// NewApp creates an App with the sdfx kernel.
func NewApp(s settings) *App {
	opts := s.Validate
	k := sdfx.New()
	if opts.Kernel == nil {
		opts.Kernel = k
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	return &App{
		cfg:    s.Footprint,
		opts:   opts,
		engine: engine.NewEngine(s.Footprint),
		kernel: k,
		log:    log,
	}
}

// Evaluate builds source on the App's engine. A newer call supersedes one
// still running, which is what live re-evaluation wants.
func (a *App) Evaluate(ctx context.Context, name, source string) BuildResult {
	return a.run(ctx, a.engine, name, source)
}

// BuildFile reads and builds the script at path on a fresh engine, so
// several files can be built at once. Only reading the file is an error;
// script problems are reported in the result.
func (a *App) BuildFile(ctx context.Context, path string) (BuildResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return BuildResult{}, fmt.Errorf("read script: %w", err)
	}
	res := a.run(ctx, engine.NewEngine(a.cfg), scriptName(path), string(src))
	res.Script = path
	return res, nil
}

// scriptName is the file name without its extension.
func scriptName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *App) run(ctx context.Context, eng *engine.Engine, name, source string) BuildResult {
	result := BuildResult{Name: name, Status: statusError}

	// Step 1: Evaluate the script into an unsolved footprint.
	fp, evalErrs, err := eng.EvaluateNamed(name, source)
	if err != nil {
		a.log.Error("evaluate failed", "script", name, "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		a.log.Info("script errors", "script", name, "count", len(evalErrs))
		return result
	}
	result.footprint = fp
	result.Name = fp.Name()

	// Step 2: Solve.
	res := fp.SolveContext(ctx)
	result.Status = res.Status.String()
	result.DOF = res.DOF
	result.Failed = describe(fp, res.Failed)
	result.Redundant = describe(fp, res.Redundant)

	// Step 3: Validate.
	result.Validation = validate.ValidateAll(fp, a.opts)

	// Step 4: Serialize once there is a solution to write.
	if res.OK() {
		result.Output = fp.Serialize()
	}
	return result
}

func describe(fp *footprint.Footprint, ids []sketch.ConstraintID) []string {
	var out []string
	for _, id := range ids {
		if c := fp.System().Constraint(id); c != nil {
			out = append(out, c.String())
		}
	}
	return out
}
