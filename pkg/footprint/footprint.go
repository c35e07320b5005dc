// Package footprint assembles shape nodes on a single workplane, solves the
// resulting constraint system and prints it as a KiCad module.
//
// A footprint owns one sketch.System. Setup places a fixed reference frame
// in the first parameter group and starts a second group for node geometry,
// so solving moves the nodes and never the frame.
package footprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/footwork/pkg/shape"
	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/solver"
	"github.com/chazu/footwork/pkg/units"
)

var (
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrNilNode       = errors.New("nil node")
	ErrInvalidName   = errors.New("invalid footprint name")
	ErrInvalidConfig = errors.New("invalid config")
)

// Footprint is a named sketch of pads and construction geometry.
type Footprint struct {
	name  string
	cfg   Config
	units units.System
	tedit time.Time
	log   *slog.Logger

	sys      *sketch.System
	wp       *sketch.Workplane
	origin3d *sketch.Point3d
	origin   *sketch.Point2d
	ctx      *shape.Context

	nodes []shape.Node
	index map[string]shape.Node

	result solver.Result
	solved bool
}

// New creates a footprint and its reference frame.
func New(name string, cfg Config) (*Footprint, error) {
	if name == "" {
		return nil, fmt.Errorf("footprint: new: %w", ErrInvalidName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Footprint{
		name:   name,
		cfg:    cfg,
		units:  cfg.Units(),
		tedit:  cfg.Timestamp,
		log:    cfg.logger().With("footprint", name),
		index:  make(map[string]shape.Node),
		result: solver.Result{Status: solver.Unsolved},
	}
	if f.tedit.IsZero() {
		f.tedit = time.Now()
	}
	if err := f.setup(); err != nil {
		return nil, fmt.Errorf("footprint: setup %s: %w", name, err)
	}
	return f, nil
}

// setup builds the origin, the canonical xy workplane and the 2D origin
// that shares the 3D origin's x and y parameters.
func (f *Footprint) setup() error {
	sys := sketch.NewSystem()
	ps := sys.Params

	x, y, z := ps.Add(0), ps.Add(0), ps.Add(0)
	o3, err := sys.AddPoint3d(x, y, z)
	if err != nil {
		return err
	}

	q := sketch.MakeQuaternion(sketch.Vec3{1, 0, 0}, sketch.Vec3{0, 1, 0})
	n, err := sys.AddNormal3d(ps.Add(q.W), ps.Add(q.X), ps.Add(q.Y), ps.Add(q.Z))
	if err != nil {
		return err
	}

	wp, err := sys.AddWorkplane(o3, n)
	if err != nil {
		return err
	}

	o2, err := sys.AddPoint2d(wp, x, y)
	if err != nil {
		return err
	}
	if _, err := sys.On(wp, o3, sketch.AtPoint(o2)); err != nil {
		return err
	}

	ps.BeginGroup()

	f.sys, f.wp, f.origin3d, f.origin = sys, wp, o3, o2
	f.ctx = &shape.Context{System: sys, Workplane: wp, Units: f.units}
	return nil
}

// Name returns the footprint name.
func (f *Footprint) Name() string { return f.name }

// Config returns the configuration the footprint was created with.
func (f *Footprint) Config() Config { return f.cfg }

// Units returns the converter shared with the nodes.
func (f *Footprint) Units() units.System { return f.units }

// System exposes the underlying constraint system.
func (f *Footprint) System() *sketch.System { return f.sys }

// Workplane returns the footprint's only workplane.
func (f *Footprint) Workplane() *sketch.Workplane { return f.wp }

// Origin returns the 2D origin, pinned at (0, 0).
func (f *Footprint) Origin() *sketch.Point2d { return f.origin }

// Origin3d returns the 3D origin the workplane is anchored to.
func (f *Footprint) Origin3d() *sketch.Point3d { return f.origin3d }

// BeginGroup starts a new parameter group and returns it. Geometry added
// afterwards is solved separately from what came before.
func (f *Footprint) BeginGroup() sketch.Group { return f.sys.Params.BeginGroup() }

// ---------------------------------------------------------------------------
// Nodes
// ---------------------------------------------------------------------------

// AddNode binds n to the footprint, builds it and registers it under its id.
// Nodes print in the order they were added.
func (f *Footprint) AddNode(n shape.Node) error {
	if n == nil {
		return fmt.Errorf("footprint: add node: %w", ErrNilNode)
	}
	id := n.NodeID()
	if _, dup := f.index[id]; dup {
		return fmt.Errorf("footprint: add node %q: %w", id, ErrDuplicateNode)
	}
	if err := n.Bind(f.ctx); err != nil {
		return fmt.Errorf("footprint: add node %q: %w", id, err)
	}
	if err := n.Build(); err != nil {
		return fmt.Errorf("footprint: add node %q: %w", id, err)
	}
	f.nodes = append(f.nodes, n)
	f.index[id] = n
	f.solved = false
	f.log.Debug("node added", "id", id, "type", fmt.Sprintf("%T", n))
	return nil
}

// Nodes returns the nodes in insertion order.
func (f *Footprint) Nodes() []shape.Node {
	out := make([]shape.Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// Node looks a node up by id.
func (f *Footprint) Node(id string) (shape.Node, bool) {
	n, ok := f.index[id]
	return n, ok
}

// Pads returns the pads in insertion order.
func (f *Footprint) Pads() []*shape.Pad {
	var out []*shape.Pad
	for _, n := range f.nodes {
		if p, ok := n.(*shape.Pad); ok {
			out = append(out, p)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Constraints on the footprint workplane
// ---------------------------------------------------------------------------

func (f *Footprint) added(c *sketch.Constraint, err error) (*sketch.Constraint, error) {
	if err != nil {
		return nil, err
	}
	f.solved = false
	return c, nil
}

// Distance fixes a point-to-point distance or a line length. Unitless
// quantities are in the display unit.
func (f *Footprint) Distance(d units.Quantity, x sketch.Operand) (*sketch.Constraint, error) {
	return f.added(f.sys.Distance(f.units.ToBase(d), f.wp, x))
}

// Equal makes two lines the same length.
func (f *Footprint) Equal(a, b *sketch.LineSegment2d) (*sketch.Constraint, error) {
	return f.added(f.sys.Equal(f.wp, a, b))
}

// Horizontal makes l parallel to the u axis.
func (f *Footprint) Horizontal(l *sketch.LineSegment2d) (*sketch.Constraint, error) {
	return f.added(f.sys.Horizontal(f.wp, l))
}

// Vertical makes l parallel to the v axis.
func (f *Footprint) Vertical(l *sketch.LineSegment2d) (*sketch.Constraint, error) {
	return f.added(f.sys.Vertical(f.wp, l))
}

// On places p at a point or on a line.
func (f *Footprint) On(p sketch.Point, t sketch.Target) (*sketch.Constraint, error) {
	return f.added(f.sys.On(f.wp, p, t))
}

// Midpoint places p at the middle of l.
func (f *Footprint) Midpoint(p *sketch.Point2d, l *sketch.LineSegment2d) (*sketch.Constraint, error) {
	return f.added(f.sys.Midpoint(f.wp, p, l))
}

// ---------------------------------------------------------------------------
// Solving
// ---------------------------------------------------------------------------

// Solve runs the configured solver over the active group.
func (f *Footprint) Solve() solver.Result {
	return f.SolveContext(context.Background())
}

// SolveContext is Solve with a caller-supplied context for tracing.
func (f *Footprint) SolveContext(ctx context.Context) solver.Result {
	session := uuid.NewString()
	group := f.sys.Params.ActiveGroup()
	ctx, span := startSolveSpan(ctx, f.name, session)
	defer span.End()

	log := f.log.With("session", session)
	log.Debug("solve started",
		"group", int(group),
		"params", f.sys.Params.Len(),
		"constraints", len(f.sys.Constraints()))

	start := time.Now()
	res := f.cfg.adapter().Solve(f.sys, group)
	elapsed := time.Since(start)

	f.result = res
	f.solved = true
	setSolveSpanResult(span, res)
	recordSolveMetrics(ctx, elapsed, res)

	if res.OK() {
		log.Info("solve finished",
			"status", res.Status.String(),
			"dof", res.DOF,
			"iterations", res.Iterations,
			"redundant", len(res.Redundant),
			"duration", elapsed)
		return res
	}
	log.Warn("solve failed",
		"status", res.Status.String(),
		"failed", len(res.Failed),
		"constraints", f.describe(res.Failed),
		"residual", res.Residual,
		"iterations", res.Iterations)
	return res
}

func (f *Footprint) describe(ids []sketch.ConstraintID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if c := f.sys.Constraint(id); c != nil {
			out = append(out, c.String())
		}
	}
	return out
}

// Solved reports whether Solve has run since the last change to the
// constraint system.
func (f *Footprint) Solved() bool { return f.solved }

// Status returns the status of the last solve. While the system has changes
// no solve has seen, it reports Unsolved.
func (f *Footprint) Status() solver.Status {
	if !f.solved {
		return solver.Unsolved
	}
	return f.result.Status
}

// Result returns the full result of the last solve.
func (f *Footprint) Result() solver.Result { return f.result }
