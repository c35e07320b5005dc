package solver

import (
	"math"
	"slices"

	"github.com/chazu/footwork/pkg/sketch"
)

// Newton is a Newton-Raphson adapter. Each step is the minimum-norm
// correction for the linearly independent equations, shortened by
// backtracking until their residual drops.
type Newton struct {
	cfg Config
}

// Compile-time interface check.
var _ Adapter = (*Newton)(nil)

// NewNewton returns a Newton adapter. Zero fields of cfg take defaults.
func NewNewton(cfg Config) *Newton {
	def := DefaultConfig()
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	return &Newton{cfg: cfg}
}

// Config returns the effective settings.
func (n *Newton) Config() Config { return n.cfg }

// problem is the linearization of a system around its current values.
type problem struct {
	ps       *sketch.ParamStore
	unknowns []sketch.ParamID
	col      map[sketch.ParamID]int
	active   []equation // touch at least one unknown
	fixed    []equation // only read parameters of other groups
}

func newProblem(sys *sketch.System, group sketch.Group) *problem {
	p := &problem{
		ps:       sys.Params,
		unknowns: sys.Params.InGroup(group),
		col:      make(map[sketch.ParamID]int),
	}
	for i, id := range p.unknowns {
		p.col[id] = i
	}
	for _, e := range equations(sys) {
		_, ts := e.eval()
		if p.touches(ts) {
			p.active = append(p.active, e)
		} else {
			p.fixed = append(p.fixed, e)
		}
	}
	return p
}

func (p *problem) touches(ts []term) bool {
	for _, t := range ts {
		if _, ok := p.col[t.id]; ok {
			return true
		}
	}
	return false
}

// residuals evaluates eqs without building the Jacobian.
func residuals(eqs []equation) []float64 {
	f := make([]float64, len(eqs))
	for i, e := range eqs {
		f[i], _ = e.eval()
	}
	return f
}

// linearize evaluates the active equations and their Jacobian.
func (p *problem) linearize() ([]float64, [][]float64) {
	f := make([]float64, len(p.active))
	jac := make([][]float64, len(p.active))
	for i, e := range p.active {
		v, ts := e.eval()
		row := make([]float64, len(p.unknowns))
		for _, t := range ts {
			if c, ok := p.col[t.id]; ok {
				row[c] += t.d
			}
		}
		f[i], jac[i] = v, row
	}
	return f, jac
}

func (p *problem) values() []float64 {
	x := make([]float64, len(p.unknowns))
	for i, id := range p.unknowns {
		x[i] = p.ps.Value(id)
	}
	return x
}

func (p *problem) setValues(x0, dx []float64, alpha float64) {
	for i, id := range p.unknowns {
		p.ps.Set(id, x0[i]+alpha*dx[i])
	}
}

// analyze builds the row basis of jac and remembers the coefficients of
// every dependent row.
func analyze(jac [][]float64) (*rowBasis, map[int][]float64) {
	b := &rowBasis{}
	dependent := make(map[int][]float64)
	for i, row := range jac {
		if c, ok := b.add(i, row); !ok {
			dependent[i] = c
		}
	}
	return b, dependent
}

// meritOn is the squared residual over the selected rows.
func meritOn(f []float64, rows []int) float64 {
	var m float64
	for _, r := range rows {
		m += f[r] * f[r]
	}
	return m
}

// Solve runs Newton iterations on the parameters of group and classifies
// the outcome. Parameter values are left wherever the last step put them.
func (n *Newton) Solve(sys *sketch.System, group sketch.Group) Result {
	p := newProblem(sys, group)
	var res Result

	for res.Iterations < n.cfg.MaxIterations {
		f, jac := p.linearize()
		if maxAbs(f) < n.cfg.Tolerance {
			break
		}
		basis, _ := analyze(jac)
		dx := basis.minNormStep(f, len(p.unknowns))
		x0 := p.values()
		if maxAbs(dx) <= 1e-15*(1+maxAbs(x0)) {
			break
		}

		m0 := meritOn(f, basis.rows)
		accepted := false
		for alpha := 1.0; alpha > 1e-6; alpha /= 2 {
			p.setValues(x0, dx, alpha)
			if meritOn(residuals(p.active), basis.rows) < m0 {
				accepted = true
				break
			}
		}
		res.Iterations++
		if !accepted {
			p.setValues(x0, dx, 0)
			break
		}
	}

	return n.classify(p, res)
}

func (n *Newton) classify(p *problem, res Result) Result {
	tol := n.cfg.Tolerance
	f, jac := p.linearize()
	ff := residuals(p.fixed)
	basis, dependent := analyze(jac)

	res.DOF = len(p.unknowns) - basis.rank()
	res.Residual = math.Max(maxAbs(f), maxAbs(ff))

	// conflict names the constraints a dependent row is built from.
	conflict := func(row int, set map[sketch.ConstraintID]bool) {
		set[p.active[row].owner] = true
		lambda := basis.combination(dependent[row])
		scale := 1 + maxAbs(lambda)
		for k, w := range lambda {
			if math.Abs(w) > 1e-8*scale {
				set[p.active[basis.rows[k]].owner] = true
			}
		}
	}

	if res.Residual < tol {
		res.Status = Solved
		set := make(map[sketch.ConstraintID]bool)
		for row := range dependent {
			conflict(row, set)
		}
		res.Redundant = sortedIDs(set)
		return res
	}

	independentOK := true
	for _, r := range basis.rows {
		if math.Abs(f[r]) >= tol || math.IsNaN(f[r]) {
			independentOK = false
			break
		}
	}

	set := make(map[sketch.ConstraintID]bool)
	if independentOK {
		res.Status = Inconsistent
		for row := range dependent {
			if math.Abs(f[row]) >= tol {
				conflict(row, set)
			}
		}
	} else {
		res.Status = Nonconvergent
		for i, v := range f {
			if math.Abs(v) >= tol || math.IsNaN(v) {
				set[p.active[i].owner] = true
			}
		}
	}
	for i, v := range ff {
		if math.Abs(v) >= tol || math.IsNaN(v) {
			set[p.fixed[i].owner] = true
		}
	}
	res.Failed = sortedIDs(set)
	return res
}

func sortedIDs(set map[sketch.ConstraintID]bool) []sketch.ConstraintID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]sketch.ConstraintID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
