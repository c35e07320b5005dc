package solver

import (
	"math"

	"github.com/chazu/footwork/pkg/sketch"
)

// term is one partial derivative of an equation.
type term struct {
	id sketch.ParamID
	d  float64
}

// equation is a scalar residual that is zero when its constraint holds.
type equation struct {
	owner sketch.ConstraintID
	eval  func() (float64, []term)
}

// coord is a workplane coordinate expressed through parameters.
type coord struct {
	val   float64
	terms []term
}

// pointCoords returns the (u, v) coordinates of p on wp with their
// derivatives. The workplane basis is treated as constant.
func pointCoords(sys *sketch.System, wp *sketch.Workplane, p sketch.Point) (coord, coord) {
	ps := sys.Params
	switch pt := p.(type) {
	case *sketch.Point2d:
		return coord{ps.Value(pt.U), []term{{pt.U, 1}}},
			coord{ps.Value(pt.V), []term{{pt.V, 1}}}
	case *sketch.Point3d:
		o, bu, bv := sys.Basis(wp)
		d := sys.XYZ(pt).Sub(o)
		axis := func(b sketch.Vec3) coord {
			return coord{
				val: d.Dot(b),
				terms: []term{
					{pt.X, b[0]}, {pt.Y, b[1]}, {pt.Z, b[2]},
					{wp.Origin.X, -b[0]}, {wp.Origin.Y, -b[1]}, {wp.Origin.Z, -b[2]},
				},
			}
		}
		return axis(bu), axis(bv)
	}
	return coord{val: math.NaN()}, coord{val: math.NaN()}
}

// diff returns a - b.
func diff(a, b coord) (float64, []term) {
	ts := make([]term, 0, len(a.terms)+len(b.terms))
	ts = append(ts, a.terms...)
	for _, t := range b.terms {
		ts = append(ts, term{t.id, -t.d})
	}
	return a.val - b.val, ts
}

// lengthTerms returns |b - a| and its derivatives. A zero-length segment
// gets a unit derivative along u so the solver can pull it apart.
func lengthTerms(sys *sketch.System, a, b *sketch.Point2d) (float64, []term) {
	au, av := sys.UV(a)
	bu, bv := sys.UV(b)
	du, dv := bu-au, bv-av
	l := math.Hypot(du, dv)
	gu, gv := 1.0, 0.0
	if l > 1e-12 {
		gu, gv = du/l, dv/l
	}
	return l, []term{{a.U, -gu}, {a.V, -gv}, {b.U, gu}, {b.V, gv}}
}

// equations expands every constraint of sys into scalar residuals.
func equations(sys *sketch.System) []equation {
	var eqs []equation
	for _, c := range sys.Constraints() {
		eqs = append(eqs, constraintEquations(sys, c)...)
	}
	return eqs
}

func constraintEquations(sys *sketch.System, c *sketch.Constraint) []equation {
	wp := c.Workplane
	eq := func(f func() (float64, []term)) equation {
		return equation{owner: c.ID, eval: f}
	}

	switch c.Kind {
	case sketch.Distance:
		a, b := c.Operand.Endpoints()
		if c.Value == 0 {
			// Zero distance is coincidence.
			return []equation{
				eq(func() (float64, []term) {
					au, _ := pointCoords(sys, wp, a)
					bu, _ := pointCoords(sys, wp, b)
					return diff(au, bu)
				}),
				eq(func() (float64, []term) {
					_, av := pointCoords(sys, wp, a)
					_, bv := pointCoords(sys, wp, b)
					return diff(av, bv)
				}),
			}
		}
		d := c.Value
		return []equation{eq(func() (float64, []term) {
			l, ts := lengthTerms(sys, a, b)
			return l - d, ts
		})}

	case sketch.Equal:
		la, lb := c.Lines[0], c.Lines[1]
		return []equation{eq(func() (float64, []term) {
			l1, t1 := lengthTerms(sys, la.A, la.B)
			l2, t2 := lengthTerms(sys, lb.A, lb.B)
			for _, t := range t2 {
				t1 = append(t1, term{t.id, -t.d})
			}
			return l1 - l2, t1
		})}

	case sketch.Horizontal:
		l := c.Lines[0]
		return []equation{eq(func() (float64, []term) {
			_, av := pointCoords(sys, wp, l.A)
			_, bv := pointCoords(sys, wp, l.B)
			return diff(av, bv)
		})}

	case sketch.Vertical:
		l := c.Lines[0]
		return []equation{eq(func() (float64, []term) {
			au, _ := pointCoords(sys, wp, l.A)
			bu, _ := pointCoords(sys, wp, l.B)
			return diff(au, bu)
		})}

	case sketch.On:
		p := c.Point
		if c.Target.Kind == sketch.TargetPoint {
			q := c.Target.Point
			return []equation{
				eq(func() (float64, []term) {
					pu, _ := pointCoords(sys, wp, p)
					qu, _ := pointCoords(sys, wp, q)
					return diff(pu, qu)
				}),
				eq(func() (float64, []term) {
					_, pv := pointCoords(sys, wp, p)
					_, qv := pointCoords(sys, wp, q)
					return diff(pv, qv)
				}),
			}
		}
		l := c.Target.Line
		return []equation{eq(func() (float64, []term) {
			return onLine(sys, wp, p, l)
		})}

	case sketch.Midpoint:
		p := c.Point
		l := c.Lines[0]
		half := func(pc, ac, bc coord) (float64, []term) {
			ts := append([]term{}, pc.terms...)
			for _, t := range ac.terms {
				ts = append(ts, term{t.id, -t.d / 2})
			}
			for _, t := range bc.terms {
				ts = append(ts, term{t.id, -t.d / 2})
			}
			return pc.val - (ac.val+bc.val)/2, ts
		}
		return []equation{
			eq(func() (float64, []term) {
				pu, _ := pointCoords(sys, wp, p)
				au, _ := pointCoords(sys, wp, l.A)
				bu, _ := pointCoords(sys, wp, l.B)
				return half(pu, au, bu)
			}),
			eq(func() (float64, []term) {
				_, pv := pointCoords(sys, wp, p)
				_, av := pointCoords(sys, wp, l.A)
				_, bv := pointCoords(sys, wp, l.B)
				return half(pv, av, bv)
			}),
		}
	}
	return nil
}

// onLine is the cross product (p - a) x (b - a), zero when p is on the
// line through a and b.
func onLine(sys *sketch.System, wp *sketch.Workplane, p sketch.Point, l *sketch.LineSegment2d) (float64, []term) {
	pu, pv := pointCoords(sys, wp, p)
	au, av := sys.UV(l.A)
	bu, bv := sys.UV(l.B)
	ex, ey := bu-au, bv-av
	wx, wy := pu.val-au, pv.val-av

	ts := make([]term, 0, len(pu.terms)+len(pv.terms)+4)
	for _, t := range pu.terms {
		ts = append(ts, term{t.id, t.d * ey})
	}
	for _, t := range pv.terms {
		ts = append(ts, term{t.id, -t.d * ex})
	}
	ts = append(ts,
		term{l.A.U, -ey + wy},
		term{l.A.V, -wx + ex},
		term{l.B.U, -wy},
		term{l.B.V, wx},
	)
	return wx*ey - wy*ex, ts
}
