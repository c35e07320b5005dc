package shape

import (
	"fmt"
	"math"

	"github.com/chazu/footwork/pkg/kicad"
	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/units"
)

// Pad is a rectangular SMD pad. Its geometry is four corners, a center and
// five lines; Build fixes it to a rectangle with five constraints, leaving
// position and size free for the footprint to constrain.
//
// Corners are numbered by quadrant: 1 top-right, 2 top-left, 3 bottom-left,
// 4 bottom-right.
type Pad struct {
	NodeBase

	Pin string

	// Nominal values are initial guesses only. Nil values default to one
	// display unit; an explicit zero is kept.
	NominalX, NominalY          *units.Quantity
	NominalWidth, NominalHeight *units.Quantity

	Point1, Point2, Point3, Point4 *sketch.Point2d
	PointCenter                    *sketch.Point2d

	LineTop, LineLeft, LineBottom, LineRight *sketch.LineSegment2d
	LineDiagonal                             *sketch.LineSegment2d

	Constraints []*sketch.Constraint
}

// NewPad returns an unbound pad.
func NewPad(id, pin string) *Pad {
	return &Pad{NodeBase: NodeBase{ID: id}, Pin: pin}
}

// Nominal returns q for use as a pad's nominal value.
func Nominal(q units.Quantity) *units.Quantity { return &q }

// Built reports whether Build has run.
func (p *Pad) Built() bool { return p.PointCenter != nil }

func (p *Pad) guess(q *units.Quantity) float64 {
	if q == nil {
		return p.ctx.Units.ToBase(units.Quantity{Value: 1})
	}
	return p.ctx.Units.ToBase(*q)
}

// Build creates the pad's parameters, entities and constraints.
func (p *Pad) Build() error {
	ctx, err := p.requireBound("build")
	if err != nil {
		return err
	}
	if p.Built() {
		return fmt.Errorf("shape: build %s: %w", p.ID, ErrAlreadyBuilt)
	}

	x, y := p.guess(p.NominalX), p.guess(p.NominalY)
	hw, hh := p.guess(p.NominalWidth)/2, p.guess(p.NominalHeight)/2

	sys, wp := ctx.System, ctx.Workplane
	point := func(u, v float64) (*sketch.Point2d, error) {
		return sys.AddPoint2d(wp, sys.Params.Add(u), sys.Params.Add(v))
	}

	pts := make([]*sketch.Point2d, 5)
	for i, uv := range [][2]float64{
		{x + hw, y + hh},
		{x - hw, y + hh},
		{x - hw, y - hh},
		{x + hw, y - hh},
		{x, y},
	} {
		if pts[i], err = point(uv[0], uv[1]); err != nil {
			return fmt.Errorf("shape: build %s: %w", p.ID, err)
		}
	}

	lines := make([]*sketch.LineSegment2d, 5)
	for i, ends := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}} {
		if lines[i], err = sys.AddLine2d(wp, pts[ends[0]], pts[ends[1]]); err != nil {
			return fmt.Errorf("shape: build %s: %w", p.ID, err)
		}
	}

	top, left, bottom, right, diag := lines[0], lines[1], lines[2], lines[3], lines[4]
	var cons []*sketch.Constraint
	for _, build := range []func() (*sketch.Constraint, error){
		func() (*sketch.Constraint, error) { return sys.Horizontal(wp, top) },
		func() (*sketch.Constraint, error) { return sys.Vertical(wp, left) },
		func() (*sketch.Constraint, error) { return sys.Horizontal(wp, bottom) },
		func() (*sketch.Constraint, error) { return sys.Vertical(wp, right) },
		func() (*sketch.Constraint, error) { return sys.Midpoint(wp, pts[4], diag) },
	} {
		c, err := build()
		if err != nil {
			return fmt.Errorf("shape: build %s: %w", p.ID, err)
		}
		cons = append(cons, c)
	}

	p.Point1, p.Point2, p.Point3, p.Point4, p.PointCenter = pts[0], pts[1], pts[2], pts[3], pts[4]
	p.LineTop, p.LineLeft, p.LineBottom, p.LineRight, p.LineDiagonal = top, left, bottom, right, diag
	p.Constraints = cons
	return nil
}

// ---------------------------------------------------------------------------
// Queries, in base units
// ---------------------------------------------------------------------------

func (p *Pad) uv(pt *sketch.Point2d) (float64, float64) {
	return p.ctx.System.UV(pt)
}

// Width returns the current width, |p1.u - p2.u|.
func (p *Pad) Width() float64 {
	if !p.Built() {
		return 0
	}
	u1, _ := p.uv(p.Point1)
	u2, _ := p.uv(p.Point2)
	return math.Abs(u1 - u2)
}

// Height returns the current height, |p1.v - p4.v|.
func (p *Pad) Height() float64 {
	if !p.Built() {
		return 0
	}
	_, v1 := p.uv(p.Point1)
	_, v4 := p.uv(p.Point4)
	return math.Abs(v1 - v4)
}

// X returns the current center u coordinate.
func (p *Pad) X() float64 {
	if !p.Built() {
		return 0
	}
	u, _ := p.uv(p.PointCenter)
	return u
}

// Y returns the current center v coordinate.
func (p *Pad) Y() float64 {
	if !p.Built() {
		return 0
	}
	_, v := p.uv(p.PointCenter)
	return v
}

// Record converts the pad's current geometry to display units.
func (p *Pad) Record() kicad.Pad {
	if !p.Built() {
		return kicad.Pad{Pin: p.Pin}
	}
	conv := p.ctx.Units
	return kicad.Pad{
		Pin:    p.Pin,
		X:      conv.FromBase(p.X()).Value,
		Y:      conv.FromBase(p.Y()).Value,
		Width:  conv.FromBase(p.Width()).Value,
		Height: conv.FromBase(p.Height()).Value,
	}
}

// Serialize renders the pad record. An unbuilt pad renders as "".
func (p *Pad) Serialize() string {
	if !p.Built() {
		return ""
	}
	return p.Record().String()
}

func (p *Pad) String() string {
	unit := ""
	if p.ctx != nil {
		unit = " " + p.ctx.Units.FromBase(0).Unit.String()
	}
	r := p.Record()
	return fmt.Sprintf("Rectangular pad %s at <%+6.3f, %+6.3f>%s, w=%6.3f%s, h=%6.3f%s",
		p.Pin, settle(r.X), settle(r.Y), unit, settle(r.Width), unit, settle(r.Height), unit)
}

// settle rounds away solver noise so that zero never prints as -0.000.
func settle(v float64) float64 {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return 0
	}
	return v
}
