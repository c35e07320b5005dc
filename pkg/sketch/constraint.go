package sketch

import (
	"fmt"
	"math"
)

// ConstraintID identifies a constraint within its System.
type ConstraintID int

// ConstraintKind enumerates the supported relations.
type ConstraintKind int

const (
	Distance ConstraintKind = iota
	Equal
	Horizontal
	Vertical
	On
	Midpoint
)

func (k ConstraintKind) String() string {
	switch k {
	case Distance:
		return "distance"
	case Equal:
		return "equal"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case On:
		return "on"
	case Midpoint:
		return "midpoint"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// ---------------------------------------------------------------------------
// Operand variants
// ---------------------------------------------------------------------------

// OperandKind tags the shape of a distance operand.
type OperandKind int

const (
	OperandPointPair OperandKind = iota
	OperandLine
)

func (k OperandKind) String() string {
	switch k {
	case OperandPointPair:
		return "point-pair"
	case OperandLine:
		return "line"
	default:
		return fmt.Sprintf("OperandKind(%d)", int(k))
	}
}

// Operand is either a pair of points or a line handle. Build it with
// PointPair or LineHandle.
type Operand struct {
	Kind OperandKind
	A, B *Point2d
	Line *LineSegment2d
}

// PointPair measures between two points.
func PointPair(a, b *Point2d) Operand {
	return Operand{Kind: OperandPointPair, A: a, B: b}
}

// LineHandle measures the length of l.
func LineHandle(l *LineSegment2d) Operand {
	return Operand{Kind: OperandLine, Line: l}
}

// Endpoints resolves the operand to the two points it spans.
func (o Operand) Endpoints() (*Point2d, *Point2d) {
	if o.Kind == OperandLine {
		if o.Line == nil {
			return nil, nil
		}
		return o.Line.A, o.Line.B
	}
	return o.A, o.B
}

// TargetKind tags what a point is placed on.
type TargetKind int

const (
	TargetPoint TargetKind = iota
	TargetLine
)

func (k TargetKind) String() string {
	switch k {
	case TargetPoint:
		return "point"
	case TargetLine:
		return "line"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is the second operand of an On constraint. Build it with AtPoint
// or OnLine.
type Target struct {
	Kind  TargetKind
	Point Point
	Line  *LineSegment2d
}

// AtPoint makes the constrained point coincide with p.
func AtPoint(p Point) Target { return Target{Kind: TargetPoint, Point: p} }

// OnLine places the constrained point on the infinite line through l.
func OnLine(l *LineSegment2d) Target { return Target{Kind: TargetLine, Line: l} }

// ---------------------------------------------------------------------------
// Constraint record
// ---------------------------------------------------------------------------

// Constraint is an immutable relation registered with a System. Which
// fields are populated depends on Kind:
//
//	Distance:             Operand, Value
//	Equal:                Lines[0], Lines[1]
//	Horizontal, Vertical: Lines[0]
//	On:                   Point, Target
//	Midpoint:             Point, Lines[0]
type Constraint struct {
	ID        ConstraintID
	Kind      ConstraintKind
	Workplane *Workplane
	Value     float64
	Operand   Operand
	Point     Point
	Target    Target
	Lines     [2]*LineSegment2d
}

func (c *Constraint) String() string {
	if c.Kind == Distance {
		return fmt.Sprintf("%s#%d(%g)", c.Kind, c.ID, c.Value)
	}
	return fmt.Sprintf("%s#%d", c.Kind, c.ID)
}

// Entities lists the entities the constraint reads, in operand order.
func (c *Constraint) Entities() []Entity {
	var out []Entity
	switch c.Kind {
	case Distance:
		if c.Operand.Kind == OperandLine {
			out = append(out, c.Operand.Line)
		} else {
			out = append(out, c.Operand.A, c.Operand.B)
		}
	case Equal:
		out = append(out, c.Lines[0], c.Lines[1])
	case Horizontal, Vertical:
		out = append(out, c.Lines[0])
	case On:
		out = append(out, c.Point)
		if c.Target.Kind == TargetLine {
			out = append(out, c.Target.Line)
		} else {
			out = append(out, c.Target.Point)
		}
	case Midpoint:
		out = append(out, c.Point, c.Lines[0])
	}
	return out
}

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

// onPlane verifies that every 2D operand lives on wp. 3D points are
// projected and carry no workplane of their own.
func (s *System) onPlane(op string, wp *Workplane, ents ...Entity) error {
	if err := s.checkWorkplane(op, wp); err != nil {
		return err
	}
	for _, e := range ents {
		var got *Workplane
		switch v := e.(type) {
		case *Point2d:
			if v == nil {
				return fmt.Errorf("sketch: %s: %w", op, ErrNilEntity)
			}
			got = v.Workplane
		case *LineSegment2d:
			if v == nil {
				return fmt.Errorf("sketch: %s: %w", op, ErrNilEntity)
			}
			got = v.Workplane
		case *Point3d:
			if v == nil {
				return fmt.Errorf("sketch: %s: %w", op, ErrNilEntity)
			}
			continue
		case nil:
			return fmt.Errorf("sketch: %s: %w", op, ErrNilEntity)
		default:
			return fmt.Errorf("sketch: %s: unsupported operand %s", op, e.Kind())
		}
		if got != wp {
			return &WorkplaneError{Op: op, Entity: e, Want: wp, Got: got}
		}
	}
	return nil
}

func (s *System) addConstraint(c *Constraint) *Constraint {
	c.ID = ConstraintID(len(s.constraints))
	s.constraints = append(s.constraints, c)
	return c
}

// Distance fixes the distance between two points, or the length of a line,
// to value.
func (s *System) Distance(value float64, wp *Workplane, x Operand) (*Constraint, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, fmt.Errorf("sketch: distance %g: %w", value, ErrInvalidValue)
	}
	var ents []Entity
	switch x.Kind {
	case OperandPointPair:
		ents = []Entity{x.A, x.B}
	case OperandLine:
		ents = []Entity{x.Line}
	default:
		return nil, fmt.Errorf("sketch: distance: unknown operand kind %s", x.Kind)
	}
	if err := s.onPlane("distance", wp, ents...); err != nil {
		return nil, err
	}
	return s.addConstraint(&Constraint{Kind: Distance, Workplane: wp, Value: value, Operand: x}), nil
}

// Equal makes a and b the same length.
func (s *System) Equal(wp *Workplane, a, b *LineSegment2d) (*Constraint, error) {
	if err := s.onPlane("equal", wp, a, b); err != nil {
		return nil, err
	}
	return s.addConstraint(&Constraint{Kind: Equal, Workplane: wp, Lines: [2]*LineSegment2d{a, b}}), nil
}

// Horizontal makes l parallel to the workplane u axis.
func (s *System) Horizontal(wp *Workplane, l *LineSegment2d) (*Constraint, error) {
	if err := s.onPlane("horizontal", wp, l); err != nil {
		return nil, err
	}
	return s.addConstraint(&Constraint{Kind: Horizontal, Workplane: wp, Lines: [2]*LineSegment2d{l}}), nil
}

// Vertical makes l parallel to the workplane v axis.
func (s *System) Vertical(wp *Workplane, l *LineSegment2d) (*Constraint, error) {
	if err := s.onPlane("vertical", wp, l); err != nil {
		return nil, err
	}
	return s.addConstraint(&Constraint{Kind: Vertical, Workplane: wp, Lines: [2]*LineSegment2d{l}}), nil
}

// On places p at a point or on a line.
func (s *System) On(wp *Workplane, p Point, target Target) (*Constraint, error) {
	ents := []Entity{p}
	switch target.Kind {
	case TargetPoint:
		ents = append(ents, target.Point)
	case TargetLine:
		ents = append(ents, target.Line)
	default:
		return nil, fmt.Errorf("sketch: on: unknown target kind %s", target.Kind)
	}
	if err := s.onPlane("on", wp, ents...); err != nil {
		return nil, err
	}
	return s.addConstraint(&Constraint{Kind: On, Workplane: wp, Point: p, Target: target}), nil
}

// Midpoint places p at the midpoint of l.
func (s *System) Midpoint(wp *Workplane, p *Point2d, l *LineSegment2d) (*Constraint, error) {
	if err := s.onPlane("midpoint", wp, p, l); err != nil {
		return nil, err
	}
	return s.addConstraint(&Constraint{Kind: Midpoint, Workplane: wp, Point: p, Lines: [2]*LineSegment2d{l}}), nil
}
