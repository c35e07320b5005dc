package sketch

import "math"

// System owns the parameters, entities and constraints of one sketch.
// It is not safe for concurrent use.
type System struct {
	Params      *ParamStore
	entities    []Entity
	constraints []*Constraint
}

// NewSystem returns an empty system with group 1 active.
func NewSystem() *System {
	return &System{Params: NewParamStore()}
}

// Entities returns every entity in creation order.
func (s *System) Entities() []Entity { return s.entities }

// Constraints returns every constraint in creation order.
func (s *System) Constraints() []*Constraint { return s.constraints }

// Constraint returns the constraint with the given id, or nil.
func (s *System) Constraint(id ConstraintID) *Constraint {
	if id < 0 || int(id) >= len(s.constraints) {
		return nil
	}
	return s.constraints[id]
}

// ---------------------------------------------------------------------------
// Reading geometry back
// ---------------------------------------------------------------------------

// UV returns the current coordinates of p.
func (s *System) UV(p *Point2d) (u, v float64) {
	return s.Params.Value(p.U), s.Params.Value(p.V)
}

// XYZ returns the current coordinates of p.
func (s *System) XYZ(p *Point3d) Vec3 {
	return Vec3{s.Params.Value(p.X), s.Params.Value(p.Y), s.Params.Value(p.Z)}
}

// Quaternion returns the current orientation of n.
func (s *System) Quaternion(n *Normal3d) Quaternion {
	return Quaternion{
		W: s.Params.Value(n.QW),
		X: s.Params.Value(n.QX),
		Y: s.Params.Value(n.QY),
		Z: s.Params.Value(n.QZ),
	}
}

// Basis returns the origin and in-plane unit axes of wp.
func (s *System) Basis(wp *Workplane) (origin, u, v Vec3) {
	q := s.Quaternion(wp.Normal).Normalize()
	return s.XYZ(wp.Origin), q.RotationU(), q.RotationV()
}

// Project returns the workplane coordinates of p. A 2D point on wp is
// returned as is; a 3D point is projected onto the plane.
func (s *System) Project(wp *Workplane, p Point) (u, v float64) {
	switch pt := p.(type) {
	case *Point2d:
		return s.UV(pt)
	case *Point3d:
		o, bu, bv := s.Basis(wp)
		d := s.XYZ(pt).Sub(o)
		return d.Dot(bu), d.Dot(bv)
	}
	return math.NaN(), math.NaN()
}

// Length returns the current length of l.
func (s *System) Length(l *LineSegment2d) float64 {
	au, av := s.UV(l.A)
	bu, bv := s.UV(l.B)
	return math.Hypot(bu-au, bv-av)
}
