package sketch

import "fmt"

// EntityID identifies an entity within its System.
type EntityID int

// EntityKind identifies the concrete entity type.
type EntityKind int

const (
	KindPoint3d EntityKind = iota
	KindNormal3d
	KindWorkplane
	KindPoint2d
	KindLineSegment2d
)

func (k EntityKind) String() string {
	switch k {
	case KindPoint3d:
		return "point3d"
	case KindNormal3d:
		return "normal3d"
	case KindWorkplane:
		return "workplane"
	case KindPoint2d:
		return "point2d"
	case KindLineSegment2d:
		return "line2d"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Entity is implemented by every geometric entity.
type Entity interface {
	EntityID() EntityID
	Kind() EntityKind
}

// Point is a constraint operand that denotes a location: a *Point2d or a
// *Point3d. The unexported method closes the set.
type Point interface {
	Entity
	point()
}

// ---------------------------------------------------------------------------
// 3D reference entities
// ---------------------------------------------------------------------------

// Point3d is a point in model space.
type Point3d struct {
	id      EntityID
	X, Y, Z ParamID
}

func (p *Point3d) EntityID() EntityID { return p.id }
func (p *Point3d) Kind() EntityKind   { return KindPoint3d }
func (p *Point3d) point()             {}

// Normal3d is an orientation stored as a unit quaternion.
type Normal3d struct {
	id             EntityID
	QW, QX, QY, QZ ParamID
}

func (n *Normal3d) EntityID() EntityID { return n.id }
func (n *Normal3d) Kind() EntityKind   { return KindNormal3d }

// Workplane is the 2D frame all sketch geometry is drawn on.
type Workplane struct {
	id     EntityID
	sys    *System
	Origin *Point3d
	Normal *Normal3d
}

func (w *Workplane) EntityID() EntityID { return w.id }
func (w *Workplane) Kind() EntityKind   { return KindWorkplane }

// ---------------------------------------------------------------------------
// 2D sketch entities
// ---------------------------------------------------------------------------

// Point2d is a point with (u, v) coordinates on a workplane.
type Point2d struct {
	id        EntityID
	Workplane *Workplane
	U, V      ParamID
}

func (p *Point2d) EntityID() EntityID { return p.id }
func (p *Point2d) Kind() EntityKind   { return KindPoint2d }
func (p *Point2d) point()             {}

// LineSegment2d joins two points of the same workplane.
type LineSegment2d struct {
	id        EntityID
	Workplane *Workplane
	A, B      *Point2d
}

func (l *LineSegment2d) EntityID() EntityID { return l.id }
func (l *LineSegment2d) Kind() EntityKind   { return KindLineSegment2d }

// Compile-time interface checks.
var (
	_ Point  = (*Point3d)(nil)
	_ Point  = (*Point2d)(nil)
	_ Entity = (*Normal3d)(nil)
	_ Entity = (*Workplane)(nil)
	_ Entity = (*LineSegment2d)(nil)
)

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func (s *System) register(e Entity) {
	s.entities = append(s.entities, e)
}

func (s *System) nextEntityID() EntityID {
	return EntityID(len(s.entities))
}

func (s *System) checkParams(op string, ids ...ParamID) error {
	for _, id := range ids {
		if !s.Params.Has(id) {
			return fmt.Errorf("sketch: %s: %w: p%d", op, ErrUnknownParam, id)
		}
	}
	return nil
}

// checkWorkplane verifies wp belongs to this system.
func (s *System) checkWorkplane(op string, wp *Workplane) error {
	if wp == nil {
		return fmt.Errorf("sketch: %s: workplane: %w", op, ErrNilEntity)
	}
	if wp.sys != s {
		return fmt.Errorf("sketch: %s: workplane#%d belongs to another sketch: %w",
			op, wp.id, ErrInvalidWorkplaneReference)
	}
	return nil
}

// AddPoint3d creates a model-space point from three parameters.
func (s *System) AddPoint3d(x, y, z ParamID) (*Point3d, error) {
	if err := s.checkParams("point3d", x, y, z); err != nil {
		return nil, err
	}
	p := &Point3d{id: s.nextEntityID(), X: x, Y: y, Z: z}
	s.register(p)
	return p, nil
}

// AddNormal3d creates an orientation from four quaternion parameters.
func (s *System) AddNormal3d(qw, qx, qy, qz ParamID) (*Normal3d, error) {
	if err := s.checkParams("normal3d", qw, qx, qy, qz); err != nil {
		return nil, err
	}
	n := &Normal3d{id: s.nextEntityID(), QW: qw, QX: qx, QY: qy, QZ: qz}
	s.register(n)
	return n, nil
}

// AddWorkplane creates a workplane through origin with the given normal.
func (s *System) AddWorkplane(origin *Point3d, normal *Normal3d) (*Workplane, error) {
	if origin == nil || normal == nil {
		return nil, fmt.Errorf("sketch: workplane: %w", ErrNilEntity)
	}
	w := &Workplane{id: s.nextEntityID(), sys: s, Origin: origin, Normal: normal}
	s.register(w)
	return w, nil
}

// AddPoint2d creates a point on wp from two parameters.
func (s *System) AddPoint2d(wp *Workplane, u, v ParamID) (*Point2d, error) {
	if err := s.checkWorkplane("point2d", wp); err != nil {
		return nil, err
	}
	if err := s.checkParams("point2d", u, v); err != nil {
		return nil, err
	}
	p := &Point2d{id: s.nextEntityID(), Workplane: wp, U: u, V: v}
	s.register(p)
	return p, nil
}

// AddLine2d creates the segment a-b on wp. Both endpoints must already lie
// on wp.
func (s *System) AddLine2d(wp *Workplane, a, b *Point2d) (*LineSegment2d, error) {
	if err := s.checkWorkplane("line2d", wp); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("sketch: line2d: endpoint: %w", ErrNilEntity)
	}
	for _, p := range []*Point2d{a, b} {
		if p.Workplane != wp {
			return nil, &WorkplaneError{Op: "line2d", Entity: p, Want: wp, Got: p.Workplane}
		}
	}
	l := &LineSegment2d{id: s.nextEntityID(), Workplane: wp, A: a, B: b}
	s.register(l)
	return l, nil
}
