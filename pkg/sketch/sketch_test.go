package sketch

import (
	"errors"
	"math"
	"testing"
)

// newPlane builds the standard reference frame: origin at zero and the
// identity orientation.
func newPlane(t *testing.T, s *System) *Workplane {
	t.Helper()
	ps := s.Params
	o, err := s.AddPoint3d(ps.Add(0), ps.Add(0), ps.Add(0))
	if err != nil {
		t.Fatalf("AddPoint3d: %v", err)
	}
	q := MakeQuaternion(Vec3{1, 0, 0}, Vec3{0, 1, 0})
	n, err := s.AddNormal3d(ps.Add(q.W), ps.Add(q.X), ps.Add(q.Y), ps.Add(q.Z))
	if err != nil {
		t.Fatalf("AddNormal3d: %v", err)
	}
	wp, err := s.AddWorkplane(o, n)
	if err != nil {
		t.Fatalf("AddWorkplane: %v", err)
	}
	return wp
}

func mustPoint(t *testing.T, s *System, wp *Workplane, u, v float64) *Point2d {
	t.Helper()
	p, err := s.AddPoint2d(wp, s.Params.Add(u), s.Params.Add(v))
	if err != nil {
		t.Fatalf("AddPoint2d: %v", err)
	}
	return p
}

func mustLine(t *testing.T, s *System, wp *Workplane, a, b *Point2d) *LineSegment2d {
	t.Helper()
	l, err := s.AddLine2d(wp, a, b)
	if err != nil {
		t.Fatalf("AddLine2d: %v", err)
	}
	return l
}

func TestParamStoreGroups(t *testing.T) {
	ps := NewParamStore()
	a := ps.Add(1)
	b := ps.Add(2)
	if a == b {
		t.Fatal("param ids must be unique")
	}
	if ps.ActiveGroup() != 1 {
		t.Fatalf("initial group = %d, want 1", ps.ActiveGroup())
	}

	g := ps.BeginGroup()
	if g != 2 {
		t.Fatalf("BeginGroup = %d, want 2", g)
	}
	c := ps.Add(3)

	if got := ps.InGroup(1); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("InGroup(1) = %v", got)
	}
	if got := ps.InGroup(2); len(got) != 1 || got[0] != c {
		t.Errorf("InGroup(2) = %v", got)
	}

	ps.Set(b, 42)
	if ps.Value(b) != 42 {
		t.Errorf("Value after Set = %g", ps.Value(b))
	}
	if ps.Param(c).Group != 2 {
		t.Errorf("param %d group = %d", c, ps.Param(c).Group)
	}
	if ps.Len() != 3 {
		t.Errorf("Len = %d", ps.Len())
	}
}

func TestMakeQuaternion(t *testing.T) {
	q := MakeQuaternion(Vec3{1, 0, 0}, Vec3{0, 1, 0})
	if q != (Quaternion{W: 1}) {
		t.Fatalf("identity basis gave %+v", q)
	}

	tests := []struct {
		name string
		u, v Vec3
	}{
		{"quarter turn about z", Vec3{0, 1, 0}, Vec3{-1, 0, 0}},
		{"half turn about x", Vec3{1, 0, 0}, Vec3{0, -1, 0}},
		{"half turn about z", Vec3{-1, 0, 0}, Vec3{0, -1, 0}},
		{"yz plane", Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"unnormalized", Vec3{2, 0, 0}, Vec3{0, 0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := MakeQuaternion(tt.u, tt.v)
			gotU, gotV := q.RotationU(), q.RotationV()
			wantU, wantV := tt.u.Normalize(), tt.v.Normalize()
			for i := 0; i < 3; i++ {
				if math.Abs(gotU[i]-wantU[i]) > 1e-9 || math.Abs(gotV[i]-wantV[i]) > 1e-9 {
					t.Fatalf("basis = %v %v, want %v %v", gotU, gotV, wantU, wantV)
				}
			}
		})
	}
}

func TestLineRejectsForeignWorkplane(t *testing.T) {
	s := NewSystem()
	wp1 := newPlane(t, s)
	wp2 := newPlane(t, s)

	a := mustPoint(t, s, wp1, 0, 0)
	b := mustPoint(t, s, wp2, 1, 0)

	_, err := s.AddLine2d(wp1, a, b)
	if !errors.Is(err, ErrInvalidWorkplaneReference) {
		t.Fatalf("expected ErrInvalidWorkplaneReference, got %v", err)
	}
	var we *WorkplaneError
	if !errors.As(err, &we) {
		t.Fatalf("expected *WorkplaneError, got %T", err)
	}
	if we.Entity != Entity(b) {
		t.Errorf("error names %v, want point b", we.Entity)
	}
}

func TestWorkplaneFromOtherSystem(t *testing.T) {
	s1, s2 := NewSystem(), NewSystem()
	wp := newPlane(t, s1)
	_, err := s2.AddPoint2d(wp, s2.Params.Add(0), s2.Params.Add(0))
	if !errors.Is(err, ErrInvalidWorkplaneReference) {
		t.Fatalf("expected ErrInvalidWorkplaneReference, got %v", err)
	}
}

func TestUnknownParam(t *testing.T) {
	s := NewSystem()
	if _, err := s.AddPoint3d(0, 1, 2); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
}

func TestConstraintBuilders(t *testing.T) {
	s := NewSystem()
	wp := newPlane(t, s)
	a := mustPoint(t, s, wp, 0, 0)
	b := mustPoint(t, s, wp, 3, 4)
	c := mustPoint(t, s, wp, 1, 1)
	ab := mustLine(t, s, wp, a, b)
	bc := mustLine(t, s, wp, b, c)

	tests := []struct {
		name  string
		build func() (*Constraint, error)
		kind  ConstraintKind
		ents  int
	}{
		{"distance line", func() (*Constraint, error) { return s.Distance(5, wp, LineHandle(ab)) }, Distance, 1},
		{"distance points", func() (*Constraint, error) { return s.Distance(2, wp, PointPair(a, c)) }, Distance, 2},
		{"equal", func() (*Constraint, error) { return s.Equal(wp, ab, bc) }, Equal, 2},
		{"horizontal", func() (*Constraint, error) { return s.Horizontal(wp, ab) }, Horizontal, 1},
		{"vertical", func() (*Constraint, error) { return s.Vertical(wp, bc) }, Vertical, 1},
		{"on point", func() (*Constraint, error) { return s.On(wp, c, AtPoint(a)) }, On, 2},
		{"on line", func() (*Constraint, error) { return s.On(wp, c, OnLine(ab)) }, On, 2},
		{"on 3d origin", func() (*Constraint, error) { return s.On(wp, wp.Origin, AtPoint(a)) }, On, 2},
		{"midpoint", func() (*Constraint, error) { return s.Midpoint(wp, c, ab) }, Midpoint, 2},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con, err := tt.build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if con.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", con.Kind, tt.kind)
			}
			if con.ID != ConstraintID(i) {
				t.Errorf("id = %d, want %d", con.ID, i)
			}
			if con.Workplane != wp {
				t.Error("constraint not registered against workplane")
			}
			if got := len(con.Entities()); got != tt.ents {
				t.Errorf("entities = %d, want %d", got, tt.ents)
			}
		})
	}
	if len(s.Constraints()) != len(tests) {
		t.Fatalf("registered %d constraints, want %d", len(s.Constraints()), len(tests))
	}
}

func TestConstraintWorkplaneMismatch(t *testing.T) {
	s := NewSystem()
	wp1 := newPlane(t, s)
	wp2 := newPlane(t, s)
	a := mustPoint(t, s, wp1, 0, 0)
	b := mustPoint(t, s, wp1, 1, 0)
	l := mustLine(t, s, wp1, a, b)

	checks := map[string]func() (*Constraint, error){
		"distance":   func() (*Constraint, error) { return s.Distance(1, wp2, LineHandle(l)) },
		"equal":      func() (*Constraint, error) { return s.Equal(wp2, l, l) },
		"horizontal": func() (*Constraint, error) { return s.Horizontal(wp2, l) },
		"vertical":   func() (*Constraint, error) { return s.Vertical(wp2, l) },
		"on":         func() (*Constraint, error) { return s.On(wp2, a, AtPoint(b)) },
		"midpoint":   func() (*Constraint, error) { return s.Midpoint(wp2, a, l) },
	}
	for name, build := range checks {
		t.Run(name, func(t *testing.T) {
			if _, err := build(); !errors.Is(err, ErrInvalidWorkplaneReference) {
				t.Fatalf("expected ErrInvalidWorkplaneReference, got %v", err)
			}
		})
	}
	if len(s.Constraints()) != 0 {
		t.Errorf("rejected constraints were registered: %d", len(s.Constraints()))
	}
}

func TestConstraintNilAndValue(t *testing.T) {
	s := NewSystem()
	wp := newPlane(t, s)
	a := mustPoint(t, s, wp, 0, 0)

	if _, err := s.Distance(1, wp, PointPair(a, nil)); !errors.Is(err, ErrNilEntity) {
		t.Errorf("nil point: got %v", err)
	}
	if _, err := s.Horizontal(wp, nil); !errors.Is(err, ErrNilEntity) {
		t.Errorf("nil line: got %v", err)
	}
	if _, err := s.On(wp, nil, AtPoint(a)); !errors.Is(err, ErrNilEntity) {
		t.Errorf("nil on point: got %v", err)
	}
	if _, err := s.Distance(-1, wp, PointPair(a, a)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative distance: got %v", err)
	}
	if _, err := s.Distance(math.NaN(), wp, PointPair(a, a)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NaN distance: got %v", err)
	}
}

func TestProjectAndLength(t *testing.T) {
	s := NewSystem()
	wp := newPlane(t, s)
	a := mustPoint(t, s, wp, 1, 2)
	b := mustPoint(t, s, wp, 4, 6)
	l := mustLine(t, s, wp, a, b)

	if got := s.Length(l); math.Abs(got-5) > 1e-12 {
		t.Errorf("Length = %g, want 5", got)
	}
	u, v := s.Project(wp, a)
	if u != 1 || v != 2 {
		t.Errorf("Project(2d) = (%g, %g)", u, v)
	}

	p3, err := s.AddPoint3d(s.Params.Add(7), s.Params.Add(-3), s.Params.Add(9))
	if err != nil {
		t.Fatal(err)
	}
	u, v = s.Project(wp, p3)
	if u != 7 || v != -3 {
		t.Errorf("Project(3d) = (%g, %g), want (7, -3)", u, v)
	}
}
