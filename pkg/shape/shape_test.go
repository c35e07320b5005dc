package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/units"
)

func newContext(t *testing.T, conv units.Converter) *Context {
	t.Helper()
	sys := sketch.NewSystem()
	ps := sys.Params
	o, err := sys.AddPoint3d(ps.Add(0), ps.Add(0), ps.Add(0))
	if err != nil {
		t.Fatal(err)
	}
	q := sketch.MakeQuaternion(sketch.Vec3{1, 0, 0}, sketch.Vec3{0, 1, 0})
	n, err := sys.AddNormal3d(ps.Add(q.W), ps.Add(q.X), ps.Add(q.Y), ps.Add(q.Z))
	if err != nil {
		t.Fatal(err)
	}
	wp, err := sys.AddWorkplane(o, n)
	if err != nil {
		t.Fatal(err)
	}
	ps.BeginGroup()
	return &Context{System: sys, Workplane: wp, Units: conv}
}

func buildPad(t *testing.T, ctx *Context, p *Pad) *Pad {
	t.Helper()
	if err := p.Bind(ctx); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestPadBuildStructure(t *testing.T) {
	ctx := newContext(t, units.DefaultSystem())
	before := ctx.System.Params.Len()
	p := buildPad(t, ctx, NewPad("1", "1"))

	if got := ctx.System.Params.Len() - before; got != 10 {
		t.Errorf("pad allocated %d params, want 10", got)
	}
	for name, pt := range map[string]*sketch.Point2d{
		"p1": p.Point1, "p2": p.Point2, "p3": p.Point3, "p4": p.Point4, "center": p.PointCenter,
	} {
		if pt == nil {
			t.Errorf("%s not built", name)
		}
	}
	if len(p.Constraints) != 5 {
		t.Fatalf("expected 5 constraints, got %d", len(p.Constraints))
	}
	wantKinds := []sketch.ConstraintKind{
		sketch.Horizontal, sketch.Vertical, sketch.Horizontal, sketch.Vertical, sketch.Midpoint,
	}
	for i, c := range p.Constraints {
		if c.Kind != wantKinds[i] {
			t.Errorf("constraint %d kind = %s, want %s", i, c.Kind, wantKinds[i])
		}
	}
	if p.LineTop.A != p.Point1 || p.LineTop.B != p.Point2 {
		t.Error("top line must join corners 1 and 2")
	}
	if p.LineDiagonal.A != p.Point1 || p.LineDiagonal.B != p.Point3 {
		t.Error("diagonal must join corners 1 and 3")
	}
	if len(ctx.System.Constraints()) != 5 {
		t.Errorf("system holds %d constraints, want 5", len(ctx.System.Constraints()))
	}
}

func TestPadNominalGeometry(t *testing.T) {
	ctx := newContext(t, units.DefaultSystem())
	p := NewPad("1", "1")
	p.NominalX = Nominal(units.MM(-10))
	p.NominalY = Nominal(units.MM(2))
	p.NominalWidth = Nominal(units.MM(5))
	p.NominalHeight = Nominal(units.MM(4))
	buildPad(t, ctx, p)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"width", p.Width(), 5},
		{"height", p.Height(), 4},
		{"x", p.X(), -10},
		{"y", p.Y(), 2},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}
	u1, v1 := ctx.System.UV(p.Point1)
	if u1 != -7.5 || v1 != 4 {
		t.Errorf("corner 1 = (%g, %g), want (-7.5, 4)", u1, v1)
	}
	u3, v3 := ctx.System.UV(p.Point3)
	if u3 != -12.5 || v3 != 0 {
		t.Errorf("corner 3 = (%g, %g), want (-12.5, 0)", u3, v3)
	}
}

func TestPadDefaultsToOneDisplayUnit(t *testing.T) {
	ctx := newContext(t, units.System{Base: units.Micrometer, Display: units.Millimeter})
	p := buildPad(t, ctx, NewPad("1", "1"))
	if p.Width() != 1000 || p.Height() != 1000 {
		t.Errorf("default size = %gx%g um, want 1000x1000", p.Width(), p.Height())
	}
	if p.X() != 1000 || p.Y() != 1000 {
		t.Errorf("default center = (%g, %g) um, want (1000, 1000)", p.X(), p.Y())
	}
}

func TestPadExplicitZeroNominal(t *testing.T) {
	ctx := newContext(t, units.System{Base: units.Micrometer, Display: units.Millimeter})
	p := NewPad("1", "1")
	p.NominalX = Nominal(units.Quantity{Value: 0})
	p.NominalY = Nominal(units.Quantity{Value: 0})
	p.NominalWidth = Nominal(units.Quantity{Value: 2})
	buildPad(t, ctx, p)

	if p.X() != 0 || p.Y() != 0 {
		t.Errorf("center = (%g, %g) um, want (0, 0)", p.X(), p.Y())
	}
	if p.Width() != 2000 {
		t.Errorf("width = %g um, want 2000", p.Width())
	}
	// Height was never given, so it still defaults.
	if p.Height() != 1000 {
		t.Errorf("height = %g um, want 1000", p.Height())
	}
}

func TestPadLifecycleErrors(t *testing.T) {
	ctx := newContext(t, units.DefaultSystem())

	p := NewPad("1", "1")
	if err := p.Build(); !errors.Is(err, ErrNotBound) {
		t.Fatalf("Build before Bind: got %v", err)
	}
	buildPad(t, ctx, p)
	if err := p.Build(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("second Build: got %v", err)
	}
	if err := p.Bind(ctx); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second Bind: got %v", err)
	}

	if err := NewPad("", "1").Bind(ctx); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id: got %v", err)
	}
	if err := NewPad("x", "1").Bind(nil); err == nil {
		t.Error("expected error binding nil context")
	}
}

func TestPadSerialize(t *testing.T) {
	ctx := newContext(t, units.System{Base: units.Nanometer, Display: units.Millimeter})
	p := NewPad("a", "1")
	p.NominalX = Nominal(units.MM(-36.5))
	p.NominalY = Nominal(units.MM(0))
	p.NominalWidth = Nominal(units.MM(50))
	p.NominalHeight = Nominal(units.MM(40))

	if got := p.Serialize(); got != "" {
		t.Errorf("unbuilt pad serialized as %q", got)
	}
	buildPad(t, ctx, p)

	want := "(pad 1 smd rect (at -36.5 0) (size 50 40) (layers F.Cu F.Paste F.Mask))"
	if got := p.Serialize(); got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
	if p.Serialize() != p.Serialize() {
		t.Error("Serialize is not stable")
	}
}

func TestPadString(t *testing.T) {
	ctx := newContext(t, units.DefaultSystem())
	p := NewPad("1", "1")
	p.NominalX = Nominal(units.MM(-10))
	p.NominalY = Nominal(units.MM(0))
	p.NominalWidth = Nominal(units.MM(5))
	p.NominalHeight = Nominal(units.MM(4))
	buildPad(t, ctx, p)

	want := "Rectangular pad 1 at <-10.000, +0.000> mm, w= 5.000 mm, h= 4.000 mm"
	if got := p.String(); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}

func TestConstructionLine(t *testing.T) {
	ctx := newContext(t, units.DefaultSystem())
	a := buildPad(t, ctx, NewPad("1", "1"))
	b := NewPad("2", "2")
	b.NominalX = Nominal(units.MM(4))
	buildPad(t, ctx, b)

	cl := NewConstructionLine("c", a.PointCenter, b.PointCenter)
	if err := cl.Bind(ctx); err != nil {
		t.Fatal(err)
	}
	before := len(ctx.System.Constraints())
	if err := cl.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ctx.System.Constraints()) != before {
		t.Error("construction line must not add constraints")
	}
	if got := cl.Length(); math.Abs(got-3) > 1e-12 {
		t.Errorf("Length = %g, want 3", got)
	}
	if cl.Serialize() != "" {
		t.Errorf("construction line serialized as %q", cl.Serialize())
	}
	if err := cl.Build(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("second Build: got %v", err)
	}
}

func TestConstructionLineErrors(t *testing.T) {
	ctx := newContext(t, units.DefaultSystem())
	other := newContext(t, units.DefaultSystem())
	a := buildPad(t, ctx, NewPad("1", "1"))
	foreign := buildPad(t, other, NewPad("2", "2"))

	missing := NewConstructionLine("m", a.Point1, nil)
	if err := missing.Bind(ctx); err != nil {
		t.Fatal(err)
	}
	if err := missing.Build(); !errors.Is(err, ErrMissingPoint) {
		t.Errorf("missing point: got %v", err)
	}

	cross := NewConstructionLine("x", a.Point1, foreign.Point1)
	if err := cross.Bind(ctx); err != nil {
		t.Fatal(err)
	}
	if err := cross.Build(); !errors.Is(err, sketch.ErrInvalidWorkplaneReference) {
		t.Errorf("foreign point: got %v", err)
	}
}
