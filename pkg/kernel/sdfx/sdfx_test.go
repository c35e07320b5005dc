package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/footwork/pkg/kernel"
)

func mustRect(t *testing.T, k *SdfxKernel, w, h float64) kernel.Shape {
	t.Helper()
	s, err := k.Rect(w, h)
	if err != nil {
		t.Fatalf("Rect(%g, %g): %v", w, h, err)
	}
	return s
}

func TestBoundingBox(t *testing.T) {
	k := New()
	min, max := mustRect(t, k, 100, 50).BoundingBox()

	const tol = 1e-9
	expectMin := [2]float64{-50, -25}
	expectMax := [2]float64{50, 25}
	for i := 0; i < 2; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	moved := k.Translate(mustRect(t, k, 10, 10), 100, 200)
	min, max := moved.BoundingBox()

	const tol = 1e-9
	expectMin := [2]float64{95, 195}
	expectMax := [2]float64{105, 205}
	for i := 0; i < 2; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestDistance(t *testing.T) {
	k := New()
	box := mustRect(t, k, 10, 10)
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"center", 0, 0, -5},
		{"edge", 5, 0, 0},
		{"outside side", 8, 0, 3},
		{"outside corner", 8, 9, 5},
	}
	for _, tt := range tests {
		if got := k.Distance(box, tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Distance(%g, %g) = %g, want %g", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestUnion(t *testing.T) {
	k := New()
	a := mustRect(t, k, 10, 10)
	b := k.Translate(mustRect(t, k, 10, 10), 30, 0)
	u := k.Union(a, b)

	min, max := u.BoundingBox()
	if math.Abs(min[0]+5) > 1e-9 || math.Abs(max[0]-35) > 1e-9 {
		t.Errorf("union x extent = %g..%g, want -5..35", min[0], max[0])
	}
	if d := k.Distance(u, 15, 0); math.Abs(d-10) > 1e-9 {
		t.Errorf("distance between boxes = %g, want 10", d)
	}
	if d := k.Distance(u, 30, 0); d >= 0 {
		t.Errorf("center of second box should be inside, got %g", d)
	}
}

func TestRectInvalid(t *testing.T) {
	k := New()
	for _, wh := range [][2]float64{{0, 1}, {1, -2}, {math.NaN(), 1}, {math.Inf(1), 1}} {
		if _, err := k.Rect(wh[0], wh[1]); !errors.Is(err, kernel.ErrInvalidSize) {
			t.Errorf("Rect(%g, %g) error = %v, want ErrInvalidSize", wh[0], wh[1], err)
		}
	}
}

func TestClearance(t *testing.T) {
	k := New()
	tests := []struct {
		name string
		a, b kernel.Rect
		want float64
	}{
		{"two pad gap", kernel.Rect{X: -43.5, W: 50, H: 40}, kernel.Rect{X: 43.5, W: 50, H: 40}, 37},
		{"corner to corner", kernel.Rect{W: 2, H: 2}, kernel.Rect{X: 5, Y: 6, W: 2, H: 2}, 5},
		{"overlap", kernel.Rect{W: 4, H: 4}, kernel.Rect{X: 1, W: 4, H: 4}, -3},
	}
	for _, tt := range tests {
		got, err := kernel.Clearance(k, tt.a, tt.b)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Clearance = %g, want %g", tt.name, got, tt.want)
		}
	}
}
