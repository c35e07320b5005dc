// Package kernel defines the 2D geometry kernel used to reason about pad
// copper: clearance between pads and the extent of a footprint. The sdfx
// subpackage is the shipped backend.
package kernel

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned for shapes with a non-positive or non-finite
// dimension.
var ErrInvalidSize = errors.New("invalid size")

// Shape is an opaque handle to a kernel region.
type Shape interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
}

// Kernel is the abstract 2D geometry kernel.
type Kernel interface {
	// Rect returns a w by h rectangle centered on the origin.
	Rect(w, h float64) (Shape, error)

	Union(a, b Shape) Shape
	Translate(s Shape, x, y float64) Shape

	// Distance is the signed distance from (x, y) to the boundary of s,
	// negative inside.
	Distance(s Shape, x, y float64) float64
}

// Rect is an axis-aligned rectangle given by its center and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@(%g,%g)", r.W, r.H, r.X, r.Y)
}

// Valid reports whether both dimensions are positive and finite.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0 && !math.IsInf(r.W, 0) && !math.IsInf(r.H, 0)
}

// Place builds r in k.
func Place(k Kernel, r Rect) (Shape, error) {
	s, err := k.Rect(r.W, r.H)
	if err != nil {
		return nil, fmt.Errorf("kernel: place %s: %w", r, err)
	}
	return k.Translate(s, r.X, r.Y), nil
}

// Clearance returns the edge-to-edge distance between a and b, negative when
// they overlap. It evaluates the Minkowski sum of the two rectangles at the
// origin.
func Clearance(k Kernel, a, b Rect) (float64, error) {
	sum, err := k.Rect(a.W+b.W, a.H+b.H)
	if err != nil {
		return 0, fmt.Errorf("kernel: clearance %s %s: %w", a, b, err)
	}
	return k.Distance(k.Translate(sum, b.X-a.X, b.Y-a.Y), 0, 0), nil
}

// Extent returns the bounding box of the union of rects.
func Extent(k Kernel, rects []Rect) (min, max [2]float64, err error) {
	var all Shape
	for _, r := range rects {
		s, err := Place(k, r)
		if err != nil {
			return min, max, err
		}
		if all == nil {
			all = s
		} else {
			all = k.Union(all, s)
		}
	}
	if all == nil {
		return min, max, nil
	}
	min, max = all.BoundingBox()
	return min, max, nil
}
