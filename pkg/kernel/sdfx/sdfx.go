// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/footwork/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxShape wraps an sdf.SDF2 to implement kernel.Shape.
type sdfxShape struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxShape) BoundingBox() (min, max [2]float64) {
	bb := s.s.BoundingBox()
	min = [2]float64{bb.Min.X, bb.Min.Y}
	max = [2]float64{bb.Max.X, bb.Max.Y}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func unwrap(s kernel.Shape) sdf.SDF2 {
	return s.(*sdfxShape).s
}

func wrap(s sdf.SDF2) kernel.Shape {
	return &sdfxShape{s: s}
}

// Rect creates a sharp-cornered box centered on the origin.
func (k *SdfxKernel) Rect(w, h float64) (kernel.Shape, error) {
	if !(w > 0 && h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("sdfx: rect %gx%g: %w", w, h, kernel.ErrInvalidSize)
	}
	return wrap(sdf.Box2D(v2.Vec{X: w, Y: h}, 0)), nil
}

// Union returns the union of two shapes.
func (k *SdfxKernel) Union(a, b kernel.Shape) kernel.Shape {
	return wrap(sdf.Union2D(unwrap(a), unwrap(b)))
}

// Translate moves a shape by (x, y).
func (k *SdfxKernel) Translate(s kernel.Shape, x, y float64) kernel.Shape {
	m := sdf.Translate2d(v2.Vec{X: x, Y: y})
	return wrap(sdf.Transform2D(unwrap(s), m))
}

// Distance evaluates the shape's distance field at (x, y).
func (k *SdfxKernel) Distance(s kernel.Shape, x, y float64) float64 {
	return unwrap(s).Evaluate(v2.Vec{X: x, Y: y})
}
