package shape

import (
	"errors"
	"fmt"

	"github.com/chazu/footwork/pkg/sketch"
)

// ErrMissingPoint is returned when a construction line lacks an endpoint.
var ErrMissingPoint = errors.New("missing endpoint")

// ConstructionLine is a reference segment between two existing points. It
// has no constraints of its own and never appears in the output.
type ConstructionLine struct {
	NodeBase

	Point1, Point2 *sketch.Point2d
	Line           *sketch.LineSegment2d
}

// NewConstructionLine returns an unbound construction line from a to b.
func NewConstructionLine(id string, a, b *sketch.Point2d) *ConstructionLine {
	return &ConstructionLine{NodeBase: NodeBase{ID: id}, Point1: a, Point2: b}
}

// Build creates the segment.
func (c *ConstructionLine) Build() error {
	ctx, err := c.requireBound("build")
	if err != nil {
		return err
	}
	if c.Line != nil {
		return fmt.Errorf("shape: build %s: %w", c.ID, ErrAlreadyBuilt)
	}
	if c.Point1 == nil || c.Point2 == nil {
		return fmt.Errorf("shape: build %s: %w", c.ID, ErrMissingPoint)
	}
	l, err := ctx.System.AddLine2d(ctx.Workplane, c.Point1, c.Point2)
	if err != nil {
		return fmt.Errorf("shape: build %s: %w", c.ID, err)
	}
	c.Line = l
	return nil
}

// Length returns the current length in base units.
func (c *ConstructionLine) Length() float64 {
	if c.Line == nil || c.ctx == nil {
		return 0
	}
	return c.ctx.System.Length(c.Line)
}

// Serialize renders nothing.
func (c *ConstructionLine) Serialize() string { return "" }
