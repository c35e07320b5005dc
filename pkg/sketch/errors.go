package sketch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkplaneReference is returned when a 2D entity or a
	// constraint names a workplane other than the one its operands live on.
	ErrInvalidWorkplaneReference = errors.New("invalid workplane reference")

	// ErrNilEntity is returned when a required operand is nil.
	ErrNilEntity = errors.New("nil entity")

	// ErrUnknownParam is returned when an entity is built from a parameter
	// id the store never allocated.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrInvalidValue is returned for constraint values outside their domain.
	ErrInvalidValue = errors.New("invalid constraint value")
)

// WorkplaneError records which entity was built against the wrong workplane.
type WorkplaneError struct {
	Op     string
	Entity Entity
	Want   *Workplane
	Got    *Workplane
}

func (e *WorkplaneError) Error() string {
	return fmt.Sprintf("sketch: %s: %s is on %s, not %s",
		e.Op, describe(e.Entity), describe(e.Got), describe(e.Want))
}

func (e *WorkplaneError) Unwrap() error { return ErrInvalidWorkplaneReference }

func describe(e Entity) string {
	switch v := e.(type) {
	case nil:
		return "<none>"
	case *Workplane:
		if v == nil {
			return "<none>"
		}
	}
	return fmt.Sprintf("%s#%d", e.Kind(), e.EntityID())
}
