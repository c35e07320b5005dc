// Package solver resolves the free parameters of a sketch.System so that
// its constraints hold. Adapter is the seam between sketches and a
// numerical backend; Newton is the backend shipped with the module.
package solver

import (
	"fmt"

	"github.com/chazu/footwork/pkg/sketch"
)

// Status classifies the outcome of a solve.
type Status int

const (
	Solved        Status = iota // every constraint holds
	Inconsistent                // constraints contradict each other
	Nonconvergent               // iteration budget exhausted
	Unsolved                    // no solve has run; never returned by an Adapter
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Inconsistent:
		return "inconsistent"
	case Nonconvergent:
		return "nonconvergent"
	case Unsolved:
		return "unsolved"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText lets reports carry the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result reports what a solve did.
type Result struct {
	Status Status `json:"status" yaml:"status"`

	// DOF is the number of free parameters left undetermined.
	DOF int `json:"dof" yaml:"dof"`

	// Failed lists the offending constraints when Status is not Solved.
	Failed []sketch.ConstraintID `json:"failed,omitempty" yaml:"failed,omitempty"`

	// Redundant lists constraints that hold but repeat others.
	Redundant []sketch.ConstraintID `json:"redundant,omitempty" yaml:"redundant,omitempty"`

	Iterations int     `json:"iterations" yaml:"iterations"`
	Residual   float64 `json:"residual" yaml:"residual"`
}

// OK reports whether the solve succeeded.
func (r Result) OK() bool { return r.Status == Solved }

// Adapter solves the parameters of one group of a system in place.
// Parameters of other groups are read but never written.
type Adapter interface {
	Solve(sys *sketch.System, group sketch.Group) Result
}

// Config tunes the Newton adapter.
type Config struct {
	// Tolerance is the largest absolute residual accepted as satisfied,
	// in base units.
	Tolerance float64 `validate:"gt=0"`

	// MaxIterations bounds the number of Newton steps.
	MaxIterations int `validate:"gte=1,lte=100000"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Tolerance:     1e-10,
		MaxIterations: 50,
	}
}
