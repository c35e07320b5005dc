// Package validate checks a footprint for problems the solver cannot see:
// unsolved or failed systems, missing or duplicated pins, degenerate pads
// and pads that touch or crowd each other.
package validate

import (
	"fmt"
	"strings"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/kernel"
	"github.com/chazu/footwork/pkg/kernel/sdfx"
	"github.com/chazu/footwork/pkg/solver"
	"github.com/chazu/footwork/pkg/units"
)

// Severity indicates whether a finding blocks output or is informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks output
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText lets reports carry the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ValidationError describes a single finding.
type ValidationError struct {
	NodeID   string   `json:"node,omitempty" yaml:"node,omitempty"` // empty for footprint-level findings
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}

func (e ValidationError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  string `json:"node,omitempty" yaml:"node,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (w ValidationWarning) String() string {
	return ValidationError{NodeID: w.NodeID, Message: w.Message, Severity: SeverityWarning}.Error()
}

// Result bundles errors (blocking) and warnings (advisory) from all tiers.
type Result struct {
	Errors   []ValidationError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// OK reports whether there are no blocking findings.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Options tunes the geometric tier.
type Options struct {
	// MinClearance is the copper-to-copper distance below which adjacent
	// pads draw a warning. A unitless value is in the display unit.
	MinClearance units.Quantity

	// Kernel evaluates clearances. Nil means the sdfx kernel.
	Kernel kernel.Kernel
}

// DefaultOptions warns below 0.2 mm of clearance.
func DefaultOptions() Options {
	return Options{MinClearance: units.MM(0.2)}
}

func (o Options) kernel() kernel.Kernel {
	if o.Kernel != nil {
		return o.Kernel
	}
	return sdfx.New()
}

// Validate runs the structural checks and returns their findings. An empty
// slice means the footprint is structurally sound. It never mutates fp.
func Validate(fp *footprint.Footprint) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateSolved(fp)...)
	errs = append(errs, validatePads(fp)...)
	errs = append(errs, validatePins(fp)...)
	return errs
}

// ValidateAll runs the structural and geometric tiers and separates errors
// from warnings.
func ValidateAll(fp *footprint.Footprint, opts Options) Result {
	// Tier 1: structural.
	tier1 := Validate(fp)

	// Tier 2: geometric.
	tier2Errs, tier2Warnings := validateGeometry(fp, opts)

	var result Result
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)
	return result
}

// ---------------------------------------------------------------------------
// Tier 1: Structural validation
// ---------------------------------------------------------------------------

// validateSolved reports a footprint whose current values are not a
// solution of its constraints.
func validateSolved(fp *footprint.Footprint) []ValidationError {
	if !fp.Solved() {
		return []ValidationError{{
			Message:  "footprint has not been solved since its last change",
			Severity: SeverityError,
		}}
	}
	res := fp.Result()
	if res.Status == solver.Solved {
		return nil
	}
	names := make([]string, 0, len(res.Failed))
	for _, id := range res.Failed {
		if c := fp.System().Constraint(id); c != nil {
			names = append(names, c.String())
		}
	}
	return []ValidationError{{
		Message:  fmt.Sprintf("solve %s; offending constraints: %s", res.Status, strings.Join(names, ", ")),
		Severity: SeverityError,
	}}
}

// validatePads warns about a footprint with nothing to place.
func validatePads(fp *footprint.Footprint) []ValidationError {
	if len(fp.Pads()) > 0 {
		return nil
	}
	return []ValidationError{{
		Message:  "footprint has no pads",
		Severity: SeverityWarning,
	}}
}

// validatePins warns when two pads share a pin number. KiCad accepts this
// for pads that are meant to be connected, so it is not an error.
func validatePins(fp *footprint.Footprint) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]string) // pin -> first pad id

	for _, p := range fp.Pads() {
		if p.Pin == "" {
			errs = append(errs, ValidationError{
				NodeID:   p.NodeID(),
				Message:  "pad has no pin number",
				Severity: SeverityError,
			})
			continue
		}
		if first, ok := seen[p.Pin]; ok {
			errs = append(errs, ValidationError{
				NodeID:   p.NodeID(),
				Message:  fmt.Sprintf("pin %s is already used by pad %s", p.Pin, first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[p.Pin] = p.NodeID()
	}
	return errs
}
