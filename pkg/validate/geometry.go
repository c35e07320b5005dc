package validate

import (
	"fmt"
	"math"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/kernel"
	"github.com/chazu/footwork/pkg/shape"
)

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// overlapSlack absorbs solver noise on pads that are meant to touch.
const overlapSlack = 1e-9

// validateGeometry runs all geometric checks in display units.
func validateGeometry(fp *footprint.Footprint, opts Options) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateDimensions(fp)...)

	spacingErrs, spacingWarnings := validateSpacing(fp, opts)
	errs = append(errs, spacingErrs...)
	warnings = append(warnings, spacingWarnings...)

	return errs, warnings
}

// validateDimensions checks that every pad has positive width and height.
func validateDimensions(fp *footprint.Footprint) []ValidationError {
	var errs []ValidationError
	unit := fp.Units().Display

	for _, p := range fp.Pads() {
		r := p.Record()
		if !(r.Width > overlapSlack) {
			errs = append(errs, ValidationError{
				NodeID:   p.NodeID(),
				Message:  fmt.Sprintf("pad width is %.4f %s, must be positive", r.Width, unit),
				Severity: SeverityError,
			})
		}
		if !(r.Height > overlapSlack) {
			errs = append(errs, ValidationError{
				NodeID:   p.NodeID(),
				Message:  fmt.Sprintf("pad height is %.4f %s, must be positive", r.Height, unit),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// padRect returns the pad's copper in display units.
func padRect(p *shape.Pad) kernel.Rect {
	r := p.Record()
	return kernel.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
}

// validateSpacing compares every pair of pads: overlapping copper is an
// error, copper closer than opts.MinClearance is a warning.
func validateSpacing(fp *footprint.Footprint, opts Options) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	k := opts.kernel()
	unit := fp.Units().Display
	minClear := opts.MinClearance.Value
	if opts.MinClearance.Unit.Valid() {
		minClear = opts.MinClearance.To(unit)
	}

	pads := fp.Pads()
	for i := 0; i < len(pads); i++ {
		a := padRect(pads[i])
		if !a.Valid() {
			continue // reported by validateDimensions
		}
		for j := i + 1; j < len(pads); j++ {
			b := padRect(pads[j])
			if !b.Valid() {
				continue
			}
			c, err := kernel.Clearance(k, a, b)
			if err != nil {
				errs = append(errs, ValidationError{
					NodeID:   pads[j].NodeID(),
					Message:  err.Error(),
					Severity: SeverityError,
				})
				continue
			}
			switch {
			case c < -overlapSlack:
				errs = append(errs, ValidationError{
					NodeID:   pads[j].NodeID(),
					Message:  fmt.Sprintf("pad overlaps pad %s by %.4f %s", pads[i].NodeID(), -c, unit),
					Severity: SeverityError,
				})
			case c < minClear-overlapSlack && !math.IsNaN(c):
				warnings = append(warnings, ValidationWarning{
					NodeID:  pads[j].NodeID(),
					Message: fmt.Sprintf("clearance to pad %s is %.4f %s, below %.4f %s", pads[i].NodeID(), math.Max(c, 0), unit, minClear, unit),
				})
			}
		}
	}
	return errs, warnings
}
