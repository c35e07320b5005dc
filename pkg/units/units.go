// Package units converts lengths between the unit a footprint is authored in
// and the base unit the sketch parameters are stored in.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit identifies a length unit.
type Unit int

const (
	UnitNone Unit = iota // unset
	Nanometer
	Micrometer
	Millimeter
	Mil // thousandth of an inch
	Inch
)

// Conversion constants, expressed in nanometers per unit.
const (
	NanometersPerMicrometer = 1e3
	NanometersPerMillimeter = 1e6
	NanometersPerMil        = 25.4e3
	NanometersPerInch       = 25.4e6
)

func (u Unit) String() string {
	switch u {
	case Nanometer:
		return "nm"
	case Micrometer:
		return "um"
	case Millimeter:
		return "mm"
	case Mil:
		return "mil"
	case Inch:
		return "in"
	case UnitNone:
		return ""
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// nanometers returns the size of one u in nanometers.
func (u Unit) nanometers() float64 {
	switch u {
	case Nanometer:
		return 1
	case Micrometer:
		return NanometersPerMicrometer
	case Millimeter:
		return NanometersPerMillimeter
	case Mil:
		return NanometersPerMil
	case Inch:
		return NanometersPerInch
	}
	return 0
}

// Valid reports whether u is a known, set unit.
func (u Unit) Valid() bool {
	return u.nanometers() > 0
}

// ParseUnit resolves a unit name such as "mm", "mil" or "inch".
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nm", "nanometer", "nanometers":
		return Nanometer, nil
	case "um", "µm", "micrometer", "micrometers", "micron":
		return Micrometer, nil
	case "mm", "millimeter", "millimeters":
		return Millimeter, nil
	case "mil", "mils", "thou":
		return Mil, nil
	case "in", "inch", "inches":
		return Inch, nil
	}
	return UnitNone, fmt.Errorf("units: unknown unit %q", name)
}

// MarshalText writes the unit by name.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText accepts any name ParseUnit does. Empty text is UnitNone.
func (u *Unit) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*u = UnitNone
		return nil
	}
	v, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Quantity is a length together with the unit it was written in. A
// quantity without a unit is in whatever unit the reader defaults to.
type Quantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// MM returns v millimeters.
func MM(v float64) Quantity { return Quantity{Value: v, Unit: Millimeter} }

// Mils returns v mils.
func Mils(v float64) Quantity { return Quantity{Value: v, Unit: Mil} }

// Inches returns v inches.
func Inches(v float64) Quantity { return Quantity{Value: v, Unit: Inch} }

// To converts q to target. A quantity without a unit is returned unchanged,
// as is a conversion to an unknown unit.
func (q Quantity) To(target Unit) float64 {
	from, to := q.Unit.nanometers(), target.nanometers()
	if from == 0 || to == 0 || from == to {
		return q.Value
	}
	return q.Value * from / to
}

func (q Quantity) String() string {
	s := strconv.FormatFloat(q.Value, 'f', -1, 64)
	if q.Unit == UnitNone {
		return s
	}
	return s + " " + q.Unit.String()
}

// ParseQuantity parses "1.27mm", "50 mil" or a bare number. A bare number
// takes the fallback unit.
func ParseQuantity(s string, fallback Unit) (Quantity, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Quantity{}, fmt.Errorf("units: empty quantity")
	}
	i := len(v)
	for i > 0 && !isNumberByte(v[i-1]) {
		i--
	}
	num, suffix := strings.TrimSpace(v[:i]), strings.TrimSpace(v[i:])
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("units: parse %q: %w", s, err)
	}
	if suffix == "" {
		return Quantity{Value: f, Unit: fallback}, nil
	}
	u, err := ParseUnit(suffix)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: f, Unit: u}, nil
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}
