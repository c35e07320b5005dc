package units

// Converter is the unit collaborator used at the edges of a sketch: nominal
// values enter through ToBase, solved values leave through FromBase.
type Converter interface {
	ToBase(q Quantity) float64
	FromBase(v float64) Quantity
}

// System pairs the base unit that parameters are stored in with the display
// unit that values are read and written in.
type System struct {
	Base    Unit
	Display Unit
}

var _ Converter = System{}

// DefaultSystem stores and displays millimeters.
func DefaultSystem() System {
	return System{Base: Millimeter, Display: Millimeter}
}

// ToBase converts q to the base unit. A quantity without a unit is taken to
// be in the display unit.
func (s System) ToBase(q Quantity) float64 {
	if q.Unit == UnitNone {
		q.Unit = s.Display
	}
	return q.To(s.Base)
}

// FromBase converts a base-unit value to a display-unit quantity.
func (s System) FromBase(v float64) Quantity {
	return Quantity{Value: Quantity{Value: v, Unit: s.Base}.To(s.Display), Unit: s.Display}
}
