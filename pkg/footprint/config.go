package footprint

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chazu/footwork/pkg/solver"
	"github.com/chazu/footwork/pkg/units"
)

// Config controls how a footprint stores, solves and prints its geometry.
type Config struct {
	// BaseUnit is the unit sketch parameters are stored in.
	BaseUnit units.Unit `json:"base_unit" yaml:"base_unit" validate:"unit"`

	// DisplayUnit is the unit nominal values are written in and the output
	// is printed in. Unitless quantities are taken to be in it.
	DisplayUnit units.Unit `json:"display_unit" yaml:"display_unit" validate:"unit"`

	// Tolerance is the largest residual accepted by the default solver, in
	// display units.
	Tolerance float64 `json:"tolerance" yaml:"tolerance" validate:"gt=0"`

	// MaxIterations bounds the default solver.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" validate:"gte=1,lte=100000"`

	// Timestamp is written as the output's tedit field. Zero means the time
	// the footprint was created.
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty" validate:"-"`

	// Solver overrides the Newton adapter built from Tolerance and
	// MaxIterations.
	Solver solver.Adapter `json:"-" yaml:"-" validate:"-"`

	Logger *slog.Logger `json:"-" yaml:"-" validate:"-"`
}

// DefaultConfig works in millimeters throughout.
func DefaultConfig() Config {
	return Config{
		BaseUnit:      units.Millimeter,
		DisplayUnit:   units.Millimeter,
		Tolerance:     1e-10,
		MaxIterations: 50,
	}
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("unit", validateUnit)
}

func validateUnit(fl validator.FieldLevel) bool {
	return units.Unit(fl.Field().Int()).Valid()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("footprint: %w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Units returns the converter nodes use.
func (c Config) Units() units.System {
	return units.System{Base: c.BaseUnit, Display: c.DisplayUnit}
}

// solverConfig converts the display-unit tolerance to base units.
func (c Config) solverConfig() solver.Config {
	return solver.Config{
		Tolerance:     units.Quantity{Value: c.Tolerance, Unit: c.DisplayUnit}.To(c.BaseUnit),
		MaxIterations: c.MaxIterations,
	}
}

func (c Config) adapter() solver.Adapter {
	if c.Solver != nil {
		return c.Solver
	}
	return solver.NewNewton(c.solverConfig())
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
