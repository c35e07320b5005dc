// Config loading for the footwork CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/units"
	"github.com/chazu/footwork/pkg/validate"
)

const (
	configFileName = "footwork"
	configFileType = "yaml"
	configFileExt  = "footwork.yaml"

	// configDirEnv overrides the default configuration directory.
	configDirEnv = "FOOTWORK_CONFIG_DIR"

	cfgKeyBaseUnit      = "base_unit"
	cfgKeyDisplayUnit   = "display_unit"
	cfgKeyTolerance     = "tolerance"
	cfgKeyMaxIterations = "max_iterations"
	cfgKeyMinClearance  = "min_clearance"
	cfgKeyLogLevel      = "log_level"
	cfgKeyLogFormat     = "log_format"
)

// defaultConfigYAML is written to footwork.yaml on first run.
const defaultConfigYAML = `# footwork configuration

# Unit the solver stores lengths in, and unit scripts and output use.
base_unit: mm
display_unit: mm

# Solver settings. tolerance is in the display unit.
tolerance: 1e-10
max_iterations: 50

# Pads closer than this draw a warning. A bare number is in the display unit.
min_clearance: 0.2mm

# debug, info, warn or error; text or json.
log_level: warn
log_format: text
`

// settings is everything the commands need, resolved from config and flags.
type settings struct {
	Footprint footprint.Config
	Validate  validate.Options
	Logger    *slog.Logger
}

// resolveConfigDir returns the configuration directory:
// --config-dir flag > FOOTWORK_CONFIG_DIR env > $(CWD)/.footwork.
func resolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(configDirEnv); env != "" {
		return env, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(cwd, ".footwork"), nil
}

// loadConfig reads footwork.yaml from configDir using Viper. It creates the
// directory and a default footwork.yaml on first run. A missing file is not
// an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	def := footprint.DefaultConfig()
	v := viper.New()
	v.SetDefault(cfgKeyBaseUnit, def.BaseUnit.String())
	v.SetDefault(cfgKeyDisplayUnit, def.DisplayUnit.String())
	v.SetDefault(cfgKeyTolerance, def.Tolerance)
	v.SetDefault(cfgKeyMaxIterations, def.MaxIterations)
	v.SetDefault(cfgKeyMinClearance, validate.DefaultOptions().MinClearance.String())
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default footwork.yaml if the file does
// not exist in configDir.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadSettings turns the merged configuration into footprint and validation
// options. Log output goes to logOut.
func loadSettings(v *viper.Viper, logOut io.Writer) (settings, error) {
	var s settings

	logger, err := newLogger(v.GetString(cfgKeyLogLevel), v.GetString(cfgKeyLogFormat), logOut)
	if err != nil {
		return s, err
	}

	cfg := footprint.DefaultConfig()
	if cfg.BaseUnit, err = units.ParseUnit(v.GetString(cfgKeyBaseUnit)); err != nil {
		return s, fmt.Errorf("%s: %w", cfgKeyBaseUnit, err)
	}
	if cfg.DisplayUnit, err = units.ParseUnit(v.GetString(cfgKeyDisplayUnit)); err != nil {
		return s, fmt.Errorf("%s: %w", cfgKeyDisplayUnit, err)
	}
	cfg.Tolerance = v.GetFloat64(cfgKeyTolerance)
	cfg.MaxIterations = v.GetInt(cfgKeyMaxIterations)
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		return s, err
	}

	opts := validate.DefaultOptions()
	if raw := v.GetString(cfgKeyMinClearance); raw != "" {
		q, err := units.ParseQuantity(raw, cfg.DisplayUnit)
		if err != nil {
			return s, fmt.Errorf("%s: %w", cfgKeyMinClearance, err)
		}
		opts.MinClearance = q
	}

	return settings{Footprint: cfg, Validate: opts, Logger: logger}, nil
}

// newLogger builds a text or JSON slog handler at the named level.
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%s: %w", cfgKeyLogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%s: unknown format %q", cfgKeyLogFormat, format)
}
