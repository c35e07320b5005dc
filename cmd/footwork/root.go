package main

import (
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagLogLevel  string
	flagLogFormat string
	flagUnit      string
)

// current holds the settings loaded by PersistentPreRunE.
var current settings

var rootCmd = &cobra.Command{
	Use:   "footwork",
	Short: "Build KiCad footprints from constraint scripts",
	Long: `footwork evaluates footprint scripts, solves their geometric
constraints and writes the result as KiCad modules.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		s, err := loadSettingsFor(cmd)
		if err != nil {
			return err
		}
		current = s
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.footwork)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagUnit, "unit", "", "display unit for scripts and output (nm, um, mm, mil, in)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(inspectCmd)
}

// loadSettingsFor resolves the config directory, reads footwork.yaml and
// lets the global flags override it.
func loadSettingsFor(cmd *cobra.Command) (settings, error) {
	dir, err := resolveConfigDir(flagConfigDir)
	if err != nil {
		return settings{}, sysError(err)
	}
	v, err := loadConfig(dir)
	if err != nil {
		return settings{}, sysError(err)
	}

	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		cfgKeyLogLevel:    "log-level",
		cfgKeyLogFormat:   "log-format",
		cfgKeyDisplayUnit: "unit",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return settings{}, sysError(err)
		}
	}

	s, err := loadSettings(v, cmd.ErrOrStderr())
	if err != nil {
		return settings{}, userError(err)
	}
	return s, nil
}
