package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/footwork/pkg/kicad"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.kicad_mod>",
	Short: "Print the pads of a module file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0], inspectJSON, cmd.OutOrStdout())
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print as JSON instead of YAML")
}

// runInspect parses a module file and prints it.
func runInspect(path string, asJSON bool, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return sysError(fmt.Errorf("open module: %w", err))
	}
	defer f.Close()

	m, err := kicad.Parse(f)
	if err != nil {
		return userError(fmt.Errorf("%s: %w", path, err))
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return sysError(err)
		}
		return nil
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return sysError(err)
	}
	if err := enc.Close(); err != nil {
		return sysError(err)
	}
	return nil
}
