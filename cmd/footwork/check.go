package main

import (
	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <script>...",
	Short: "Evaluate, solve and validate scripts without writing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := buildOptions{JSON: checkJSON}
		return runBuild(cmd.Context(), NewApp(current), args, opts, cmd.OutOrStdout())
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print results as JSON")
}
