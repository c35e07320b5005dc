package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/chazu/footwork/pkg/preview"
)

// buildOptions controls what a build writes.
type buildOptions struct {
	// Write enables output files. check runs with it off.
	Write bool

	// OutDir receives the outputs. Empty means next to each script.
	OutDir string

	// Preview is "", "svg" or "pdf".
	Preview string

	// Report writes <name>.yaml with the build result.
	Report bool

	// JSON prints results as JSON instead of a summary.
	JSON bool

	// Jobs bounds parallel builds; zero or less means unbounded.
	Jobs int
}

var buildFlags buildOptions

var buildCmd = &cobra.Command{
	Use:   "build <script>...",
	Short: "Evaluate, solve and write footprints",
	Long: `Evaluate each script, solve its constraints and write <name>.kicad_mod
for every footprint that solves and validates. Scripts are built in parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := buildFlags
		opts.Write = true
		return runBuild(cmd.Context(), NewApp(current), args, opts, cmd.OutOrStdout())
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildFlags.OutDir, "out-dir", "", "output directory (default: next to each script)")
	buildCmd.Flags().StringVar(&buildFlags.Preview, "preview", "", "also draw a preview: svg or pdf")
	buildCmd.Flags().BoolVar(&buildFlags.Report, "report", false, "write a YAML build report per script")
	buildCmd.Flags().BoolVar(&buildFlags.JSON, "json", false, "print results as JSON")
	buildCmd.Flags().IntVarP(&buildFlags.Jobs, "jobs", "j", 0, "maximum parallel builds (default: unbounded)")
}

// runBuild builds every script and reports the results in argument order.
func runBuild(ctx context.Context, app *App, scripts []string, opts buildOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var format preview.Format
	if opts.Preview != "" {
		f, err := preview.ParseFormat(opts.Preview)
		if err != nil {
			return userError(err)
		}
		format = f
	}
	if opts.Write && opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return sysError(fmt.Errorf("create output dir: %w", err))
		}
	}

	results := make([]BuildResult, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, path := range scripts {
		g.Go(func() error {
			res, err := app.BuildFile(gctx, path)
			if err != nil {
				return sysError(err)
			}
			results[i] = res
			if !opts.Write {
				return nil
			}
			return writeOutputs(app, res, opts, format)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := report(out, results, opts.JSON); err != nil {
		return sysError(err)
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return userError(fmt.Errorf("%d of %d footprints failed", failed, len(results)))
	}
	return nil
}

// outputBase returns the path of a script's outputs without extension.
func outputBase(res BuildResult, opts buildOptions) string {
	dir := opts.OutDir
	if dir == "" {
		dir = filepath.Dir(res.Script)
	}
	return filepath.Join(dir, scriptName(res.Script))
}

// writeOutputs writes the module and preview of a clean build, and the
// report of any build when asked to.
func writeOutputs(app *App, res BuildResult, opts buildOptions, format preview.Format) error {
	base := outputBase(res, opts)

	if opts.Report {
		data, err := yaml.Marshal(res)
		if err != nil {
			return sysError(fmt.Errorf("encode report: %w", err))
		}
		if err := os.WriteFile(base+".yaml", data, 0o644); err != nil {
			return sysError(fmt.Errorf("write report: %w", err))
		}
	}

	if !res.OK() {
		return nil
	}
	if err := os.WriteFile(base+".kicad_mod", []byte(res.Output), 0o644); err != nil {
		return sysError(fmt.Errorf("write module: %w", err))
	}
	app.log.Info("wrote module", "footprint", res.Name, "path", base+".kicad_mod")

	if opts.Preview == "" {
		return nil
	}
	var buf bytes.Buffer
	popts := preview.DefaultOptions()
	popts.Kernel = app.kernel
	if err := preview.Render(&buf, res.Footprint(), format, popts); err != nil {
		return sysError(fmt.Errorf("render preview: %w", err))
	}
	if err := os.WriteFile(base+"."+format.String(), buf.Bytes(), 0o644); err != nil {
		return sysError(fmt.Errorf("write preview: %w", err))
	}
	return nil
}

// report prints results as JSON or as a short summary per script.
func report(out io.Writer, results []BuildResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		if err := summarize(out, r); err != nil {
			return err
		}
	}
	return nil
}

func summarize(out io.Writer, r BuildResult) error {
	label := r.Script
	if label == "" {
		label = r.Name
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s: %s %s (dof %d)\n", label, r.Name, r.Status, r.DOF)
	for _, e := range r.Errors {
		if e.Line > 0 {
			fmt.Fprintf(&b, "  error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(&b, "  error: %s\n", e.Message)
		}
	}
	for _, c := range r.Failed {
		fmt.Fprintf(&b, "  failed: %s\n", c)
	}
	for _, e := range r.Validation.Errors {
		fmt.Fprintf(&b, "  %s\n", e.Error())
	}
	for _, w := range r.Validation.Warnings {
		fmt.Fprintf(&b, "  %s\n", w.String())
	}
	_, err := out.Write(b.Bytes())
	return err
}
