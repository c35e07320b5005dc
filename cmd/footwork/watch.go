package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chazu/footwork/pkg/preview"
)

// defaultDebounce collapses the burst of events an editor save produces.
const defaultDebounce = 100 * time.Millisecond

var watchFlags struct {
	buildOptions
	Debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Rebuild a script every time it changes",
	Long: `Build the script once, then rebuild it whenever the file is written.
The module is rewritten after every clean build. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := watchFlags.buildOptions
		opts.Write = true
		app := NewApp(current)
		out := cmd.OutOrStdout()
		onBuild := func(res BuildResult) {
			if err := writeOutputs(app, res, opts, preview.SVG); err != nil {
				app.log.Error("write outputs", "script", res.Script, "error", err)
			}
			if err := summarize(out, res); err != nil {
				app.log.Error("print summary", "error", err)
			}
		}
		err := watchScript(cmd.Context(), app, args[0], watchFlags.Debounce, onBuild)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.OutDir, "out-dir", "", "output directory (default: next to the script)")
	watchCmd.Flags().BoolVar(&watchFlags.Report, "report", false, "write a YAML build report after every build")
	watchCmd.Flags().DurationVar(&watchFlags.Debounce, "debounce", defaultDebounce, "quiet period before rebuilding")
}

// watchScript builds path once and again after every write to it, calling
// onBuild with each result. It watches the script's directory so editors
// that save by rename keep being followed. It returns when ctx is done.
func watchScript(ctx context.Context, app *App, path string, debounce time.Duration, onBuild func(BuildResult)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return sysError(fmt.Errorf("resolve script path: %w", err))
	}
	if _, err := os.Stat(abs); err != nil {
		return sysError(fmt.Errorf("stat script: %w", err))
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return sysError(fmt.Errorf("create watcher: %w", err))
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return sysError(fmt.Errorf("watch %s: %w", filepath.Dir(abs), err))
	}

	rebuild := func() {
		src, err := os.ReadFile(abs)
		if err != nil {
			// Mid-rename; the next event brings the file back.
			app.log.Debug("read script", "path", abs, "error", err)
			return
		}
		res := app.Evaluate(ctx, scriptName(abs), string(src))
		res.Script = path
		onBuild(res)
	}

	rebuild()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, abs) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			rebuild()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			app.log.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether ev changes the content of the watched file.
func relevant(ev fsnotify.Event, abs string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
