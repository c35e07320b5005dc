// Package main provides the footwork CLI, which turns footprint scripts into
// KiCad modules.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "footwork:", err)
		os.Exit(exitCode(err))
	}
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as the user's to fix: a bad script, an unsolved
// footprint, a bad flag.
func userError(err error) error { return &exitError{code: exitUserError, err: err} }

// sysError marks err as an environment failure: unreadable files, an
// unwritable output directory.
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error to an exit code. Unmarked errors come from cobra's
// own argument checks and count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}
