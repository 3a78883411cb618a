package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// OutputHandler writes user-facing command output, respecting quiet mode
type OutputHandler struct {
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

func newOutput(cmd *cobra.Command, quiet bool) *OutputHandler {
	return &OutputHandler{
		quiet:  quiet,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
}

// Print writes to stdout unless quiet
func (o *OutputHandler) Print(format string, args ...any) {
	if !o.quiet {
		fmt.Fprintf(o.stdout, format, args...)
	}
}

// Error writes to stderr unless quiet
func (o *OutputHandler) Error(format string, args ...any) {
	if !o.quiet {
		fmt.Fprintf(o.stderr, format, args...)
	}
}

// IsTerminal reports whether stdout is an interactive terminal
func (o *OutputHandler) IsTerminal() bool {
	f, ok := o.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (o *OutputHandler) Stdout() io.Writer {
	if o.quiet {
		return io.Discard
	}
	return o.stdout
}
