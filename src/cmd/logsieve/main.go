package main

import (
	"io"
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := &globalFlags{}
	rootCmd := newRootCmd(flags)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		out := &OutputHandler{quiet: flags.quiet, stdout: stdout, stderr: stderr}
		out.Error("Error: %v\n", err)
		return 1
	}
	return 0
}
