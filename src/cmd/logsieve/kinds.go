package main

import (
	"logsieve/src/internal/filter/builtin"

	"github.com/lixenwraith/log"
	"github.com/spf13/cobra"
)

func newKindsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the filter kinds available in chains files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := builtin.NewRegistry(log.NewLogger())
			if err != nil {
				return err
			}

			out := newOutput(cmd, flags.quiet)
			for _, kind := range registry.Kinds() {
				out.Print("%s\n", kind)
			}
			return nil
		},
	}
}
