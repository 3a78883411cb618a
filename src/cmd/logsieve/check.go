package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"logsieve/src/internal/config"
	"logsieve/src/internal/filter"
	"logsieve/src/internal/filter/builtin"
	"logsieve/src/internal/service"

	"github.com/spf13/cobra"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [chains-file]",
		Short: "Validate a chains file and list the filters of every appender",
		Long: `Load the chains file, build every filter chain in strict mode and print each
appender's filters in evaluation order. Exits non-zero on the first invalid
filter, naming its appender and position.

On a terminal the listing is aligned with a header; otherwise it is one
tab-separated row per filter.`,
		Example: `  logsieve check chains.yaml
  logsieve check -c /etc/logsieve/logsieve.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, flags.quiet)

			var overrides map[string]string
			if len(args) == 1 {
				overrides = map[string]string{"chains_file": args[0]}
			}
			cfg, err := loadConfig(flags, overrides)
			if err != nil {
				return err
			}

			// Only problems are logged while checking
			if flags.logLevel == "" {
				cfg.Logging.Level = "warn"
			}
			logger, err := initializeLogger(cfg.Logging, flags.quiet)
			if err != nil {
				return err
			}
			defer shutdownLogger(logger, out)

			chains, err := config.LoadChains(cfg.ChainsFile)
			if err != nil {
				return fmt.Errorf("failed to load chains: %w", err)
			}

			registry, err := builtin.NewRegistry(logger)
			if err != nil {
				return err
			}

			built, err := service.BuildChains(registry, chains, true)
			if err != nil {
				return err
			}

			return printChains(out.Stdout(), out.IsTerminal(), chains, built)
		},
	}
}

// printChains lists appenders and their filters. The plain form has no header
// and one tab-separated row per filter; appenders without filters get a row
// of dashes.
func printChains(w io.Writer, aligned bool, chains *config.ChainsConfig, built map[string]*filter.Chain) error {
	out := w
	var tw *tabwriter.Writer
	if aligned {
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		out = tw
		fmt.Fprintln(out, "APPENDER\tFORMAT\tTARGET\t#\tKIND\tFILTER")
	}

	for _, a := range chains.Appenders {
		chain := built[a.Name]
		filters := chain.Filters()
		if len(filters) == 0 {
			fmt.Fprintf(out, "%s\t%s\t%s\t-\t-\t-\n", a.Name, a.Format, a.Target)
			continue
		}
		for i, f := range filters {
			kind := "-"
			if i < len(a.Filters) {
				kind = a.Filters[i].Kind
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
				a.Name, a.Format, a.Target, strconv.Itoa(i), kind, f.String())
		}
	}

	if tw != nil {
		return tw.Flush()
	}
	return nil
}
