package main

import (
	"fmt"
	"os"

	"logsieve/src/internal/config"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	quiet      bool
	logLevel   string
	logOutput  string
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logsieve",
		Short: "logsieve - filter log events through configurable chains",
		Long: `logsieve reads log entries from stdin and runs each one through the filter
chain of every configured appender. An entry is written by an appender unless
a filter in its chain rejects it.

Configuration sources (precedence: CLI > Env > File > Defaults):
  LOGSIEVE_CONFIG_FILE   Config file path (default: logsieve.toml)
  LOGSIEVE_CONFIG_DIR    Config directory
  LOGSIEVE_*             Any config key, e.g. LOGSIEVE_LOGGING_LEVEL=debug`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.configFile != "" {
				if err := os.Setenv(config.EnvConfigFile, flags.configFile); err != nil {
					return err
				}
			}
			if flags.logLevel != "" {
				if _, err := config.LogLevel(flags.logLevel); err != nil {
					return fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", flags.logLevel)
				}
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file path (default: logsieve.toml)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress all console output, including errors")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&flags.logOutput, "log-output", "", "log output: file, stdout, stderr, split, all, none (overrides config)")

	rootCmd.AddCommand(
		newRunCmd(flags),
		newCheckCmd(flags),
		newKindsCmd(flags),
		newInitCmd(flags),
		newVersionCmd(),
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nRun '%s --help' for usage", err, cmd.CommandPath())
	})
	return rootCmd
}

// loadConfig loads the application config with the given overrides applied
// as CLI arguments.
func loadConfig(flags *globalFlags, overrides map[string]string) (*config.Config, error) {
	var args []string
	if flags.logLevel != "" {
		args = append(args, "--logging.level="+flags.logLevel)
	}
	if flags.logOutput != "" {
		args = append(args, "--logging.output="+flags.logOutput)
	}
	for key, val := range overrides {
		args = append(args, fmt.Sprintf("--%s=%s", key, val))
	}

	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
