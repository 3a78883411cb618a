package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"logsieve/src/internal/service"
	"logsieve/src/internal/source"

	"github.com/spf13/cobra"
)

type runFlags struct {
	chainsFile     string
	strict         bool
	workers        int64
	status         bool
	statusPort     int64
	dropOnFull     bool
	reportInterval time.Duration
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	rf := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter stdin through the configured appenders",
		Long: `Read newline-delimited log entries from stdin until EOF or SIGINT/SIGTERM.
Every entry is offered to each appender, which writes it to its target unless a
filter in its chain rejects it. SIGHUP (or SIGUSR1) reloads the chains file; a
reload that fails keeps every current chain.`,
		Example: `  tail -f app.log | logsieve run --chains chains.yaml
  logsieve run -c /etc/logsieve/logsieve.toml --status --status-port 9470 < app.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runService(cmd, flags, rf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rf.chainsFile, "chains", "", "chains file (TOML, YAML or JSON, overrides config)")
	f.BoolVar(&rf.strict, "strict", true, "fail on invalid filters instead of skipping them (overrides config)")
	f.Int64Var(&rf.workers, "workers", 1, "goroutines evaluating entries, above one output order is not kept (overrides config)")
	f.BoolVar(&rf.status, "status", false, "enable the HTTP status and metrics endpoint (overrides config)")
	f.Int64Var(&rf.statusPort, "status-port", 0, "status endpoint port (overrides config)")
	f.BoolVar(&rf.dropOnFull, "drop-on-full", false, "drop input entries instead of waiting when processing falls behind")
	f.DurationVar(&rf.reportInterval, "report-interval", 30*time.Second, "period of debug status reports in the log, 0 disables")

	return cmd
}

// overrides maps explicitly set flags onto config keys
func (rf *runFlags) overrides(cmd *cobra.Command) map[string]string {
	o := make(map[string]string)
	f := cmd.Flags()
	if f.Changed("chains") {
		o["chains_file"] = rf.chainsFile
	}
	if f.Changed("strict") {
		o["strict"] = strconv.FormatBool(rf.strict)
	}
	if f.Changed("workers") {
		o["workers"] = strconv.FormatInt(rf.workers, 10)
	}
	if f.Changed("status") {
		o["status.enabled"] = strconv.FormatBool(rf.status)
	}
	if f.Changed("status-port") {
		o["status.port"] = strconv.FormatInt(rf.statusPort, 10)
	}
	return o
}

func runService(cmd *cobra.Command, flags *globalFlags, rf *runFlags) error {
	out := newOutput(cmd, flags.quiet)

	cfg, err := loadConfig(flags, rf.overrides(cmd))
	if err != nil {
		return err
	}

	logger, err := initializeLogger(cfg.Logging, flags.quiet)
	if err != nil {
		return err
	}
	defer shutdownLogger(logger, out)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := bootstrapService(ctx, cfg, service.Options{
		Strict:     cfg.Strict,
		Workers:    int(cfg.Workers),
		BufferSize: cfg.BufferSize,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}, logger)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap service",
			"component", "main",
			"error", err)
		return err
	}

	src := source.NewReaderSource(cmd.InOrStdin(), source.ReaderOptions{
		Name:       "stdin",
		BufferSize: cfg.BufferSize,
		DropOnFull: rf.dropOnFull,
	}, logger)
	if err := rt.service.Run(src); err != nil {
		rt.shutdown()
		return err
	}

	rm := NewReloadManager(cfg.ChainsFile, rt.service, logger)
	sh := NewSignalHandler(rm.TriggerReload, logger)
	defer sh.Stop()

	if rf.reportInterval > 0 {
		go statusReporter(ctx, rt.service, rf.reportInterval, logger)
	}

	sig := sh.Wait(ctx, src.Done())
	if sig == nil && ctx.Err() == nil {
		logger.Info("msg", "Input exhausted, draining appenders", "component", "main")
		rt.service.Close()
		rt.shutdown()
		logger.Info("msg", "Shutdown complete", "component", "main")
		return nil
	}

	logger.Info("msg", "Shutdown signal received, starting graceful shutdown...",
		"component", "main",
		"signal", fmt.Sprint(sig))

	done := make(chan struct{})
	go func() {
		rt.shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete", "component", "main")
		return nil
	case <-time.After(10 * time.Second):
		logger.Error("msg", "Shutdown timeout exceeded", "component", "main")
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
