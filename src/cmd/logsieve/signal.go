package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/lixenwraith/log"
)

var (
	shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	reloadSignals   = []os.Signal{syscall.SIGHUP, syscall.SIGUSR1}
)

// SignalHandler waits for shutdown signals and runs reload on reload signals
type SignalHandler struct {
	reload  func(context.Context) error
	logger  *log.Logger
	signals chan os.Signal
}

func NewSignalHandler(reload func(context.Context) error, logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		reload:  reload,
		logger:  logger,
		signals: make(chan os.Signal, 1),
	}
	signal.Notify(sh.signals, slices.Concat(shutdownSignals, reloadSignals)...)
	return sh
}

// Wait blocks until a shutdown signal arrives, done closes or ctx is
// cancelled. It returns the shutdown signal, or nil in the other two cases.
func (sh *SignalHandler) Wait(ctx context.Context, done <-chan struct{}) os.Signal {
	for {
		select {
		case sig := <-sh.signals:
			if !slices.Contains(reloadSignals, sig) {
				return sig
			}
			sh.logger.Info("msg", "Reload signal received",
				"component", "signal_handler",
				"signal", sig.String())
			// Errors are logged by the reload itself
			go func() { _ = sh.reload(ctx) }()
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (sh *SignalHandler) Stop() {
	signal.Stop(sh.signals)
}
