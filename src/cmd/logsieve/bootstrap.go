package main

import (
	"context"
	"fmt"
	"time"

	"logsieve/src/internal/config"
	"logsieve/src/internal/filter/builtin"
	"logsieve/src/internal/metrics"
	"logsieve/src/internal/service"
	"logsieve/src/internal/status"

	"github.com/lixenwraith/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// instance holds the components started for the run command
type instance struct {
	service *service.Service
	status  *status.Server
	chains  *config.ChainsConfig
}

// bootstrapService builds the appenders declared in the chains file and the
// optional status server. The caller starts the source.
func bootstrapService(ctx context.Context, cfg *config.Config, svcOpts service.Options, logger *log.Logger) (*instance, error) {
	chains, err := config.LoadChains(cfg.ChainsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load chains: %w", err)
	}

	registry, err := builtin.NewRegistry(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter registry: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(promRegistry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	svc := service.New(ctx, registry, svcOpts, m, logger)
	if err := svc.Load(chains); err != nil {
		return nil, err
	}

	rt := &instance{service: svc, chains: chains}

	if cfg.Status.Enabled {
		rt.status = status.New(*cfg.Status, svc.GetStats, promRegistry, logger)
		if err := rt.status.Start(ctx); err != nil {
			svc.Shutdown()
			return nil, err
		}
	}

	logger.Info("msg", "logsieve started",
		"component", "main",
		"chains_file", cfg.ChainsFile,
		"appenders", len(chains.Appenders),
		"strict", cfg.Strict,
		"workers", cfg.Workers)
	return rt, nil
}

// initializeLogger sets up the application logger from the logging section
func initializeLogger(cfg *config.LogConfig, quiet bool) (*log.Logger, error) {
	configArgs, err := cfg.LoggerArgs(quiet)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger()
	if err := logger.InitWithDefaults(configArgs...); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func shutdownLogger(logger *log.Logger, out *OutputHandler) {
	if logger == nil {
		return
	}
	if err := logger.Shutdown(2 * time.Second); err != nil {
		out.Error("Logger shutdown error: %v\n", err)
	}
}

// shutdown stops the status server and the service. Safe to call twice.
func (rt *instance) shutdown() {
	if rt.status != nil {
		rt.status.Stop()
	}
	rt.service.Shutdown()
}
