// Package service runs source entries through the filter chain of every
// appender.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"logsieve/src/internal/config"
	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"
	"logsieve/src/internal/format"
	"logsieve/src/internal/metrics"
	"logsieve/src/internal/sink"
	"logsieve/src/internal/source"

	"github.com/lixenwraith/log"
)

var ErrAppenderSetChanged = errors.New("appender set changed, restart required")

type Options struct {
	// Fail on invalid filters instead of skipping them
	Strict bool

	// Goroutines evaluating entries. Above one, output order across entries
	// is not preserved.
	Workers int

	// Sink channel capacity
	BufferSize int64

	// Streams for the "stdout" and "stderr" targets, default os.Stdout and
	// os.Stderr
	Stdout io.Writer
	Stderr io.Writer
}

// Service manages the appenders and feeds them from a source.
type Service struct {
	registry *filter.Registry
	opts     Options
	metrics  *metrics.Metrics
	logger   *log.Logger

	mu        sync.RWMutex
	appenders []*Appender
	source    source.Source

	// ctx stops the workers; sinks run under the caller's context so
	// Shutdown can still drain them
	ctx     context.Context
	cancel  context.CancelFunc
	sinkCtx context.Context
	wg      sync.WaitGroup

	startTime    time.Time
	totalEntries atomic.Uint64
	shutdownOnce sync.Once
}

// New creates a service with no appenders. m may be nil.
func New(ctx context.Context, registry *filter.Registry, opts Options, m *metrics.Metrics, logger *log.Logger) *Service {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	// Appenders sharing a stream write whole entries
	opts.Stdout = sink.NewSyncWriter(opts.Stdout)
	opts.Stderr = sink.NewSyncWriter(opts.Stderr)

	serviceCtx, cancel := context.WithCancel(ctx)
	return &Service{
		registry:  registry,
		opts:      opts,
		metrics:   m,
		logger:    logger,
		ctx:       serviceCtx,
		cancel:    cancel,
		sinkCtx:   ctx,
		startTime: time.Now(),
	}
}

// BuildChains builds the chain of every appender in the document, keyed by
// appender name.
func BuildChains(registry *filter.Registry, chains *config.ChainsConfig, strict bool) (map[string]*filter.Chain, error) {
	built := make(map[string]*filter.Chain, len(chains.Appenders))
	for i := range chains.Appenders {
		cfg := &chains.Appenders[i]
		chain, err := registry.BuildChain(cfg.Filters, strict)
		if err != nil {
			return nil, fmt.Errorf("appenders[%d] (%s): %w", i, cfg.Name, err)
		}
		built[cfg.Name] = chain
	}
	return built, nil
}

// Load creates and starts the appenders declared in chains. It may be called
// once, before Run.
func (s *Service) Load(chains *config.ChainsConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.appenders) > 0 {
		return fmt.Errorf("appenders already loaded")
	}

	built, err := BuildChains(s.registry, chains, s.opts.Strict)
	if err != nil {
		return err
	}

	appenders := make([]*Appender, 0, len(chains.Appenders))
	for i := range chains.Appenders {
		cfg := &chains.Appenders[i]

		formatter, err := format.New(cfg.Format, cfg.FormatOptions, s.logger)
		if err != nil {
			return fmt.Errorf("appenders[%d] (%s): %w", i, cfg.Name, err)
		}

		output := s.opts.Stdout
		if cfg.Target == "stderr" {
			output = s.opts.Stderr
		}

		snk := sink.NewConsoleSink(sink.ConsoleConfig{
			Name:       cfg.Name,
			Target:     cfg.Target,
			BufferSize: s.opts.BufferSize,
		}, output, formatter, s.logger)

		appenders = append(appenders, NewAppender(cfg.Name, built[cfg.Name], snk, s.metrics, s.logger))
	}

	for i, a := range appenders {
		if err := a.sink.Start(s.sinkCtx); err != nil {
			for _, started := range appenders[:i] {
				started.sink.Stop()
			}
			return fmt.Errorf("failed to start sink for appender '%s': %w", a.name, err)
		}
	}

	s.appenders = appenders
	s.logger.Info("msg", "Appenders loaded",
		"component", "service",
		"appender_count", len(appenders))
	return nil
}

// Run subscribes to src, starts it and the workers. Returns without waiting,
// use Wait or Shutdown.
func (s *Service) Run(src source.Source) error {
	s.mu.Lock()
	if s.source != nil {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	s.source = src
	appenders := s.appenders
	s.mu.Unlock()

	entries := src.Subscribe()
	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(entries, appenders)
	}

	if err := src.Start(); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}

	s.logger.Info("msg", "Service running",
		"component", "service",
		"workers", s.opts.Workers)
	return nil
}

// worker fans each entry out to every appender. Appenders evaluate their
// chains independently, so one entry may go to some outputs and not others.
// A panicking filter costs only the entry it was evaluating.
func (s *Service) worker(entries <-chan core.LogEntry, appenders []*Appender) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case entry, ok := <-entries:
			if !ok {
				return
			}
			s.totalEntries.Add(1)
			for _, a := range appenders {
				a.Append(entry)
			}
		}
	}
}

// Wait blocks until the source is exhausted and every entry has been handed
// to the appenders.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Reload rebuilds every chain from chains and swaps them in. Either all
// chains are replaced or, on any error, none are. The set of appender names
// must match the loaded one.
func (s *Service) Reload(chains *config.ChainsConfig) error {
	err := s.reload(chains)
	if err != nil {
		s.metrics.RecordReload(metrics.ReloadFailure)
		s.logger.Error("msg", "Chain reload failed, keeping current chains",
			"component", "service",
			"error", err)
		return err
	}
	s.metrics.RecordReload(metrics.ReloadSuccess)
	return nil
}

func (s *Service) reload(chains *config.ChainsConfig) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(chains.Appenders) != len(s.appenders) {
		return fmt.Errorf("%w: have %d appenders, document declares %d",
			ErrAppenderSetChanged, len(s.appenders), len(chains.Appenders))
	}

	built, err := BuildChains(s.registry, chains, s.opts.Strict)
	if err != nil {
		return err
	}

	for _, a := range s.appenders {
		if _, ok := built[a.name]; !ok {
			return fmt.Errorf("%w: appender '%s' missing", ErrAppenderSetChanged, a.name)
		}
	}

	for _, a := range s.appenders {
		chain := built[a.name]
		a.SwapChain(chain)
		s.logger.Info("msg", "Filter chain reloaded",
			"component", "service",
			"appender", a.name,
			"chain", chain.String())
	}
	return nil
}

// Shutdown stops the source and workers, then drains the sinks.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.logger.Info("msg", "Service shutdown initiated", "component", "service")

		s.mu.RLock()
		src := s.source
		appenders := s.appenders
		s.mu.RUnlock()

		if src != nil {
			src.Stop()
		}
		s.cancel()
		s.wg.Wait()

		var wg sync.WaitGroup
		for _, a := range appenders {
			wg.Add(1)
			go func(a *Appender) {
				defer wg.Done()
				a.sink.Stop()
			}(a)
		}
		wg.Wait()

		s.logger.Info("msg", "Service shutdown complete", "component", "service")
	})
}

// Close drains the sinks after the source finished on its own.
func (s *Service) Close() {
	s.Wait()
	s.Shutdown()
}

// Appenders returns the loaded appenders in declaration order
func (s *Service) Appenders() []*Appender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Appender(nil), s.appenders...)
}

func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appenderStats := make(map[string]any, len(s.appenders))
	for _, a := range s.appenders {
		appenderStats[a.name] = a.GetStats()
	}

	stats := map[string]any{
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
		"total_entries":   s.totalEntries.Load(),
		"total_appenders": len(s.appenders),
		"workers":         s.opts.Workers,
		"strict":          s.opts.Strict,
		"appenders":       appenderStats,
	}

	if s.source != nil {
		srcStats := s.source.GetStats()
		stats["source"] = map[string]any{
			"type":            srcStats.Type,
			"total_entries":   srcStats.TotalEntries,
			"dropped_entries": srcStats.DroppedEntries,
			"start_time":      srcStats.StartTime,
			"last_entry_time": srcStats.LastEntryTime,
			"details":         srcStats.Details,
		}
	}

	return stats
}
