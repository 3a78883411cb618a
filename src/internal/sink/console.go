package sink

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"logsieve/src/internal/core"
	"logsieve/src/internal/format"

	"github.com/lixenwraith/log"
)

// ConsoleConfig holds configuration for console sinks
type ConsoleConfig struct {
	// Name of the owning appender, for logs and stats
	Name string
	// "stdout" or "stderr", informational
	Target     string
	BufferSize int64
}

// ConsoleSink formats entries and writes them to a stream
type ConsoleSink struct {
	input     chan core.LogEntry
	config    ConsoleConfig
	output    io.Writer
	formatter format.Formatter
	logger    *log.Logger

	stopOnce  sync.Once
	finished  chan struct{}
	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

func NewConsoleSink(cfg ConsoleConfig, output io.Writer, formatter format.Formatter, logger *log.Logger) *ConsoleSink {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}

	s := &ConsoleSink{
		input:     make(chan core.LogEntry, cfg.BufferSize),
		config:    cfg,
		output:    output,
		formatter: formatter,
		logger:    logger,
		finished:  make(chan struct{}),
		startTime: time.Now(),
	}
	s.lastProcessed.Store(time.Time{})
	return s
}

func (s *ConsoleSink) Input() chan<- core.LogEntry {
	return s.input
}

func (s *ConsoleSink) Start(ctx context.Context) error {
	go s.processLoop(ctx)
	s.logger.Info("msg", "Console sink started",
		"component", "console_sink",
		"appender", s.config.Name,
		"target", s.config.Target,
		"format", s.formatter.Name())
	return nil
}

func (s *ConsoleSink) Stop() {
	s.stopOnce.Do(func() {
		close(s.input)
		<-s.finished
		s.logger.Info("msg", "Console sink stopped",
			"component", "console_sink",
			"appender", s.config.Name,
			"total_processed", s.totalProcessed.Load())
	})
}

func (s *ConsoleSink) GetStats() SinkStats {
	lastProc, _ := s.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "console",
		TotalProcessed: s.totalProcessed.Load(),
		TotalFailed:    s.totalFailed.Load(),
		StartTime:      s.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"target": s.config.Target,
			"format": s.formatter.Name(),
		},
	}
}

// processLoop drains the input until it is closed. Cancelling ctx abandons
// whatever is still queued.
func (s *ConsoleSink) processLoop(ctx context.Context) {
	defer close(s.finished)

	for {
		select {
		case entry, ok := <-s.input:
			if !ok {
				return
			}
			s.write(entry)

		case <-ctx.Done():
			// Discard the rest so senders never block on a dead sink
			for range s.input {
				s.totalFailed.Add(1)
			}
			return
		}
	}
}

func (s *ConsoleSink) write(entry core.LogEntry) {
	formatted, err := s.formatter.Format(entry)
	if err != nil {
		s.totalFailed.Add(1)
		s.logger.Error("msg", "Failed to format log entry",
			"component", "console_sink",
			"appender", s.config.Name,
			"error", err)
		return
	}

	if _, err := s.output.Write(formatted); err != nil {
		s.totalFailed.Add(1)
		s.logger.Error("msg", "Failed to write log entry",
			"component", "console_sink",
			"appender", s.config.Name,
			"error", err)
		return
	}

	s.totalProcessed.Add(1)
	s.lastProcessed.Store(time.Now())
}
