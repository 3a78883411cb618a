package source

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"logsieve/src/internal/core"

	"github.com/lixenwraith/log"
)

// DefaultMaxLineSize bounds a single input line unless overridden
const DefaultMaxLineSize = 1024 * 1024

type ReaderOptions struct {
	// Source name stamped on entries that carry none
	Name string

	// Capacity of each subscriber channel
	BufferSize int64

	// Drop entries when a subscriber is full instead of waiting
	DropOnFull bool

	// Longer lines are skipped and counted as dropped
	MaxLineSize int
}

// ReaderSource reads newline-delimited entries from an io.Reader.
type ReaderSource struct {
	// Configuration
	opts   ReaderOptions
	reader io.Reader

	// Application
	subscribers []chan core.LogEntry
	logger      *log.Logger

	// Runtime
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once

	// Statistics
	totalEntries   atomic.Uint64
	droppedEntries atomic.Uint64
	oversizedLines atomic.Uint64
	startTime      time.Time
	lastEntryTime  atomic.Value // time.Time
}

func NewReaderSource(r io.Reader, opts ReaderOptions, logger *log.Logger) *ReaderSource {
	if opts.Name == "" {
		opts.Name = "stdin"
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.MaxLineSize <= 0 {
		opts.MaxLineSize = DefaultMaxLineSize
	}

	s := &ReaderSource{
		opts:        opts,
		reader:      r,
		subscribers: make([]chan core.LogEntry, 0),
		logger:      logger,
		done:        make(chan struct{}),
		finished:    make(chan struct{}),
		startTime:   time.Now(),
	}
	s.lastEntryTime.Store(time.Time{})
	return s
}

// Subscribe returns a channel for receiving log entries. Must be called
// before Start.
func (s *ReaderSource) Subscribe() <-chan core.LogEntry {
	ch := make(chan core.LogEntry, s.opts.BufferSize)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *ReaderSource) Start() error {
	go s.readLoop()
	s.logger.Info("msg", "Reader source started",
		"component", "reader_source",
		"name", s.opts.Name)
	return nil
}

// Stop signals the read loop to finish. A loop blocked in Read exits after
// the next line or EOF.
func (s *ReaderSource) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.logger.Info("msg", "Reader source stopped",
			"component", "reader_source",
			"name", s.opts.Name)
	})
}

func (s *ReaderSource) Done() <-chan struct{} {
	return s.finished
}

func (s *ReaderSource) GetStats() SourceStats {
	lastEntry, _ := s.lastEntryTime.Load().(time.Time)

	return SourceStats{
		Type:           "reader",
		TotalEntries:   s.totalEntries.Load(),
		DroppedEntries: s.droppedEntries.Load(),
		StartTime:      s.startTime,
		LastEntryTime:  lastEntry,
		Details: map[string]any{
			"name":            s.opts.Name,
			"drop_on_full":    s.opts.DropOnFull,
			"max_line_size":   s.opts.MaxLineSize,
			"oversized_lines": s.oversizedLines.Load(),
		},
	}
}

// readLoop is the only sender on subscriber channels and closes them on exit.
func (s *ReaderSource) readLoop() {
	defer func() {
		for _, ch := range s.subscribers {
			close(ch)
		}
		close(s.finished)
	}()

	reader := bufio.NewReaderSize(s.reader, 64*1024)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		line, oversized, err := s.readLine(reader)
		if oversized {
			s.oversizedLines.Add(1)
			s.droppedEntries.Add(1)
			s.logger.Warn("msg", "Skipped line exceeding maximum size",
				"component", "reader_source",
				"name", s.opts.Name,
				"max_line_size", s.opts.MaxLineSize)
		} else if len(line) > 0 {
			if !s.publish(ParseLine(string(line), s.opts.Name)) {
				return
			}
		}

		if errors.Is(err, io.EOF) {
			s.logger.Debug("msg", "Reader source reached EOF",
				"component", "reader_source",
				"name", s.opts.Name,
				"total_entries", s.totalEntries.Load())
			return
		}
		if err != nil {
			s.logger.Error("msg", "Error reading input",
				"component", "reader_source",
				"name", s.opts.Name,
				"error", err)
			return
		}
	}
}

// readLine returns the next line without its line ending. A line longer than
// MaxLineSize is consumed and discarded, reporting oversized.
func (s *ReaderSource) readLine(r *bufio.Reader) (line []byte, oversized bool, err error) {
	// Room for a trailing CRLF
	limit := s.opts.MaxLineSize + 2

	for {
		chunk, readErr := r.ReadSlice('\n')
		if !oversized {
			if len(line)+len(chunk) > limit {
				oversized, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(readErr, bufio.ErrBufferFull) {
			continue
		}

		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) > s.opts.MaxLineSize {
			oversized, line = true, nil
		}
		return line, oversized, readErr
	}
}

// publish sends entry to every subscriber. Returns false if the source was
// stopped while waiting.
func (s *ReaderSource) publish(entry core.LogEntry) bool {
	s.totalEntries.Add(1)
	s.lastEntryTime.Store(entry.Time)

	for _, ch := range s.subscribers {
		if s.opts.DropOnFull {
			select {
			case ch <- entry:
			default:
				s.droppedEntries.Add(1)
				s.logger.Debug("msg", "Dropped log entry - subscriber buffer full",
					"component", "reader_source")
			}
			continue
		}

		select {
		case ch <- entry:
		case <-s.done:
			return false
		}
	}
	return true
}
