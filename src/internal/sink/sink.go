// Package sink writes formatted log entries to their destination.
package sink

import (
	"context"
	"io"
	"sync"
	"time"

	"logsieve/src/internal/core"
)

// Sink represents an output destination for log entries
type Sink interface {
	// Input returns the channel for sending log entries to this sink
	Input() chan<- core.LogEntry

	// Start begins processing log entries
	Start(ctx context.Context) error

	// Stop closes the input and waits until queued entries are written.
	// Nothing may be sent to Input after Stop.
	Stop()

	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type           string
	TotalProcessed uint64
	TotalFailed    uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// SyncWriter serializes writes so sinks sharing one stream do not interleave
// within an entry.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
