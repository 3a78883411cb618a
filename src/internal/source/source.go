// Package source reads log entries into the service.
package source

import (
	"time"

	"logsieve/src/internal/core"
)

// Source is an input data stream
type Source interface {
	// Subscribe returns a channel that receives log entries. The channel is
	// closed when the source finishes.
	Subscribe() <-chan core.LogEntry

	// Start begins reading from the source
	Start() error

	// Stop shuts the source down
	Stop()

	// Done is closed once the source has no more entries
	Done() <-chan struct{}

	GetStats() SourceStats
}

// SourceStats contains statistics about a source
type SourceStats struct {
	Type           string
	TotalEntries   uint64
	DroppedEntries uint64
	StartTime      time.Time
	LastEntryTime  time.Time
	Details        map[string]any
}
