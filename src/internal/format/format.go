// Package format renders log entries for output.
package format

import (
	"fmt"

	"logsieve/src/internal/core"
	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for transforming a LogEntry into a byte slice.
type Formatter interface {
	// Format takes a LogEntry and returns the formatted log as a byte slice.
	Format(entry core.LogEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// Names lists the accepted formatter names.
var Names = []string{"json", "text", "raw"}

// New creates a formatter by name. Options are the formatter-specific settings
// of the appender; a null Value selects the defaults.
func New(name string, options value.Value, logger *log.Logger) (Formatter, error) {
	switch name {
	case "json":
		return NewJSONFormatter(options, logger)
	case "text", "":
		return NewTextFormatter(options, logger)
	case "raw":
		return NewRawFormatter(options, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
