package format

import (
	"fmt"

	"logsieve/src/internal/core"
	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
)

// RawFormatter outputs the message as-is with a newline
type RawFormatter struct {
	logger *log.Logger
}

// NewRawFormatter takes no options; any given are an error.
func NewRawFormatter(options value.Value, logger *log.Logger) (*RawFormatter, error) {
	var none struct{}
	if err := value.Decode(options, &none); err != nil {
		return nil, fmt.Errorf("raw format options: %w", err)
	}
	return &RawFormatter{
		logger: logger,
	}, nil
}

func (f *RawFormatter) Format(entry core.LogEntry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

func (f *RawFormatter) Name() string {
	return "raw"
}
