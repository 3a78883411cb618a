package format

import (
	"encoding/json"
	"fmt"
	"time"

	"logsieve/src/internal/core"
	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
)

type JSONOptions struct {
	Pretty         bool   `toml:"pretty"`
	TimestampField string `toml:"timestamp_field"`
	LevelField     string `toml:"level_field"`
	SourceField    string `toml:"source_field"`
	MessageField   string `toml:"message_field"`
}

// JSONFormatter produces structured JSON logs from LogEntry objects.
type JSONFormatter struct {
	config JSONOptions
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter from configuration options.
func NewJSONFormatter(options value.Value, logger *log.Logger) (*JSONFormatter, error) {
	opts := JSONOptions{
		TimestampField: "timestamp",
		LevelField:     "level",
		SourceField:    "source",
		MessageField:   "message",
	}
	if err := value.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("json format options: %w", err)
	}

	return &JSONFormatter{
		config: opts,
		logger: logger,
	}, nil
}

// Format transforms a single LogEntry into a JSON byte slice.
func (f *JSONFormatter) Format(entry core.LogEntry) ([]byte, error) {
	output := make(map[string]any)

	output[f.config.TimestampField] = entry.Time.Format(time.RFC3339Nano)
	output[f.config.LevelField] = entry.Level.String()
	output[f.config.SourceField] = entry.Source

	// A JSON object message is merged, entry metadata takes precedence
	var msgData map[string]any
	if err := json.Unmarshal([]byte(entry.Message), &msgData); err == nil {
		for k, v := range msgData {
			if k != f.config.TimestampField && k != f.config.LevelField && k != f.config.SourceField {
				output[k] = v
			}
		}
	} else {
		output[f.config.MessageField] = entry.Message
	}

	if len(entry.Fields) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(entry.Fields, &fields); err == nil {
			for k, v := range fields {
				if _, exists := output[k]; !exists {
					output[k] = v
				}
			}
		}
	}

	var result []byte
	var err error
	if f.config.Pretty {
		result, err = json.MarshalIndent(output, "", "  ")
	} else {
		result, err = json.Marshal(output)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
