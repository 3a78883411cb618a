package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"logsieve/src/internal/core"
	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
)

const DefaultTextTemplate = "[{{.Timestamp | FmtTime}}] [{{.Level}}] {{.Source}} - {{.Message}}{{ if .Fields }} {{.Fields}}{{ end }}"

type TextOptions struct {
	Template        string `toml:"template"`
	TimestampFormat string `toml:"timestamp_format"`
}

// TextFormatter produces human-readable text logs using templates
type TextFormatter struct {
	config   TextOptions
	template *template.Template
	logger   *log.Logger
}

func NewTextFormatter(options value.Value, logger *log.Logger) (*TextFormatter, error) {
	opts := TextOptions{
		Template:        DefaultTextTemplate,
		TimestampFormat: time.RFC3339,
	}
	if err := value.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("text format options: %w", err)
	}

	f := &TextFormatter{
		config: opts,
		logger: logger,
	}

	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.config.TimestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("log").Funcs(funcMap).Parse(f.config.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

func (f *TextFormatter) Format(entry core.LogEntry) ([]byte, error) {
	level := entry.Level.String()
	if level == "" {
		level = core.LevelInfo.String()
	}

	data := map[string]any{
		"Timestamp": entry.Time,
		"Level":     level,
		"Source":    entry.Source,
		"Message":   entry.Message,
	}

	if len(entry.Fields) > 0 {
		data["Fields"] = string(entry.Fields)
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		fallback := fmt.Sprintf("[%s] [%s] %s - %s\n",
			entry.Time.Format(f.config.TimestampFormat),
			level,
			entry.Source,
			entry.Message)
		return []byte(fallback), nil
	}

	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

func (f *TextFormatter) Name() string {
	return "text"
}
