package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"logsieve/src/internal/filter"
	"logsieve/src/internal/value"

	lconfig "github.com/lixenwraith/config"
)

// ChainsConfig is the chains document: the appenders and the filter chain
// declared for each.
type ChainsConfig struct {
	Appenders []AppenderConfig
}

// AppenderConfig declares one output and the filters guarding it
type AppenderConfig struct {
	// Appender identifier (used in logs, stats and metrics)
	Name string

	// Output format: "json", "text", "raw"
	Format string

	// Formatter-specific settings, null when absent
	FormatOptions value.Value

	// Output stream: "stdout", "stderr"
	Target string

	// Filter declarations in evaluation order
	Filters []filter.Config
}

var (
	validFormats = []string{"json", "text", "raw"}
	validTargets = []string{"stdout", "stderr"}
)

// rawChains and rawAppender mirror the document layout. Filter blocks stay
// generic so each can be parsed on its own and reported by position.
type rawChains struct {
	Appenders []value.Value `toml:"appenders"`
}

type rawAppender struct {
	Name          string        `toml:"name"`
	Format        string        `toml:"format"`
	FormatOptions value.Value   `toml:"format_options"`
	Target        string        `toml:"target"`
	Filters       []value.Value `toml:"filters"`
}

// LoadChains reads the chains document at path. The format is chosen by
// extension: .toml, .yaml/.yml or .json.
func LoadChains(path string) (*ChainsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chains file: %w", err)
	}

	chains, err := ParseChains(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("chains file %s: %w", path, err)
	}
	return chains, nil
}

// ParseChains parses a chains document in the given format.
func ParseChains(data []byte, format string) (*ChainsConfig, error) {
	var doc value.Value
	var err error

	switch strings.ToLower(format) {
	case "toml":
		doc, err = value.ParseTOML(data)
	case "yaml", "yml":
		doc, err = value.ParseYAML(data)
	case "json":
		doc, err = value.ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported chains format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", format, err)
	}

	return chainsFromValue(doc)
}

func chainsFromValue(doc value.Value) (*ChainsConfig, error) {
	if doc.IsNull() {
		return nil, fmt.Errorf("empty chains document")
	}

	var raw rawChains
	if err := value.Decode(doc, &raw); err != nil {
		return nil, err
	}
	if len(raw.Appenders) == 0 {
		return nil, fmt.Errorf("no appenders configured")
	}

	chains := &ChainsConfig{Appenders: make([]AppenderConfig, 0, len(raw.Appenders))}
	names := make(map[string]bool)

	for i, block := range raw.Appenders {
		appender, err := parseAppender(i, block)
		if err != nil {
			return nil, err
		}
		if names[appender.Name] {
			return nil, fmt.Errorf("appenders[%d]: duplicate appender name '%s'", i, appender.Name)
		}
		names[appender.Name] = true
		chains.Appenders = append(chains.Appenders, appender)
	}

	return chains, nil
}

func parseAppender(index int, block value.Value) (AppenderConfig, error) {
	var raw rawAppender
	if err := value.Decode(block, &raw); err != nil {
		return AppenderConfig{}, fmt.Errorf("appenders[%d]: %w", index, err)
	}

	if err := lconfig.NonEmpty(raw.Name); err != nil {
		return AppenderConfig{}, fmt.Errorf("appenders[%d]: missing name", index)
	}
	where := fmt.Sprintf("appenders[%d] (%s)", index, raw.Name)

	if raw.Format == "" {
		raw.Format = "text"
	}
	if !slices.Contains(validFormats, raw.Format) {
		return AppenderConfig{}, fmt.Errorf("%s: invalid format '%s', must be one of %s",
			where, raw.Format, strings.Join(validFormats, ", "))
	}

	if raw.Target == "" {
		raw.Target = "stdout"
	}
	if !slices.Contains(validTargets, raw.Target) {
		return AppenderConfig{}, fmt.Errorf("%s: invalid target '%s', must be one of %s",
			where, raw.Target, strings.Join(validTargets, ", "))
	}

	if !raw.FormatOptions.IsNull() && raw.FormatOptions.Kind() != value.KindMap {
		return AppenderConfig{}, fmt.Errorf("%s: format_options must be a map, found %s", where, raw.FormatOptions.Kind())
	}

	filters := make([]filter.Config, 0, len(raw.Filters))
	for j, fv := range raw.Filters {
		cfg, err := filter.ParseConfig(fv)
		if err != nil {
			return AppenderConfig{}, fmt.Errorf("%s filters[%d]: %w", where, j, err)
		}
		filters = append(filters, cfg)
	}

	return AppenderConfig{
		Name:          raw.Name,
		Format:        raw.Format,
		FormatOptions: raw.FormatOptions,
		Target:        raw.Target,
		Filters:       filters,
	}, nil
}
