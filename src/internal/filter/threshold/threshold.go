// Package threshold provides a filter that rejects entries below a minimum
// severity.
package threshold

import (
	"errors"
	"fmt"

	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"

	"github.com/lixenwraith/log"
)

const Kind = "threshold"

type Config struct {
	Level core.Level `toml:"level"`
}

// Filter rejects entries whose level is below a configured minimum and is
// neutral about everything else. Entries without a recognised level sort
// below every level and are therefore rejected.
type Filter struct {
	level core.Level
}

func New(cfg Config, logger *log.Logger) (*Filter, error) {
	if cfg.Level == core.LevelNone {
		return nil, errors.New("level is required")
	}
	if cfg.Level > core.LevelError {
		return nil, fmt.Errorf("invalid level: %s", cfg.Level)
	}

	logger.Debug("msg", "Threshold filter created",
		"component", "threshold_filter",
		"level", cfg.Level.String())
	return &Filter{level: cfg.Level}, nil
}

func (f *Filter) Filter(entry core.LogEntry) filter.Response {
	if entry.Level < f.level {
		return filter.Reject
	}
	return filter.Neutral
}

func (f *Filter) Level() core.Level {
	return f.level
}

func (f *Filter) String() string {
	return fmt.Sprintf("threshold(level=%s)", f.level)
}

// Register adds the threshold kind to r.
func Register(r *filter.Registry) error {
	return filter.Register(r, Kind, func(cfg Config, logger *log.Logger) (filter.Filter, error) {
		return New(cfg, logger)
	})
}
