// Package regex provides a pattern-matching filter over the source, level and
// message of an entry.
package regex

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"

	"github.com/lixenwraith/log"
)

const Kind = "regex"

const (
	LogicOr  = "or"
	LogicAnd = "and"
)

type Config struct {
	Patterns []string `toml:"patterns"`
	Logic    string   `toml:"logic"`

	// Responses for matching and non-matching entries. A nil pointer selects
	// the default (accept on match, neutral otherwise).
	OnMatch    *filter.Response `toml:"on_match"`
	OnMismatch *filter.Response `toml:"on_mismatch"`
}

// Filter matches entries against a set of regular expressions
type Filter struct {
	logic      string
	onMatch    filter.Response
	onMismatch filter.Response

	mu       sync.RWMutex
	patterns []*regexp.Regexp
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
}

// New creates a new filter from configuration
func New(cfg Config, logger *log.Logger) (*Filter, error) {
	logic := strings.ToLower(cfg.Logic)
	switch logic {
	case "":
		logic = LogicOr
	case LogicOr, LogicAnd:
	default:
		return nil, fmt.Errorf("invalid logic %q: must be %q or %q", cfg.Logic, LogicOr, LogicAnd)
	}

	compiled, err := compile(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		logic:      logic,
		onMatch:    filter.Accept,
		onMismatch: filter.Neutral,
		patterns:   compiled,
		logger:     logger,
	}
	if cfg.OnMatch != nil {
		f.onMatch = *cfg.OnMatch
	}
	if cfg.OnMismatch != nil {
		f.onMismatch = *cfg.OnMismatch
	}
	if f.onMatch > filter.Reject {
		return nil, fmt.Errorf("invalid on_match: %s", f.onMatch)
	}
	if f.onMismatch > filter.Reject {
		return nil, fmt.Errorf("invalid on_mismatch: %s", f.onMismatch)
	}

	logger.Debug("msg", "Regex filter created",
		"component", "regex_filter",
		"logic", f.logic,
		"on_match", f.onMatch.String(),
		"on_mismatch", f.onMismatch.String(),
		"pattern_count", len(compiled))

	return f, nil
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Filter returns the match response if the entry text satisfies the patterns
// and the mismatch response otherwise. Without patterns it is neutral.
func (f *Filter) Filter(entry core.LogEntry) filter.Response {
	f.totalProcessed.Add(1)

	f.mu.RLock()
	patterns := f.patterns
	f.mu.RUnlock()

	if len(patterns) == 0 {
		return filter.Neutral
	}

	if f.matches(patterns, entryText(entry)) {
		f.totalMatched.Add(1)
		return f.onMatch
	}
	return f.onMismatch
}

// entryText joins the non-empty source, level and message with spaces.
func entryText(entry core.LogEntry) string {
	text := entry.Message
	if level := entry.Level.String(); level != "" {
		text = level + " " + text
	}
	if entry.Source != "" {
		text = entry.Source + " " + text
	}
	return text
}

func (f *Filter) matches(patterns []*regexp.Regexp, text string) bool {
	if f.logic == LogicAnd {
		for _, re := range patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true
	}

	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// UpdatePatterns replaces the pattern set. On error the old set is kept.
func (f *Filter) UpdatePatterns(patterns []string) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.patterns = compiled
	f.mu.Unlock()

	f.logger.Info("msg", "Filter patterns updated",
		"component", "regex_filter",
		"pattern_count", len(patterns))
	return nil
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	f.mu.RLock()
	count := len(f.patterns)
	f.mu.RUnlock()

	return map[string]any{
		"logic":           f.logic,
		"pattern_count":   count,
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
	}
}

func (f *Filter) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	sources := make([]string, len(f.patterns))
	for i, re := range f.patterns {
		sources[i] = re.String()
	}
	return fmt.Sprintf("regex(%s %q match=%s mismatch=%s)", f.logic, sources, f.onMatch, f.onMismatch)
}

// Register adds the regex kind to r.
func Register(r *filter.Registry) error {
	return filter.Register(r, Kind, func(cfg Config, logger *log.Logger) (filter.Filter, error) {
		return New(cfg, logger)
	})
}
