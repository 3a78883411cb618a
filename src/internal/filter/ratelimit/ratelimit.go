// Package ratelimit provides a token bucket filter that rejects entries once
// a rate budget is exhausted.
package ratelimit

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

const Kind = "rate_limit"

type Config struct {
	// Entries per second
	Rate float64 `toml:"rate"`
	// Bucket size, defaults to Rate (at least 1)
	Burst int `toml:"burst"`
	// Only entries at or below this level are limited. Unset limits all.
	Level core.Level `toml:"level"`
}

// Filter is a stateful token bucket. It is Neutral while the budget lasts and
// Reject once it is spent.
type Filter struct {
	limiter *rate.Limiter
	level   core.Level
	rate    float64
	burst   int
	now     func() time.Time

	// Statistics
	totalPassed  atomic.Uint64
	totalDropped atomic.Uint64
}

func New(cfg Config, logger *log.Logger) (*Filter, error) {
	if cfg.Rate <= 0 || math.IsInf(cfg.Rate, 0) || math.IsNaN(cfg.Rate) {
		return nil, fmt.Errorf("rate must be a positive number, got %v", cfg.Rate)
	}
	if cfg.Burst < 0 {
		return nil, fmt.Errorf("burst cannot be negative, got %d", cfg.Burst)
	}

	burst := cfg.Burst
	if burst == 0 {
		// Default burst to rate, capped so huge rates stay representable
		burst = max(int(min(math.Ceil(cfg.Rate), math.MaxInt32)), 1)
	}

	f := &Filter{
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), burst),
		level:   cfg.Level,
		rate:    cfg.Rate,
		burst:   burst,
		now:     time.Now,
	}

	logger.Debug("msg", "Rate limit filter created",
		"component", "rate_limit_filter",
		"rate", cfg.Rate,
		"burst", burst,
		"level", cfg.Level.String())
	return f, nil
}

func (f *Filter) Filter(entry core.LogEntry) filter.Response {
	if f.level != core.LevelNone && entry.Level > f.level {
		return filter.Neutral
	}

	if !f.limiter.AllowN(f.now(), 1) {
		f.totalDropped.Add(1)
		return filter.Reject
	}
	f.totalPassed.Add(1)
	return filter.Neutral
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	return map[string]any{
		"rate":          f.rate,
		"burst":         f.burst,
		"tokens":        f.limiter.TokensAt(f.now()),
		"total_passed":  f.totalPassed.Load(),
		"total_dropped": f.totalDropped.Load(),
	}
}

func (f *Filter) String() string {
	if f.level == core.LevelNone {
		return fmt.Sprintf("rate_limit(rate=%g burst=%d)", f.rate, f.burst)
	}
	return fmt.Sprintf("rate_limit(rate=%g burst=%d level<=%s)", f.rate, f.burst, f.level)
}

// Register adds the rate_limit kind to r.
func Register(r *filter.Registry) error {
	return filter.Register(r, Kind, func(cfg Config, logger *log.Logger) (filter.Filter, error) {
		return New(cfg, logger)
	})
}
