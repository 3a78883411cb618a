package filter

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
)

var (
	ErrUnknownKind   = errors.New("unknown filter kind")
	ErrDuplicateKind = errors.New("filter kind already registered")
)

// Factory builds a filter from the residual configuration of its block.
type Factory func(cfg value.Value, logger *log.Logger) (Filter, error)

// Registry maps filter kinds to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// Register adds a factory for kind. Kinds are case-sensitive and may be
// registered once.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("%w: %s", ErrEmptyField, KindField)
	}
	if factory == nil {
		return fmt.Errorf("filter kind %q: nil factory", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKind, kind)
	}
	r.factories[kind] = factory
	return nil
}

// Register adds a factory whose configuration is first decoded into T.
// Decoding rejects unknown fields, so a block that does not match T fails
// before build is called.
func Register[T any](r *Registry, kind string, build func(cfg T, logger *log.Logger) (Filter, error)) error {
	return r.Register(kind, func(raw value.Value, logger *log.Logger) (Filter, error) {
		var cfg T
		if err := value.Decode(raw, &cfg); err != nil {
			return nil, err
		}
		return build(cfg, logger)
	})
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Build constructs the filter declared by cfg.
func (r *Registry) Build(cfg Config) (Filter, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}

	f, err := factory(cfg.Config, r.logger)
	if err != nil {
		return nil, fmt.Errorf("filter kind %q: %w", cfg.Kind, err)
	}

	r.logger.Debug("msg", "Filter created",
		"component", "filter_registry",
		"kind", cfg.Kind,
		"filter", f.String())
	return f, nil
}

// BuildChain builds a chain from filter declarations in order. With strict
// set the first failing declaration aborts the build; otherwise it is logged
// and skipped.
func (r *Registry) BuildChain(configs []Config, strict bool) (*Chain, error) {
	filters := make([]Filter, 0, len(configs))

	for i, cfg := range configs {
		f, err := r.Build(cfg)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("filter[%d]: %w", i, err)
			}
			r.logger.Warn("msg", "Skipping invalid filter",
				"component", "filter_registry",
				"filter_index", i,
				"kind", cfg.Kind,
				"error", err)
			continue
		}
		filters = append(filters, f)
	}

	r.logger.Info("msg", "Filter chain created",
		"component", "filter_chain",
		"filter_count", len(filters),
		"skipped", len(configs)-len(filters))
	return NewChain(r.logger, filters...), nil
}
