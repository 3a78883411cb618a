// Package builtin assembles a filter registry with every bundled kind.
package builtin

import (
	"fmt"

	"logsieve/src/internal/filter"
	"logsieve/src/internal/filter/ratelimit"
	"logsieve/src/internal/filter/regex"
	"logsieve/src/internal/filter/threshold"

	"github.com/lixenwraith/log"
)

var registrations = []func(*filter.Registry) error{
	threshold.Register,
	regex.Register,
	ratelimit.Register,
}

// NewRegistry returns a registry with the threshold, regex and rate_limit
// kinds registered.
func NewRegistry(logger *log.Logger) (*filter.Registry, error) {
	r := filter.NewRegistry(logger)
	for _, register := range registrations {
		if err := register(r); err != nil {
			return nil, fmt.Errorf("failed to register builtin filter: %w", err)
		}
	}
	return r, nil
}
