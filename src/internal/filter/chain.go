package filter

import (
	"slices"
	"strings"

	"logsieve/src/internal/core"

	"github.com/lixenwraith/log"
)

// Chain evaluates an ordered sequence of filters.
//
// The filter list is fixed at construction. Evaluation takes no locks and
// writes no chain state, so one Chain may serve many goroutines at once.
type Chain struct {
	filters []Filter
	logger  *log.Logger
}

// NewChain creates a chain that evaluates filters in the given order.
func NewChain(logger *log.Logger, filters ...Filter) *Chain {
	return &Chain{
		filters: slices.Clone(filters),
		logger:  logger,
	}
}

// Evaluate runs entry through the filters and returns the first non-Neutral
// response along with the index of the filter that gave it. Each filter is
// called at most once and none after the deciding one. An empty or
// all-Neutral chain returns (Neutral, -1).
func (c *Chain) Evaluate(entry core.LogEntry) (Response, int) {
	for i, f := range c.filters {
		switch r := f.Filter(entry); r {
		case Accept, Reject:
			return r, i
		}
	}
	return Neutral, -1
}

// Apply reports whether entry is allowed through. Only a Reject denies it.
func (c *Chain) Apply(entry core.LogEntry) bool {
	r, i := c.Evaluate(entry)
	if r == Reject {
		c.logger.Debug("msg", "Entry filtered out",
			"component", "filter_chain",
			"filter_index", i,
			"filter", c.filters[i].String())
		return false
	}
	return true
}

func (c *Chain) Len() int {
	return len(c.filters)
}

// Filters returns a copy of the filter list.
func (c *Chain) Filters() []Filter {
	return slices.Clone(c.filters)
}

func (c *Chain) String() string {
	parts := make([]string, len(c.filters))
	for i, f := range c.filters {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, " -> ") + "]"
}
