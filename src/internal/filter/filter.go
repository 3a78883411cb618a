// Package filter implements the filter chain that decides, per log entry,
// whether an appender accepts it.
//
// Every filter answers with a Response. The chain walks its filters in
// declaration order and stops at the first Accept or Reject; Neutral passes
// the entry on to the next filter. Filters are built from configuration by a
// Registry that maps a kind name to a constructor.
package filter

import (
	"fmt"
	"strings"

	"logsieve/src/internal/core"
)

// Filter decides the fate of a single log entry.
//
// Implementations are shared by every goroutine that feeds the owning chain
// and must guard their own mutable state. Filter must not block and has no
// error channel: an internal fault maps to Reject or Neutral. String returns
// a debug representation used in diagnostics.
type Filter interface {
	Filter(entry core.LogEntry) Response
	fmt.Stringer
}

// Response is the outcome of one filter's decision.
type Response uint8

const (
	// Neutral expresses no opinion. The entry continues to the next filter,
	// or is forwarded when no filters remain.
	Neutral Response = iota
	// Accept forwards the entry immediately, bypassing remaining filters.
	Accept
	// Reject drops the entry. No further filters run.
	Reject
)

func (r Response) String() string {
	switch r {
	case Neutral:
		return "neutral"
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("response(%d)", uint8(r))
	}
}

// ParseResponse converts "accept", "neutral" or "reject" (any case) to a Response.
func ParseResponse(s string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept":
		return Accept, nil
	case "neutral":
		return Neutral, nil
	case "reject":
		return Reject, nil
	default:
		return Neutral, fmt.Errorf("invalid response '%s' (must be 'accept', 'neutral' or 'reject')", s)
	}
}

func (r Response) MarshalText() ([]byte, error) {
	if r > Reject {
		return nil, fmt.Errorf("invalid response: %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Response) UnmarshalText(text []byte) error {
	parsed, err := ParseResponse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
