package filter

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"logsieve/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

// fixedFilter always answers with the same response and counts its calls.
type fixedFilter struct {
	name     string
	response Response
	calls    atomic.Int64
}

func newFixed(name string, r Response) *fixedFilter {
	return &fixedFilter{name: name, response: r}
}

func (f *fixedFilter) Filter(core.LogEntry) Response {
	f.calls.Add(1)
	return f.response
}

func (f *fixedFilter) String() string {
	return fmt.Sprintf("fixed(%s=%s)", f.name, f.response)
}

// countingFilter rejects every call after the first n.
type countingFilter struct {
	limit int64
	seen  atomic.Int64
}

func (f *countingFilter) Filter(core.LogEntry) Response {
	if f.seen.Add(1) > f.limit {
		return Reject
	}
	return Neutral
}

func (f *countingFilter) String() string {
	return fmt.Sprintf("counting(limit=%d)", f.limit)
}

func asFilters(fs ...*fixedFilter) []Filter {
	out := make([]Filter, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func TestChain_Apply(t *testing.T) {
	logger := newTestLogger()
	entry := core.LogEntry{Level: core.LevelInfo, Message: "an apple a day"}

	t.Run("EmptyChain", func(t *testing.T) {
		chain := NewChain(logger)
		assert.True(t, chain.Apply(entry))
		r, i := chain.Evaluate(entry)
		assert.Equal(t, Neutral, r)
		assert.Equal(t, -1, i)
	})

	t.Run("AllNeutral", func(t *testing.T) {
		fs := []*fixedFilter{newFixed("a", Neutral), newFixed("b", Neutral), newFixed("c", Neutral)}
		chain := NewChain(logger, asFilters(fs...)...)
		assert.True(t, chain.Apply(entry))
		for _, f := range fs {
			assert.Equal(t, int64(1), f.calls.Load(), f.name)
		}
	})

	t.Run("AcceptShortCircuits", func(t *testing.T) {
		fs := []*fixedFilter{newFixed("a", Neutral), newFixed("b", Accept), newFixed("c", Reject)}
		chain := NewChain(logger, asFilters(fs...)...)

		r, i := chain.Evaluate(entry)
		assert.Equal(t, Accept, r)
		assert.Equal(t, 1, i)
		assert.Equal(t, int64(0), fs[2].calls.Load(), "filter after Accept must not run")

		assert.True(t, chain.Apply(entry))
		assert.Equal(t, int64(0), fs[2].calls.Load())
	})

	t.Run("RejectShortCircuits", func(t *testing.T) {
		fs := []*fixedFilter{newFixed("a", Reject), newFixed("b", Accept)}
		chain := NewChain(logger, asFilters(fs...)...)

		assert.False(t, chain.Apply(entry))
		assert.Equal(t, int64(1), fs[0].calls.Load())
		assert.Equal(t, int64(0), fs[1].calls.Load(), "filter after Reject must not run")
	})

	t.Run("LaterFiltersNeverOverride", func(t *testing.T) {
		accept := NewChain(logger, newFixed("a", Accept), newFixed("b", Reject))
		assert.True(t, accept.Apply(entry))

		reject := NewChain(logger, newFixed("a", Reject), newFixed("b", Accept))
		assert.False(t, reject.Apply(entry))
	})
}

// Every ordering of responses decides by the first non-Neutral one.
func TestChain_FirstDecisionWins(t *testing.T) {
	logger := newTestLogger()
	responses := []Response{Neutral, Accept, Reject}

	var sequences [][]Response
	var build func(prefix []Response, depth int)
	build = func(prefix []Response, depth int) {
		sequences = append(sequences, append([]Response(nil), prefix...))
		if depth == 0 {
			return
		}
		for _, r := range responses {
			build(append(prefix, r), depth-1)
		}
	}
	build(nil, 4)

	for _, seq := range sequences {
		fs := make([]*fixedFilter, len(seq))
		for i, r := range seq {
			fs[i] = newFixed(fmt.Sprint(i), r)
		}
		chain := NewChain(logger, asFilters(fs...)...)

		expectAllow := true
		decider := -1
		for i, r := range seq {
			if r != Neutral {
				expectAllow = r == Accept
				decider = i
				break
			}
		}

		assert.Equal(t, expectAllow, chain.Apply(core.LogEntry{}), "sequence %v", seq)
		for i, f := range fs {
			expectedCalls := int64(1)
			if decider >= 0 && i > decider {
				expectedCalls = 0
			}
			assert.Equal(t, expectedCalls, f.calls.Load(), "sequence %v filter %d", seq, i)
		}
	}
}

func TestChain_StatefulFilterCalledOncePerEntry(t *testing.T) {
	counter := &countingFilter{limit: 2}
	chain := NewChain(newTestLogger(), counter)

	assert.True(t, chain.Apply(core.LogEntry{Message: "same"}))
	assert.True(t, chain.Apply(core.LogEntry{Message: "same"}))
	assert.False(t, chain.Apply(core.LogEntry{Message: "same"}))
	assert.Equal(t, int64(3), counter.seen.Load())
}

func TestChain_ConcurrentApply(t *testing.T) {
	counter := &countingFilter{limit: 500}
	tail := newFixed("tail", Neutral)
	chain := NewChain(newTestLogger(), counter, tail)

	var wg sync.WaitGroup
	var allowed atomic.Int64
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 125; i++ {
				if chain.Apply(core.LogEntry{Message: "x"}) {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(500), allowed.Load())
	assert.Equal(t, int64(1000), counter.seen.Load())
	assert.Equal(t, int64(500), tail.calls.Load())
}

func TestChain_Accessors(t *testing.T) {
	a, b := newFixed("a", Neutral), newFixed("b", Reject)
	chain := NewChain(newTestLogger(), a, b)

	require.Equal(t, 2, chain.Len())
	filters := chain.Filters()
	filters[0] = b
	assert.Same(t, a, chain.Filters()[0].(*fixedFilter), "Filters must return a copy")
	assert.Equal(t, "[fixed(a=neutral) -> fixed(b=reject)]", chain.String())
}

func TestResponse_Text(t *testing.T) {
	for _, r := range []Response{Accept, Neutral, Reject} {
		text, err := r.MarshalText()
		require.NoError(t, err)

		var decoded Response
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, r, decoded)
	}

	parsed, err := ParseResponse(" REJECT ")
	require.NoError(t, err)
	assert.Equal(t, Reject, parsed)

	_, err = ParseResponse("maybe")
	assert.Error(t, err)

	assert.Equal(t, Neutral, Response(0), "zero Response expresses no opinion")
}
