package regex

import (
	"sync"
	"testing"

	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"
	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func response(r filter.Response) *filter.Response {
	return &r
}

func TestRegex_Filter(t *testing.T) {
	logger := newTestLogger()

	t.Run("NoPatterns", func(t *testing.T) {
		f, err := New(Config{}, logger)
		require.NoError(t, err)
		assert.Equal(t, filter.Neutral, f.Filter(core.LogEntry{Message: "anything"}))
	})

	t.Run("OrLogicDefaults", func(t *testing.T) {
		f, err := New(Config{Patterns: []string{"timeout", "refused"}}, logger)
		require.NoError(t, err)

		assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Message: "connection refused"}))
		assert.Equal(t, filter.Neutral, f.Filter(core.LogEntry{Message: "all good"}))
	})

	t.Run("AndLogic", func(t *testing.T) {
		f, err := New(Config{
			Patterns:   []string{"^db ", "ERROR"},
			Logic:      "AND",
			OnMatch:    response(filter.Reject),
			OnMismatch: response(filter.Accept),
		}, logger)
		require.NoError(t, err)

		assert.Equal(t, filter.Reject, f.Filter(core.LogEntry{Source: "db", Level: core.LevelError, Message: "lost"}))
		assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Source: "db", Level: core.LevelInfo, Message: "ok"}))
		assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Source: "api", Level: core.LevelError, Message: "lost"}))
	})

	t.Run("MatchesLevelAndSource", func(t *testing.T) {
		f, err := New(Config{Patterns: []string{"^worker WARN disk"}}, logger)
		require.NoError(t, err)
		assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Source: "worker", Level: core.LevelWarn, Message: "disk low"}))
	})

	t.Run("InvalidLogic", func(t *testing.T) {
		_, err := New(Config{Logic: "xor"}, logger)
		assert.ErrorContains(t, err, "invalid logic")
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		_, err := New(Config{Patterns: []string{"ok", "[unclosed"}}, logger)
		assert.ErrorContains(t, err, "pattern[1]")
	})
}

func TestRegex_UpdatePatterns(t *testing.T) {
	f, err := New(Config{Patterns: []string{"alpha"}}, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, f.UpdatePatterns([]string{"beta"}))
	assert.Equal(t, filter.Neutral, f.Filter(core.LogEntry{Message: "alpha"}))
	assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Message: "beta"}))

	assert.Error(t, f.UpdatePatterns([]string{"("}))
	assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Message: "beta"}), "failed update keeps old patterns")

	stats := f.GetStats()
	assert.Equal(t, uint64(3), stats["total_processed"])
	assert.Equal(t, uint64(2), stats["total_matched"])
	assert.Equal(t, 1, stats["pattern_count"])
}

func TestRegex_ConcurrentUse(t *testing.T) {
	f, err := New(Config{Patterns: []string{"x"}}, newTestLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Filter(core.LogEntry{Message: "x"})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			_ = f.UpdatePatterns([]string{"x", "y"})
		}
	}()
	wg.Wait()

	assert.Equal(t, uint64(400), f.GetStats()["total_processed"])
}

func TestRegex_Registry(t *testing.T) {
	r := filter.NewRegistry(newTestLogger())
	require.NoError(t, Register(r))

	block, err := value.FromAny(map[string]any{
		"kind":        Kind,
		"patterns":    []any{"panic"},
		"on_match":    "accept",
		"on_mismatch": "reject",
	})
	require.NoError(t, err)
	cfg, err := filter.ParseConfig(block)
	require.NoError(t, err)

	f, err := r.Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, filter.Accept, f.Filter(core.LogEntry{Message: "panic: nil map"}))
	assert.Equal(t, filter.Reject, f.Filter(core.LogEntry{Message: "fine"}))

	t.Run("BadResponse", func(t *testing.T) {
		block, err := value.FromAny(map[string]any{"kind": Kind, "on_match": "maybe"})
		require.NoError(t, err)
		cfg, err := filter.ParseConfig(block)
		require.NoError(t, err)
		_, err = r.Build(cfg)
		assert.ErrorContains(t, err, "on_match")
	})

	t.Run("NumericResponse", func(t *testing.T) {
		for _, field := range []string{"on_match", "on_mismatch"} {
			block, err := value.FromAny(map[string]any{"kind": Kind, "patterns": []any{"x"}, field: 7})
			require.NoError(t, err)
			cfg, err := filter.ParseConfig(block)
			require.NoError(t, err)

			f, err := r.Build(cfg)
			require.Error(t, err, field)
			assert.Nil(t, f)
			var merr *mapstructure.Error
			assert.ErrorAs(t, err, &merr, field)
			assert.ErrorContains(t, err, field)
		}
	})
}

func TestRegex_NewRejectsOutOfRangeResponse(t *testing.T) {
	_, err := New(Config{Patterns: []string{"x"}, OnMatch: response(filter.Response(7))}, newTestLogger())
	assert.ErrorContains(t, err, "invalid on_match")

	_, err = New(Config{Patterns: []string{"x"}, OnMismatch: response(filter.Response(3))}, newTestLogger())
	assert.ErrorContains(t, err, "invalid on_mismatch")
}
