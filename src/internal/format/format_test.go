package format

import (
	"testing"

	"logsieve/src/internal/value"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func options(t *testing.T, m map[string]any) value.Value {
	t.Helper()
	v, err := value.FromAny(m)
	require.NoError(t, err)
	return v
}

func TestNew(t *testing.T) {
	logger := newTestLogger()

	for name, want := range map[string]string{
		"json": "json",
		"text": "text",
		"raw":  "raw",
		"":     "text",
	} {
		f, err := New(name, value.NewNull(), logger)
		require.NoError(t, err, "format %q", name)
		assert.Equal(t, want, f.Name(), "format %q", name)
	}

	f, err := New("xml", value.NewNull(), logger)
	assert.ErrorContains(t, err, "xml")
	assert.Nil(t, f)
}

func TestNew_UnknownOption(t *testing.T) {
	_, err := New("raw", options(t, map[string]any{"pretty": true}), newTestLogger())
	assert.ErrorContains(t, err, "pretty")

	_, err = New("json", options(t, map[string]any{"pretty": "yes"}), newTestLogger())
	assert.Error(t, err)
}
