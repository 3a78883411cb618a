package builtin

import (
	"testing"

	"logsieve/src/internal/core"
	"logsieve/src/internal/filter"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const chainYAML = `
- kind: regex
  patterns: ["healthcheck"]
  on_match: reject
- kind: regex
  patterns: ["^payments "]
- kind: threshold
  level: warn
`

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(log.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"rate_limit", "regex", "threshold"}, r.Kinds())
}

func TestBuiltinChain(t *testing.T) {
	r, err := NewRegistry(log.NewLogger())
	require.NoError(t, err)

	var configs []filter.Config
	require.NoError(t, yaml.Unmarshal([]byte(chainYAML), &configs))

	chain, err := r.BuildChain(configs, true)
	require.NoError(t, err)
	require.Equal(t, 3, chain.Len())

	tests := []struct {
		name    string
		entry   core.LogEntry
		allowed bool
	}{
		{"HealthcheckRejected", core.LogEntry{Source: "payments", Level: core.LevelError, Message: "healthcheck failed"}, false},
		{"PaymentsAcceptedBelowThreshold", core.LogEntry{Source: "payments", Level: core.LevelDebug, Message: "charged"}, true},
		{"OtherInfoRejected", core.LogEntry{Source: "api", Level: core.LevelInfo, Message: "request"}, false},
		{"OtherWarnAllowed", core.LogEntry{Source: "api", Level: core.LevelWarn, Message: "slow request"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, chain.Apply(tt.entry))
		})
	}
}
