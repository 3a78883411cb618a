package value

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormats_Agree(t *testing.T) {
	yamlDoc := `
kind: regex
patterns: ["timeout", "refused"]
limits:
  rate: 5
  enabled: true
`
	tomlDoc := `
kind = "regex"
patterns = ["timeout", "refused"]

[limits]
rate = 5
enabled = true
`
	jsonDoc := `{"kind": "regex", "patterns": ["timeout", "refused"], "limits": {"rate": 5, "enabled": true}}`

	fromYAML, err := ParseYAML([]byte(yamlDoc))
	require.NoError(t, err)
	fromTOML, err := ParseTOML([]byte(tomlDoc))
	require.NoError(t, err)
	fromJSON, err := ParseJSON([]byte(jsonDoc))
	require.NoError(t, err)

	assert.True(t, fromYAML.Equal(fromTOML), "yaml %s != toml %s", fromYAML, fromTOML)
	assert.True(t, fromYAML.Equal(fromJSON), "yaml %s != json %s", fromYAML, fromJSON)

	limits, ok := fromJSON.Lookup("limits")
	require.True(t, ok)
	rate, ok := limits.Lookup("rate")
	require.True(t, ok)
	assert.Equal(t, KindInt, rate.Kind())
}

func TestValue_EmbeddedInDocuments(t *testing.T) {
	type doc struct {
		Name   string `toml:"name" yaml:"name" json:"name"`
		Config Value  `toml:"config" yaml:"config" json:"config"`
	}

	t.Run("YAML", func(t *testing.T) {
		var d doc
		require.NoError(t, yaml.Unmarshal([]byte("name: a\nconfig:\n  level: warn\n"), &d))
		level, ok := d.Config.Lookup("level")
		require.True(t, ok)
		assert.True(t, level.Equal(NewString("warn")))
	})

	t.Run("TOML", func(t *testing.T) {
		var d doc
		_, err := toml.Decode("name = \"a\"\n[config]\nlevel = \"warn\"\n", &d)
		require.NoError(t, err)
		level, ok := d.Config.Lookup("level")
		require.True(t, ok)
		assert.True(t, level.Equal(NewString("warn")))
	})

	t.Run("JSON", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"name":"a","config":{"level":"warn","n":3}}`), &d))
		n, ok := d.Config.Lookup("n")
		require.True(t, ok)
		assert.True(t, n.Equal(NewInt(3)))
	})
}

func TestParseJSON_TrailingData(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}
