package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	_ yaml.Unmarshaler = (*Value)(nil)
	_ toml.Unmarshaler = (*Value)(nil)
	_ json.Unmarshaler = (*Value)(nil)
)

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}

func (v *Value) UnmarshalTOML(data any) error {
	parsed, err := FromAny(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// UnmarshalJSON keeps integers exact instead of widening them to float64.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseYAML decodes a YAML document into a Value.
func ParseYAML(data []byte) (Value, error) {
	var v Value
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// ParseTOML decodes a TOML document into a Value. The document root is
// always a table.
func ParseTOML(data []byte) (Value, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Value{}, err
	}
	return FromAny(raw)
}

// ParseJSON decodes a JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	raw, err := decodeJSON(bytes.NewReader(data))
	if err != nil {
		return Value{}, err
	}
	return FromAny(raw)
}

func decodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return raw, nil
}
