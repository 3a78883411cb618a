package filter

import (
	"encoding/json"
	"errors"
	"fmt"

	"logsieve/src/internal/value"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// KindField is the discriminator key of a filter configuration block.
const KindField = "kind"

var (
	ErrMissingField = errors.New("missing required field")
	ErrEmptyField   = errors.New("empty required field")
	ErrInvalidShape = errors.New("invalid filter configuration")
)

var (
	_ value.Unmarshaler = (*Config)(nil)
	_ yaml.Unmarshaler  = (*Config)(nil)
	_ toml.Unmarshaler  = (*Config)(nil)
	_ json.Unmarshaler  = (*Config)(nil)
)

// Config is one filter's declaration as parsed from configuration: the kind
// that selects the implementation and every other field of the block, kept
// generic until the kind's own configuration type is known.
type Config struct {
	Kind string
	// Config never contains the kind key.
	Config value.Value
}

// ParseConfig splits a configuration block into its kind and the residual
// fields. The block must be a map with a string "kind" entry. A kind of the
// wrong type is reported with the decoder's own error.
func ParseConfig(v value.Value) (Config, error) {
	m, ok := v.AsMapping()
	if !ok {
		return Config{}, fmt.Errorf("%w: expected map, found %s", ErrInvalidShape, v.Kind())
	}

	rawKind, ok := m.Remove(value.NewString(KindField))
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingField, KindField)
	}

	head := value.NewMapping()
	head.Set(value.NewString(KindField), rawKind)

	var discriminator struct {
		Kind string `toml:"kind"`
	}
	if err := value.Decode(value.NewMap(head), &discriminator); err != nil {
		return Config{}, err
	}
	if discriminator.Kind == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrEmptyField, KindField)
	}

	return Config{
		Kind:   discriminator.Kind,
		Config: value.NewMap(m),
	}, nil
}

// Decode re-decodes the residual configuration into target, the
// configuration type of the filter kind.
func (c Config) Decode(target any) error {
	return value.Decode(c.Config, target)
}

// Equal reports whether two configurations declare the same filter.
func (c Config) Equal(other Config) bool {
	return c.Kind == other.Kind && c.Config.Equal(other.Config)
}

func (c Config) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Config)
}

func (c *Config) UnmarshalValue(v value.Value) error {
	parsed, err := ParseConfig(v)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var v value.Value
	if err := v.UnmarshalYAML(node); err != nil {
		return err
	}
	return c.UnmarshalValue(v)
}

func (c *Config) UnmarshalTOML(data any) error {
	var v value.Value
	if err := v.UnmarshalTOML(data); err != nil {
		return err
	}
	return c.UnmarshalValue(v)
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var v value.Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	return c.UnmarshalValue(v)
}
