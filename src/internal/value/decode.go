package value

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag consulted for field names when decoding.
const TagName = "toml"

// Unmarshaler is implemented by types that build themselves from a Value.
type Unmarshaler interface {
	UnmarshalValue(Value) error
}

var (
	valueType       = reflect.TypeOf(Value{})
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textType        = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Decode re-decodes v into target, which must be a non-nil pointer.
//
// Decoding is strict: unknown keys are an error and scalars are never coerced
// across kinds (a number does not become a string). Failures are reported as
// *mapstructure.Error naming the offending field.
func Decode(v Value, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		TagName:     TagName,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			valueHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
			textOnlyHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	data, err := v.ToAny()
	if err != nil {
		return err
	}
	return decoder.Decode(data)
}

// As decodes v into a new T.
func As[T any](v Value) (T, error) {
	var out T
	err := Decode(v, &out)
	return out, err
}

// valueHook keeps Value fields generic and hands Unmarshaler targets their
// raw Value.
func valueHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to == valueType {
		return FromAny(data)
	}

	if reflect.PointerTo(to).Implements(unmarshalerType) {
		v, err := FromAny(data)
		if err != nil {
			return nil, err
		}
		target := reflect.New(to)
		if err := target.Interface().(Unmarshaler).UnmarshalValue(v); err != nil {
			return nil, err
		}
		return target.Elem().Interface(), nil
	}

	return data, nil
}

// textOnlyHook rejects whatever is left of a non-string scalar headed for an
// encoding.TextUnmarshaler. Without it a number would be copied into the
// underlying integer of an enum such as a level or response.
func textOnlyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if data == nil || !reflect.PointerTo(to).Implements(textType) {
		return data, nil
	}
	// TextUnmarshallerHookFunc hands over a pointer to the decoded value
	if from == to || from == reflect.PointerTo(to) || from.Kind() == reflect.String {
		return data, nil
	}
	return nil, fmt.Errorf("expected a string for %s, got %s", to, describe(from))
}

func describe(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Map:
		return "map"
	case reflect.Slice, reflect.Array:
		return "sequence"
	default:
		return t.Kind().String()
	}
}
