package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// FromAny converts the generic output of a decoder (TOML, YAML, JSON or a
// hand-built map[string]any) into a Value.
func FromAny(data any) (Value, error) {
	switch d := data.(type) {
	case nil:
		return NewNull(), nil
	case Value:
		return d, nil
	case *Value:
		if d == nil {
			return NewNull(), nil
		}
		return *d, nil
	case bool:
		return NewBool(d), nil
	case string:
		return NewString(d), nil
	case []byte:
		return NewString(string(d)), nil
	case int:
		return NewInt(int64(d)), nil
	case int8:
		return NewInt(int64(d)), nil
	case int16:
		return NewInt(int64(d)), nil
	case int32:
		return NewInt(int64(d)), nil
	case int64:
		return NewInt(d), nil
	case uint:
		return NewUint(uint64(d)), nil
	case uint8:
		return NewUint(uint64(d)), nil
	case uint16:
		return NewUint(uint64(d)), nil
	case uint32:
		return NewUint(uint64(d)), nil
	case uint64:
		return NewUint(d), nil
	case float32:
		return NewFloat(float64(d)), nil
	case float64:
		return NewFloat(d), nil
	case json.Number:
		if i, err := d.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := d.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", d.String(), err)
		}
		return NewFloat(f), nil
	case time.Time:
		return NewString(d.Format(time.RFC3339Nano)), nil
	case time.Duration:
		return NewString(d.String()), nil
	case []any:
		items := make([]Value, 0, len(d))
		for i, item := range d {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindSeq, seq: items}, nil
	case []map[string]any:
		items := make([]Value, 0, len(d))
		for i, item := range d {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindSeq, seq: items}, nil
	case map[string]any:
		m := NewMapping()
		for k, item := range d {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m.Set(NewString(k), v)
		}
		return NewMap(m), nil
	case map[any]any:
		m := NewMapping()
		for k, item := range d {
			key, err := FromAny(k)
			if err != nil {
				return Value{}, fmt.Errorf("key %v: %w", k, err)
			}
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%v: %w", k, err)
			}
			m.Set(key, v)
		}
		return NewMap(m), nil
	}

	return fromReflect(reflect.ValueOf(data))
}

// fromReflect handles typed slices and maps that the type switch misses,
// e.g. []string or map[string]int.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NewNull(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindSeq, seq: items}, nil
	case reflect.Map:
		m := NewMapping()
		iter := rv.MapRange()
		for iter.Next() {
			key, err := FromAny(iter.Key().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
			}
			v, err := FromAny(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("%v: %w", iter.Key(), err)
			}
			m.Set(key, v)
		}
		return NewMap(m), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float()), nil
	}

	return Value{}, fmt.Errorf("unsupported config value type %s", rv.Type())
}

// ErrCompositeKey reports a map keyed by a sequence or another map, which has
// no plain Go map key equivalent.
var ErrCompositeKey = errors.New("sequence or map used as a map key")

// Interface converts v back to plain Go values: nil, bool, int64, uint64,
// float64, string, []any and map[string]any. Maps whose keys are not all
// strings become map[any]any. Sequence and map keys are replaced by their
// text form and may collide with string keys; use ToAny where that matters.
func (v Value) Interface() any {
	out, _ := v.native(false)
	return out
}

// ToAny is Interface without the lossy key fallback: a sequence or map used
// as a key fails with ErrCompositeKey.
func (v Value) ToAny() (any, error) {
	return v.native(true)
}

func (v Value) native(strict bool) (any, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindUint:
		return v.u, nil
	case KindFloat:
		return v.f, nil
	case KindString:
		return v.s, nil
	case KindSeq:
		items := make([]any, len(v.seq))
		for i, item := range v.seq {
			native, err := item.native(strict)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = native
		}
		return items, nil
	case KindMap:
		if v.stringKeys() {
			out := make(map[string]any, len(v.entries))
			for _, e := range v.entries {
				native, err := e.Value.native(strict)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", e.Key.s, err)
				}
				out[e.Key.s] = native
			}
			return out, nil
		}
		out := make(map[any]any, len(v.entries))
		for _, e := range v.entries {
			key := e.Key
			if key.kind == KindSeq || key.kind == KindMap {
				if strict {
					return nil, fmt.Errorf("%w: %s", ErrCompositeKey, key)
				}
				out[key.String()], _ = e.Value.native(false)
				continue
			}
			k, _ := key.native(strict)
			native, err := e.Value.native(strict)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", k, err)
			}
			out[k] = native
		}
		return out, nil
	}
	return nil, nil
}

func (v Value) stringKeys() bool {
	for _, e := range v.entries {
		if e.Key.kind != KindString {
			return false
		}
	}
	return true
}
