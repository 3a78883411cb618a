package value

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_KeySorted(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("zeta"), NewInt(1))
	m.Set(NewString("alpha"), NewInt(2))
	m.Set(NewString("mid"), NewInt(3))
	m.Set(NewInt(7), NewBool(true))

	keys := m.Keys()
	require.Len(t, keys, 4)
	// Ints rank before strings, strings sort lexically
	assert.True(t, keys[0].Equal(NewInt(7)))
	assert.True(t, keys[1].Equal(NewString("alpha")))
	assert.True(t, keys[2].Equal(NewString("mid")))
	assert.True(t, keys[3].Equal(NewString("zeta")))

	t.Run("SetReplaces", func(t *testing.T) {
		m.Set(NewString("mid"), NewString("replaced"))
		got, ok := m.Get(NewString("mid"))
		require.True(t, ok)
		assert.Equal(t, "replaced", got.Interface())
		assert.Equal(t, 4, m.Len())
	})

	t.Run("Remove", func(t *testing.T) {
		removed, ok := m.Remove(NewString("alpha"))
		require.True(t, ok)
		assert.True(t, removed.Equal(NewInt(2)))
		assert.Equal(t, 3, m.Len())

		_, ok = m.Remove(NewString("alpha"))
		assert.False(t, ok)
	})
}

func TestNewMap_Snapshot(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("a"), NewInt(1))
	v := NewMap(m)

	m.Set(NewString("b"), NewInt(2))
	assert.Equal(t, 1, v.Len())

	copied, ok := v.AsMapping()
	require.True(t, ok)
	copied.Remove(NewString("a"))
	assert.Equal(t, 1, v.Len())
}

func TestValue_EqualIgnoresInsertionOrder(t *testing.T) {
	first, err := FromAny(map[string]any{"level": "warn", "rate": 10, "tags": []any{"a", "b"}})
	require.NoError(t, err)

	m := NewMapping()
	m.Set(NewString("tags"), NewSeq(NewString("a"), NewString("b")))
	m.Set(NewString("rate"), NewInt(10))
	m.Set(NewString("level"), NewString("warn"))
	second := NewMap(m)

	assert.True(t, first.Equal(second))
	assert.False(t, first.Equal(NewMap(nil)))
	assert.False(t, NewInt(1).Equal(NewUint(1)))
}

func TestFromAny(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected Value
	}{
		{"Nil", nil, NewNull()},
		{"Bool", true, NewBool(true)},
		{"Int", 42, NewInt(42)},
		{"Int32", int32(-3), NewInt(-3)},
		{"Uint16", uint16(9), NewUint(9)},
		{"Float", 1.5, NewFloat(1.5)},
		{"String", "hello", NewString("hello")},
		{"JSONNumberInt", json.Number("12"), NewInt(12)},
		{"JSONNumberFloat", json.Number("1.25"), NewFloat(1.25)},
		{"Duration", 1500 * time.Millisecond, NewString("1.5s")},
		{"TypedSlice", []string{"x", "y"}, NewSeq(NewString("x"), NewString("y"))},
		{"TableArray", []map[string]any{{"k": 1}}, NewSeq(mapOf(t, map[string]any{"k": 1}))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromAny(tc.input)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}

	t.Run("InterfaceKeys", func(t *testing.T) {
		got, err := FromAny(map[any]any{1: "one", "two": 2})
		require.NoError(t, err)
		one, ok := got.AsMapping()
		require.True(t, ok)
		v, ok := one.Get(NewInt(1))
		require.True(t, ok)
		assert.Equal(t, "one", v.Interface())
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := FromAny(map[string]any{"bad": struct{}{}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bad")
	})
}

func TestValue_String(t *testing.T) {
	v := mapOf(t, map[string]any{"b": []any{1, "x"}, "a": nil})
	assert.Equal(t, `{"a": null, "b": [1, "x"]}`, v.String())
}

func TestDecode(t *testing.T) {
	type limits struct {
		Rate   float64       `toml:"rate"`
		Burst  int           `toml:"burst"`
		Window time.Duration `toml:"window"`
		Tags   []string      `toml:"tags"`
		Extra  Value         `toml:"extra"`
	}

	t.Run("Success", func(t *testing.T) {
		v := mapOf(t, map[string]any{
			"rate":   10,
			"burst":  20,
			"window": "2s",
			"tags":   []any{"a", "b"},
			"extra":  map[string]any{"nested": true},
		})

		got, err := As[limits](v)
		require.NoError(t, err)
		assert.Equal(t, 10.0, got.Rate)
		assert.Equal(t, 20, got.Burst)
		assert.Equal(t, 2*time.Second, got.Window)
		assert.Equal(t, []string{"a", "b"}, got.Tags)
		assert.Equal(t, KindMap, got.Extra.Kind())
		nested, ok := got.Extra.Lookup("nested")
		require.True(t, ok)
		assert.True(t, nested.Equal(NewBool(true)))
	})

	t.Run("UnknownField", func(t *testing.T) {
		v := mapOf(t, map[string]any{"rate": 1, "colour": "red"})
		_, err := As[limits](v)
		require.Error(t, err)
		var merr *mapstructure.Error
		assert.ErrorAs(t, err, &merr)
		assert.Contains(t, err.Error(), "colour")
	})

	t.Run("WrongType", func(t *testing.T) {
		v := mapOf(t, map[string]any{"burst": "lots"})
		_, err := As[limits](v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "burst")
	})

	t.Run("NoNumberToStringCoercion", func(t *testing.T) {
		_, err := As[string](NewInt(5))
		assert.Error(t, err)
	})

	t.Run("ScalarTarget", func(t *testing.T) {
		s, err := As[string](NewString("threshold"))
		require.NoError(t, err)
		assert.Equal(t, "threshold", s)
	})
}

type upperName struct {
	name string
}

func (u *upperName) UnmarshalValue(v Value) error {
	s, ok := v.AsString()
	if !ok {
		return assert.AnError
	}
	u.name = s + "!"
	return nil
}

func TestDecode_Unmarshaler(t *testing.T) {
	type holder struct {
		Names []upperName `toml:"names"`
	}

	got, err := As[holder](mapOf(t, map[string]any{"names": []any{"a", "b"}}))
	require.NoError(t, err)
	require.Len(t, got.Names, 2)
	assert.Equal(t, "a!", got.Names[0].name)
	assert.Equal(t, "b!", got.Names[1].name)

	_, err = As[holder](mapOf(t, map[string]any{"names": []any{1}}))
	assert.Error(t, err)
}

func TestValue_ToAnyCompositeKey(t *testing.T) {
	m := NewMapping()
	m.Set(NewSeq(NewString("a")), NewString("from sequence"))
	m.Set(NewString(`["a"]`), NewString("from string"))
	doc := NewMap(m)

	_, err := doc.ToAny()
	assert.ErrorIs(t, err, ErrCompositeKey)

	outer := NewMapping()
	outer.Set(NewString("labels"), doc)
	_, err = NewMap(outer).ToAny()
	assert.ErrorIs(t, err, ErrCompositeKey)
	assert.Contains(t, err.Error(), "labels")

	var target map[string]any
	assert.ErrorIs(t, Decode(NewMap(outer), &target), ErrCompositeKey)

	t.Run("ScalarKeysConvert", func(t *testing.T) {
		scalar := NewMapping()
		scalar.Set(NewInt(1), NewString("one"))
		scalar.Set(NewString("two"), NewInt(2))
		got, err := NewMap(scalar).ToAny()
		require.NoError(t, err)
		assert.Equal(t, map[any]any{int64(1): "one", "two": int64(2)}, got)
	})
}

type colour uint8

func (c *colour) UnmarshalText(text []byte) error {
	switch string(text) {
	case "red":
		*c = 1
	case "green":
		*c = 2
	default:
		return fmt.Errorf("unknown colour %q", text)
	}
	return nil
}

func TestDecode_TextUnmarshalerNeedsString(t *testing.T) {
	type paint struct {
		Colour colour  `toml:"colour"`
		Trim   *colour `toml:"trim"`
	}

	got, err := As[paint](mapOf(t, map[string]any{"colour": "green", "trim": "red"}))
	require.NoError(t, err)
	assert.Equal(t, colour(2), got.Colour)
	require.NotNil(t, got.Trim)
	assert.Equal(t, colour(1), *got.Trim)

	for _, input := range []map[string]any{
		{"colour": 2},
		{"trim": 1},
		{"colour": 1.5},
		{"colour": true},
		{"colour": []any{"red"}},
	} {
		_, err := As[paint](mapOf(t, input))
		require.Error(t, err, "input %v", input)
		var merr *mapstructure.Error
		assert.ErrorAs(t, err, &merr, "input %v", input)
		assert.Contains(t, err.Error(), "expected a string", "input %v", input)
	}
}

func mapOf(t *testing.T, m map[string]any) Value {
	t.Helper()
	v, err := FromAny(m)
	require.NoError(t, err)
	return v
}
