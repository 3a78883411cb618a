// Package value provides a generic configuration value tree.
//
// A Value holds structured configuration data (maps, sequences, scalars)
// before its target type is known. It is produced by the TOML, YAML and JSON
// decoders and later re-decoded into a concrete Go type with Decode or As.
package value

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable tagged union. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	u       uint64
	f       float64
	s       string
	seq     []Value
	entries []Entry
}

func NewNull() Value { return Value{} }
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }
func NewUint(u uint64) Value { return Value{kind: KindUint, u: u} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }
func NewString(s string) Value { return Value{kind: KindString, s: s} }
func NewSeq(items ...Value) Value { return Value{kind: KindSeq, seq: slices.Clone(items)} }

// NewMap wraps a snapshot of m as a map Value. Later changes to m are not
// reflected in the returned Value. A nil mapping yields an empty map.
func NewMap(m *Mapping) Value {
	if m == nil {
		return Value{kind: KindMap}
	}
	return Value{kind: KindMap, entries: slices.Clone(m.entries)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

func (v Value) AsUint() (uint64, bool) { return v.u, v.kind == KindUint }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsSeq returns a copy of the sequence items.
func (v Value) AsSeq() ([]Value, bool) {
	if v.kind != KindSeq {
		return nil, false
	}
	return slices.Clone(v.seq), true
}

// AsMapping returns a mutable copy of the map entries.
func (v Value) AsMapping() (*Mapping, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return &Mapping{entries: slices.Clone(v.entries)}, true
}

// Len returns the number of items of a sequence or map, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSeq:
		return len(v.seq)
	case KindMap:
		return len(v.entries)
	default:
		return 0
	}
}

// Lookup returns the value stored under the string key in a map Value.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	m := Mapping{entries: v.entries}
	return m.Get(NewString(key))
}

// Equal reports structural equality.
func (v Value) Equal(other Value) bool {
	return Compare(v, other) == 0
}

// Compare orders two values, first by kind and then by content. It is the
// key order of every Mapping.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}

	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case KindInt:
		return cmp.Compare(a.i, b.i)
	case KindUint:
		return cmp.Compare(a.u, b.u)
	case KindFloat:
		return cmp.Compare(a.f, b.f)
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindSeq:
		return slices.CompareFunc(a.seq, b.seq, Compare)
	case KindMap:
		return slices.CompareFunc(a.entries, b.entries, func(x, y Entry) int {
			if c := Compare(x.Key, y.Key); c != 0 {
				return c
			}
			return Compare(x.Value, y.Value)
		})
	}
	return 0
}

// String returns a compact debug representation.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindUint:
		sb.WriteString(strconv.FormatUint(v.u, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindSeq:
		sb.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.write(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.Key.write(sb)
			sb.WriteString(": ")
			e.Value.write(sb)
		}
		sb.WriteByte('}')
	}
}
