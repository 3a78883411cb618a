package value

import "slices"

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   Value
	Value Value
}

// Mapping is a key-sorted map from Value to Value. Iteration order follows
// Compare on the keys, never insertion order. The zero Mapping is empty and
// ready to use. A Mapping is not safe for concurrent mutation.
type Mapping struct {
	entries []Entry
}

func NewMapping() *Mapping {
	return &Mapping{}
}

func (m *Mapping) search(key Value) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(e Entry, k Value) int {
		return Compare(e.Key, k)
	})
}

// Set inserts or replaces the value stored under key.
func (m *Mapping) Set(key, val Value) {
	i, found := m.search(key)
	if found {
		m.entries[i].Value = val
		return
	}
	m.entries = slices.Insert(m.entries, i, Entry{Key: key, Value: val})
}

func (m *Mapping) Get(key Value) (Value, bool) {
	i, found := m.search(key)
	if !found {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

// Remove deletes key and returns the value it held.
func (m *Mapping) Remove(key Value) (Value, bool) {
	i, found := m.search(key)
	if !found {
		return Value{}, false
	}
	removed := m.entries[i].Value
	m.entries = slices.Delete(m.entries, i, i+1)
	return removed, true
}

func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in key order.
func (m *Mapping) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Keys returns the keys in order.
func (m *Mapping) Keys() []Value {
	keys := make([]Value, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}
