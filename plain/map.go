// Package plain provides Map, the insertion-ordered string-keyed mapping used
// to exchange configuration between structured objects and external sources.
//
// Values held by a Map are scalars, []any sequences, nested *Map values and
// encoded callable strings of the form "module:attribute". Order is kept for
// rendering and serialization only; lookups do not depend on it.
package plain

import (
	"fmt"
	"slices"
	"sort"
)

// Map is an ordered mapping of string keys to heterogeneous values.
// The zero value is an empty map ready to use. A nil *Map reads as empty.
type Map struct {
	keys   []string
	values map[string]any
}

// New creates an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Of builds a Map from alternating keys and values.
// It panics if a key is not a string or a value is missing.
func Of(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("plain.Of: odd number of arguments")
	}

	m := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("plain.Of: key at position %d is %T, not string", i, kv[i]))
		}

		m.Set(key, kv[i+1])
	}

	return m
}

// Set stores v under key. New keys are appended; existing keys keep their position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}

	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	v, ok := m.values[key]

	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key. Removing an absent key is a no-op.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}

	if _, exists := m.values[key]; !exists {
		return
	}

	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, v any) bool) {
	if m == nil {
		return
	}

	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy. Nested maps and []any sequences are copied,
// other values are shared.
func (m *Map) Clone() *Map {
	out := New()
	m.Range(func(k string, v any) bool {
		out.Set(k, cloneValue(v))
		return true
	})

	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case *Map:
		return tv.Clone()
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}

// ToStd converts the map into nested map[string]any values, dropping order.
func (m *Map) ToStd() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(k string, v any) bool {
		out[k] = toStdValue(v)
		return true
	})

	return out
}

func toStdValue(v any) any {
	switch tv := v.(type) {
	case *Map:
		return tv.ToStd()
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = toStdValue(e)
		}

		return out
	default:
		return v
	}
}

// FromStd converts nested map[string]any values into a Map.
// Go maps carry no order, so keys are sorted.
func FromStd(src map[string]any) *Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := New()
	for _, k := range keys {
		out.Set(k, Normalize(src[k]))
	}

	return out
}

// Normalize converts decoder output into plain values: map[string]any becomes
// *Map, []any elements are normalized recursively, everything else is kept.
func Normalize(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return FromStd(tv)
	case Map:
		return &tv
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = Normalize(e)
		}

		return out
	default:
		return v
	}
}
