package document

import (
	"math"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered mapping. Key order is preserved when a document
// is written back out but is irrelevant to [Equal].
type Map = orderedmap.OrderedMap[string, any]

// NewMap returns an empty Map.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// MapOf builds a Map from alternating key/value pairs. It panics on an odd
// number of arguments or a non-string key, so it is meant for literals in
// code and tests.
func MapOf(pairs ...any) *Map {
	if len(pairs)%2 != 0 {
		panic("document: MapOf requires an even number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("document: MapOf keys must be strings")
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Keys returns the keys of m in insertion order.
func Keys(m *Map) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Has reports whether m holds key.
func Has(m *Map, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Get(key)
	return ok
}

// GetMap returns m[key] when it is a mapping.
func GetMap(m *Map, key string) (*Map, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Map)
	return child, ok && child != nil
}

// ShallowCopy returns a new Map holding the same top-level entries as m.
func ShallowCopy(m *Map) *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// Clone returns a deep copy of v. Mappings and sequences are copied, scalars
// are shared since they are immutable.
func Clone(v any) any {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			return (*Map)(nil)
		}
		out := NewMap()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, Clone(pair.Value))
		}
		return out
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	default:
		return val
	}
}

// CloneMap is Clone for a mapping root.
func CloneMap(m *Map) *Map {
	out, _ := Clone(m).(*Map)
	return out
}

// Equal reports whether a and b are structurally equal. Mapping key order is
// ignored and numbers compare by value regardless of their Go type, so a
// document read from JSON equals the same document read from YAML.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		if !ok {
			return false
		}
		if av == nil || bv == nil {
			return av == nil && bv == nil
		}
		if av.Len() != bv.Len() {
			return false
		}
		for pair := av.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := bv.Get(pair.Key)
			if !ok || !Equal(pair.Value, other) {
				return false
			}
		}
		return true

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}

	if an, ok := toFloat(a); ok {
		bn, ok := toFloat(b)
		return ok && an == bn
	}

	return reflect.DeepEqual(a, b)
}

// toFloat normalizes the numeric types produced by the YAML and JSON decoders.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
