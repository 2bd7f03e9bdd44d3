package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOf(t *testing.T) {
	m := MapOf("b", 1, "a", 2)
	assert.Equal(t, []string{"b", "a"}, Keys(m))

	assert.Panics(t, func() { MapOf("odd") })
	assert.Panics(t, func() { MapOf(1, 2) })
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"key order ignored", MapOf("a", 1, "b", 2), MapOf("b", 2, "a", 1), true},
		{"different values", MapOf("a", 1), MapOf("a", 2), false},
		{"missing key", MapOf("a", 1, "b", 2), MapOf("a", 1), false},
		{"int and float", 1, 1.0, true},
		{"nested", MapOf("x", []any{MapOf("k", "v")}), MapOf("x", []any{MapOf("k", "v")}), true},
		{"sequence order matters", []any{1, 2}, []any{2, 1}, false},
		{"map and scalar", MapOf(), "a", false},
		{"nil values", nil, nil, true},
		{"plain maps", map[string]any{"a": 1}, map[string]any{"a": 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestClone(t *testing.T) {
	orig := MapOf("list", []any{MapOf("name", "a")})
	cp := CloneMap(orig)
	require.True(t, Equal(orig, cp))

	list, _ := cp.Get("list")
	inner := list.([]any)[0].(*Map)
	inner.Set("name", "changed")

	assert.False(t, Equal(orig, cp), "clone must not share nested containers")
}

func TestShallowCopy(t *testing.T) {
	orig := MapOf("a", 1, "b", MapOf("c", 2))
	cp := ShallowCopy(orig)
	cp.Delete("a")

	assert.True(t, Has(orig, "a"))
	b1, _ := GetMap(orig, "b")
	b2, _ := GetMap(cp, "b")
	assert.Same(t, b1, b2)
}

func TestGetMap(t *testing.T) {
	m := MapOf("child", MapOf(), "scalar", "x")

	_, ok := GetMap(m, "child")
	assert.True(t, ok)
	_, ok = GetMap(m, "scalar")
	assert.False(t, ok)
	_, ok = GetMap(nil, "child")
	assert.False(t, ok)
}
