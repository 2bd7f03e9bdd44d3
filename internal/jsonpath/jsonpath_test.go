package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasrepo/document"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		segLen  int
	}{
		{name: "root only", input: "$", segLen: 1},
		{name: "simple child", input: "$.info", segLen: 2},
		{name: "nested children", input: "$.info.title", segLen: 3},
		{name: "bracket notation single quote", input: "$['info']", segLen: 2},
		{name: "bracket notation double quote", input: "$[\"info\"]", segLen: 2},
		{name: "path with slash and method", input: "$.paths['/users'].get", segLen: 4},
		{name: "wildcard then child", input: "$.paths.*.get", segLen: 4},
		{name: "negative index", input: "$.servers[-1]", segLen: 3},
		{name: "bracket wildcard", input: "$[*]", segLen: 2},
		{name: "dollar in identifier", input: "$.schema.$ref", segLen: 3},
		{name: "recursive child", input: "$..description", segLen: 2},
		{name: "recursive wildcard", input: "$..*", segLen: 2},
		{name: "recursive filter", input: "$..[?(@.$ref)]", segLen: 2},
		{name: "existence filter", input: "$.paths.*[?@.x-internal]", segLen: 4},
		{name: "filter with string", input: "$.parameters[?@.name=='filter']", segLen: 3},
		{name: "filter with parens and spaces", input: "$.items[?(@.count >= 5)]", segLen: 3},
		{name: "filter float", input: "$.items[?@.ratio<0.5]", segLen: 3},

		{name: "empty string", input: "", wantErr: true},
		{name: "no dollar", input: "info", wantErr: true},
		{name: "trailing dot", input: "$.info.", wantErr: true},
		{name: "trailing recursive", input: "$..", wantErr: true},
		{name: "unclosed bracket", input: "$['info", wantErr: true},
		{name: "unclosed filter", input: "$.paths[?@.foo", wantErr: true},
		{name: "unclosed paren", input: "$.paths[?(@.foo]", wantErr: true},
		{name: "filter without field", input: "$.paths[?==true]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, path.segments, tt.segLen)
			assert.Equal(t, tt.input, path.String())
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.NotPanics(t, func() { MustParse("$.info") })
}

func testDoc() *document.Map {
	return document.MapOf(
		"info", document.MapOf("title", "Pets", "description", "top"),
		"paths", document.MapOf(
			"/pets", document.MapOf(
				"get", document.MapOf(
					"description", "list",
					"parameters", []any{
						document.MapOf("name", "limit", "in", "query"),
						document.MapOf("$ref", "#/parameters/Offset"),
					},
					"x-internal", false,
				),
				"post", document.MapOf("x-internal", true, "priority", 3),
			),
		),
	)
}

func TestGet(t *testing.T) {
	doc := testDoc()

	tests := []struct {
		name string
		expr string
		want []any
	}{
		{"child", "$.info.title", []any{"Pets"}},
		{"bracket key", "$.paths['/pets'].post.priority", []any{3}},
		{"wildcard keeps order", "$.paths['/pets'].*.x-internal", []any{false, true}},
		{"index", "$.paths.*.get.parameters[0].name", []any{"limit"}},
		{"negative index", "$.paths.*.get.parameters[-1].$ref", []any{"#/parameters/Offset"}},
		{"recursive", "$..description", []any{"top", "list"}},
		{"equality filter", "$.paths.*[?@.x-internal==true].priority", []any{3}},
		{"comparison filter", "$.paths.*[?@.priority>2].x-internal", []any{true}},
		{"missing", "$.nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.expr).Get(doc))
		})
	}
}

func TestLocate(t *testing.T) {
	doc := testDoc()

	nodes := MustParse("$..[?(@.$ref)]").Locate(doc)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Equal(t, "/paths/~1pets/get/parameters/1", n.Path.Pointer())
	assert.Equal(t, 1, n.Key)

	params, ok := n.Parent.([]any)
	require.True(t, ok)
	params[1] = "replaced"

	v, _ := document.Get(doc, n.Path)
	assert.Equal(t, "replaced", v)
}

func TestLocateRoot(t *testing.T) {
	doc := testDoc()
	nodes := MustParse("$").Locate(doc)
	require.Len(t, nodes, 1)
	assert.Empty(t, nodes[0].Path)
	assert.Nil(t, nodes[0].Parent)
	assert.Same(t, doc, nodes[0].Value)
}

func TestRecursiveWildcardVisitsEverything(t *testing.T) {
	doc := document.MapOf("a", document.MapOf("b", []any{1, 2}))
	got := MustParse("$..*").Locate(doc)

	var pointers []string
	for _, n := range got {
		pointers = append(pointers, n.Path.Pointer())
	}
	assert.Equal(t, []string{"/a", "/a/b", "/a/b/0", "/a/b/1"}, pointers)
}

func TestFilterExprString(t *testing.T) {
	assert.Equal(t, "@.$ref", (&FilterExpr{Field: "$ref"}).String())
	assert.Equal(t, "@.count >= 5", (&FilterExpr{Field: "count", Operator: ">=", Value: 5}).String())
}
