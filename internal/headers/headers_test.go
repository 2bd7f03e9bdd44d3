package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/oaserrors"
)

func parse(t *testing.T, src string) *document.Map {
	t.Helper()
	doc, err := document.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestInline(t *testing.T) {
	doc := parse(t, `
headers:
  Rate-Limit:
    type: integer
    description: requests left
paths:
  /a:
    get:
      responses:
        "200":
          headers:
            X-Rate-Limit:
              $ref: "#/headers/Rate-Limit"
`)
	warnings, err := Inline(doc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.False(t, document.Has(doc, "headers"))

	got, ok := document.Get(doc, document.Path{"paths", "/a", "get", "responses", "200", "headers", "X-Rate-Limit"})
	require.True(t, ok)
	want := document.MapOf("type", "integer", "description", "requests left")
	assert.True(t, document.Equal(want, got))
}

func TestInlineLeavesOtherRefs(t *testing.T) {
	doc := parse(t, `
headers:
  H: {type: string}
definitions:
  User: {type: object}
paths:
  /u:
    get:
      responses:
        "200":
          schema:
            $ref: "#/definitions/User"
`)
	_, err := Inline(doc)
	require.NoError(t, err)

	ref, ok := document.Get(doc, document.Path{"paths", "/u", "get", "responses", "200", "schema", "$ref"})
	require.True(t, ok)
	assert.Equal(t, "#/definitions/User", ref)
}

func TestInlineMatchesWholeSectionName(t *testing.T) {
	doc := parse(t, `
headers:
  H: {type: string}
headersExtra:
  H: {type: integer}
paths:
  /u:
    get:
      responses:
        "200":
          headers:
            X-H:
              $ref: "#/headersExtra/H"
`)
	_, err := Inline(doc)
	require.NoError(t, err)

	ref, ok := document.Get(doc, document.Path{"paths", "/u", "get", "responses", "200", "headers", "X-H", "$ref"})
	require.True(t, ok)
	assert.Equal(t, "#/headersExtra/H", ref)
	assert.True(t, document.Has(doc, "headersExtra"))
}

func TestInlineChainedAndArrays(t *testing.T) {
	doc := parse(t, `
headers:
  Base: {type: string, format: uuid}
  Request-Id:
    $ref: "#/headers/Base"
x-list:
  - $ref: "#/headers/Request-Id"
`)
	_, err := Inline(doc)
	require.NoError(t, err)

	got, ok := document.Get(doc, document.Path{"x-list", 0})
	require.True(t, ok)
	assert.True(t, document.Equal(document.MapOf("type", "string", "format", "uuid"), got))
}

func TestInlineCopiesAreIndependent(t *testing.T) {
	doc := parse(t, `
headers:
  H: {type: string}
a: {$ref: "#/headers/H"}
b: {$ref: "#/headers/H"}
`)
	_, err := Inline(doc)
	require.NoError(t, err)

	a, _ := document.GetMap(doc, "a")
	b, _ := document.GetMap(doc, "b")
	a.Set("type", "integer")
	typ, _ := b.Get("type")
	assert.Equal(t, "string", typ)
}

func TestInlineSiblingWarning(t *testing.T) {
	doc := parse(t, `
headers:
  H: {type: string}
x:
  $ref: "#/headers/H"
  description: overridden
`)
	warnings, err := Inline(doc)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "/x", warnings[0].Path)
	assert.Equal(t, []string{"description"}, warnings[0].Dropped)
	assert.Contains(t, warnings[0].String(), "dropped sibling keys description")

	x, _ := document.GetMap(doc, "x")
	assert.False(t, document.Has(x, "description"))
}

func TestInlineMissingTarget(t *testing.T) {
	doc := parse(t, `
headers: {}
x: {$ref: "#/headers/Missing"}
`)
	_, err := Inline(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrReference)
	assert.NotErrorIs(t, err, oaserrors.ErrCircularReference)
	assert.Contains(t, err.Error(), "#/headers/Missing")
}

func TestInlineCircular(t *testing.T) {
	doc := parse(t, `
headers:
  A: {$ref: "#/headers/B"}
  B: {$ref: "#/headers/A"}
x: {$ref: "#/headers/A"}
`)
	_, err := Inline(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrCircularReference)
}

func TestInlineWithoutHeadersSection(t *testing.T) {
	doc := parse(t, `x: {$ref: "#/headers/A"}`)
	warnings, err := Inline(doc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, document.Has(doc, "x"))
}
