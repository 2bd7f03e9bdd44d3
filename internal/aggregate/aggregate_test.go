package aggregate

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/fragment"
	"github.com/erraggy/oasrepo/oaserrors"
)

func newStore(t *testing.T, files map[string]string) *fragment.Store {
	t.Helper()
	mfs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(mfs, name, []byte(content), 0o644))
	}
	return fragment.New(mfs)
}

func TestAggregatePaths(t *testing.T) {
	store := newStore(t, map[string]string{
		"paths/users.yaml":         "get: {}\n",
		"paths/v1/users@{id}.yaml": "get: {}\n",
		"paths/README.md":          "ignored",
	})

	got, err := Aggregate(store, "paths", "**/*.yaml", PathsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"/users", "/users/{id}"}, document.Keys(got))

	loc, _ := got.Get("/users/{id}")
	assert.Equal(t, "paths/v1/users@{id}.yaml", loc)
}

func TestAggregateSkipsHidden(t *testing.T) {
	store := newStore(t, map[string]string{
		"paths/users.yaml":       "get: {}\n",
		"paths/.#users.yaml":     "lock",
		"paths/.git/config.yaml": "x: 1\n",
		"paths/v1/.DS_Store":     "junk",
	})

	got, err := Aggregate(store, "paths", "**/*", PathsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"/users"}, document.Keys(got))
}

func TestAggregateDuplicate(t *testing.T) {
	store := newStore(t, map[string]string{
		"paths/users.yaml":    "get: {}\n",
		"paths/v1/users.yaml": "post: {}\n",
	})

	_, err := Aggregate(store, "paths", "**/*.yaml", PathsKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrDuplicate)

	var dup *oaserrors.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "/users", dup.Path)
	assert.Equal(t, []string{"paths/users.yaml", "paths/v1/users.yaml"}, dup.Files)
}

func TestAggregateCodeSamples(t *testing.T) {
	store := newStore(t, map[string]string{
		"code_samples/Shell/users/get.sh":         "curl /users",
		"code_samples/JavaScript/users/get.js":    "fetch('/users')",
		"code_samples/Shell/users@{id}/delete.sh": "curl -X DELETE",
		"code_samples/Shell/too/deep/get.sh":      "ignored",
	})

	got, err := Aggregate(store, "code_samples", "*/*/*", CodeSampleKey)
	require.NoError(t, err)

	v, ok := document.Get(got, document.Path{"/users", "get", "Shell"})
	require.True(t, ok)
	assert.Equal(t, "code_samples/Shell/users/get.sh", v)

	langs, ok := document.Get(got, document.Path{"/users", "get"})
	require.True(t, ok)
	assert.Equal(t, []string{"JavaScript", "Shell"}, document.Keys(langs.(*document.Map)))

	_, ok = document.Get(got, document.Path{"/users/{id}", "delete", "Shell"})
	assert.True(t, ok)
}

func TestAggregateMissingDir(t *testing.T) {
	got, err := Aggregate(newStore(t, nil), "definitions", "**/*.yaml", DefinitionsKey)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestAggregateAndLoad(t *testing.T) {
	store := newStore(t, map[string]string{
		"definitions/User.yaml":         "type: object\n",
		"definitions/common/Error.yaml": "type: object\nrequired: [code]\n",
	})

	got, err := AggregateAndLoad(store, "definitions", "**/*.yaml", DefinitionsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Error"}, document.Keys(got))

	want := document.MapOf("type", "object", "required", []any{"code"})
	errDef, _ := got.Get("Error")
	assert.True(t, document.Equal(want, errDef))
}

func TestCodeSampleKey(t *testing.T) {
	keys, err := CodeSampleKey("Go/pets@{id}/get.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"/pets/{id}", "get", "Go"}, keys)

	_, err = CodeSampleKey("Go/get.go")
	assert.Error(t, err)
}
