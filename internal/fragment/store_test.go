package fragment

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/oaserrors"
)

func TestReadMissing(t *testing.T) {
	s := New(memfs.New())
	_, err := s.Read("paths/nope.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadParseError(t *testing.T) {
	mfs := memfs.New()
	require.NoError(t, util.WriteFile(mfs, "bad.yaml", []byte("a: [b"), 0o644))

	_, err := New(mfs).Read("bad.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrParse)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestWriteCreatesDirectories(t *testing.T) {
	s := New(memfs.New())
	value := document.MapOf("get", document.MapOf("summary", "List users"))

	require.NoError(t, s.Write("paths/v1/users.yaml", value))
	assert.True(t, s.IsDir("paths/v1"))
	assert.True(t, s.Exists("paths/v1/users.yaml"))

	text, err := s.ReadText("paths/v1/users.yaml")
	require.NoError(t, err)
	assert.Equal(t, "get:\n  summary: List users\n", text)

	got, err := s.ReadMap("paths/v1/users.yaml")
	require.NoError(t, err)
	assert.True(t, document.Equal(value, got))
}

func TestUpdateIsIdempotent(t *testing.T) {
	s := New(memfs.New())
	value := document.MapOf("type", "object", "required", []any{"id"})

	written, err := s.Update("definitions/User.yaml", value)
	require.NoError(t, err)
	assert.True(t, written)

	reordered := document.MapOf("required", []any{"id"}, "type", "object")
	written, err = s.Update("definitions/User.yaml", reordered)
	require.NoError(t, err)
	assert.False(t, written, "key order alone must not cause a write")
	assert.Equal(t, 1, s.Writes())

	written, err = s.Update("definitions/User.yaml", document.MapOf("type", "string"))
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 2, s.Writes())
}

func TestUpdateOverwritesUnparsable(t *testing.T) {
	mfs := memfs.New()
	require.NoError(t, util.WriteFile(mfs, "x.yaml", []byte("{{{"), 0o644))
	s := New(mfs)

	written, err := s.Update("x.yaml", document.MapOf("a", 1))
	require.NoError(t, err)
	assert.True(t, written)
}

func TestWriteText(t *testing.T) {
	s := New(memfs.New())

	written, err := s.WriteText("swagger.yaml", "swagger: '2.0'\n")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = s.WriteText("swagger.yaml", "swagger: '2.0'\n")
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, 1, s.Writes())
}

func TestRemove(t *testing.T) {
	s := New(memfs.New())
	require.NoError(t, s.Write("paths/legacy.yaml", document.MapOf()))

	require.NoError(t, s.Remove("paths/legacy.yaml"))
	assert.False(t, s.Exists("paths/legacy.yaml"))
	assert.Equal(t, 1, s.Removes())

	assert.Error(t, s.Remove("paths/legacy.yaml"))
}

func TestList(t *testing.T) {
	s := New(memfs.New())
	for _, p := range []string{"paths/b.yaml", "paths/a.yaml", "paths/v1/c.yaml"} {
		require.NoError(t, s.Write(p, document.MapOf()))
	}

	files, err := s.List("paths")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.yaml", "v1/c.yaml"}, files)

	files, err = s.List("missing")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestNewOS(t *testing.T) {
	dir := t.TempDir()
	s := NewOS(dir)
	require.NoError(t, s.Write("paths/users.yaml", document.MapOf("get", document.MapOf())))

	data, err := os.ReadFile(filepath.Join(dir, "paths", "users.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "get: {}\n", string(data))
}
