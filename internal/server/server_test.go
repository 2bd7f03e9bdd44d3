package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/metrics"
)

const mainFile = `# Users service
swagger: "2.0"
info:
  title: Users API
  version: 1.0.0
`

func newTree(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func do(t *testing.T, h http.Handler, method, target, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	resp := rec.Result()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestOpenAPIJSON(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"swagger.yaml":     mainFile,
		"paths/users.yaml": "get:\n  summary: List users\n",
	})
	srv := New(Options{Filesystem: fsys})

	resp, body := do(t, srv.Handler(), http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	doc, err := document.Parse([]byte(body))
	require.NoError(t, err)
	_, ok := document.Get(doc, document.Path{"paths", "/users", "get", "summary"})
	assert.True(t, ok)
}

func TestOpenAPIYAML(t *testing.T) {
	fsys := newTree(t, map[string]string{"swagger.yaml": mainFile})
	srv := New(Options{Filesystem: fsys})

	resp, body := do(t, srv.Handler(), http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "swagger: \"2.0\"\n"), body)
}

func TestBundleError(t *testing.T) {
	srv := New(Options{Filesystem: memfs.New()})

	resp, body := do(t, srv.Handler(), http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Contains(t, payload["error"], "main file")
}

func TestEditorView(t *testing.T) {
	t.Run("single file keeps comments", func(t *testing.T) {
		srv := New(Options{Filesystem: newTree(t, map[string]string{"swagger.yaml": mainFile})})

		resp, body := do(t, srv.Handler(), http.MethodGet, "/swagger.yaml", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, mainFile, body)
	})

	t.Run("split tree gets a note", func(t *testing.T) {
		srv := New(Options{Filesystem: newTree(t, map[string]string{
			"swagger.yaml":     mainFile,
			"paths/users.yaml": "get:\n  summary: List users\n",
		})})

		_, body := do(t, srv.Handler(), http.MethodGet, "/swagger.yaml", "")
		assert.True(t, strings.HasPrefix(body, editorNote))
		assert.Contains(t, body, "/users:")
	})
}

func TestBackendSync(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"swagger.yaml":     mainFile,
		"paths/users.yaml": "get:\n  summary: List users\n",
	})
	srv := New(Options{Filesystem: fsys})

	input := `{"swagger":"2.0","info":{"title":"Users API","version":"1.0.0"},` +
		`"paths":{"/users":{"get":{"summary":"All users"}}}}`
	resp, body := do(t, srv.Handler(), http.MethodPut, "/backend_swagger.yaml", input)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	data, err := util.ReadFile(fsys, "paths/users.yaml")
	require.NoError(t, err)
	assert.Equal(t, "get:\n  summary: All users\n", string(data))
}

func TestBackendSyncError(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"swagger.yaml":     mainFile,
		"paths/users.yaml": "get: {}\n",
	})
	srv := New(Options{Filesystem: fsys})

	resp, _ := do(t, srv.Handler(), http.MethodPut, "/backend_swagger.yaml", "- not\n- a mapping\n")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := New(Options{Filesystem: newTree(t, map[string]string{"swagger.yaml": mainFile})})

	resp, _ := do(t, srv.Handler(), http.MethodPost, "/openapi.json", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)
	srv := New(Options{
		Filesystem: newTree(t, map[string]string{"swagger.yaml": mainFile}),
		Metrics:    rec,
	})

	do(t, srv.Handler(), http.MethodGet, "/openapi.json", "")
	resp, body := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `oasrepo_operations_total{operation="bundle",result="success"} 1`)
}

func TestNoMetricsWithoutPrometheus(t *testing.T) {
	srv := New(Options{Filesystem: newTree(t, map[string]string{"swagger.yaml": mainFile})})

	resp, _ := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
