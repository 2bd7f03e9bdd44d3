package plugin

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/oaserrors"
)

func TestParseOverlay(t *testing.T) {
	o, err := ParseOverlay([]byte(`
overlay: 1.0.0
info:
  title: Branding
  version: 1.0.0
actions:
  - target: $.info
    description: add logo
    update:
      x-logo: {url: logo.png}
  - target: $.paths.*.delete
    remove: true
`))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", o.Version)
	assert.Equal(t, "Branding", o.Title)
	require.Len(t, o.Actions, 2)
	assert.Equal(t, "add logo", o.Actions[0].Description)
	assert.True(t, o.Actions[1].Remove)
}

func TestParseOverlayErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no actions", "info: {title: x}"},
		{"actions not a list", "actions: {}"},
		{"missing target", "actions: [{update: {a: 1}}]"},
		{"bad target", "actions: [{target: info, remove: true}]"},
		{"no operation", "actions: [{target: $.info}]"},
		{"remove not bool", "actions: [{target: $.info, remove: yes please}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOverlay([]byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrParse)
		})
	}
}

func TestActionPluginUpdate(t *testing.T) {
	doc := document.MapOf(
		"info", document.MapOf("title", "API", "contact", document.MapOf("name", "team")),
		"tags", []any{"a"},
		"host", "localhost",
	)
	o := &Overlay{Actions: []Action{
		{Target: "$.info", Update: document.MapOf("contact", document.MapOf("email", "t@example.com"), "version", "2")},
		{Target: "$.tags", Update: "b"},
		{Target: "$.host", Update: "api.example.com"},
	}}

	_, err := Run(doc, o.Plugins("inline"))
	require.NoError(t, err)

	want := document.MapOf(
		"info", document.MapOf(
			"title", "API",
			"contact", document.MapOf("name", "team", "email", "t@example.com"),
			"version", "2",
		),
		"tags", []any{"a", "b"},
		"host", "api.example.com",
	)
	assert.True(t, document.Equal(want, doc))
}

func TestActionPluginUpdateCopiesValue(t *testing.T) {
	doc := document.MapOf("a", document.MapOf(), "b", document.MapOf())
	o := &Overlay{Actions: []Action{{Target: "$.*", Update: document.MapOf("x", document.MapOf("n", 1))}}}

	_, err := Run(doc, o.Plugins("copy"))
	require.NoError(t, err)

	ax, _ := document.Get(doc, document.Path{"a", "x"})
	bx, _ := document.Get(doc, document.Path{"b", "x"})
	assert.NotSame(t, ax, bx)
}

func TestActionPluginRemove(t *testing.T) {
	doc := document.MapOf(
		"paths", document.MapOf(
			"/a", document.MapOf("x-internal", true),
			"/b", document.MapOf("x-internal", false),
			"/c", document.MapOf("x-internal", true),
		),
		"list", []any{
			document.MapOf("drop", true),
			document.MapOf("keep", true),
			document.MapOf("drop", true),
		},
	)
	o := &Overlay{Actions: []Action{
		{Target: "$.paths[?@.x-internal==true]", Remove: true, Update: document.MapOf("ignored", true)},
		{Target: "$.list[?@.drop]", Remove: true},
	}}

	reports, err := Run(doc, o.Plugins("strip"))
	require.NoError(t, err)
	assert.Equal(t, 2, reports[0].Matches)

	paths, _ := document.GetMap(doc, "paths")
	assert.Equal(t, []string{"/b"}, document.Keys(paths))

	list, _ := doc.Get("list")
	assert.True(t, document.Equal([]any{document.MapOf("keep", true)}, list))
}

func TestActionPluginRoot(t *testing.T) {
	o := &Overlay{Actions: []Action{{Target: "$", Remove: true}}}
	_, err := Run(document.MapOf(), o.Plugins("root"))
	assert.ErrorIs(t, err, oaserrors.ErrPlugin)
}

func TestLoadDir(t *testing.T) {
	mfs := memfs.New()
	require.NoError(t, util.WriteFile(mfs, "plugins/b.yaml", []byte("actions:\n  - target: $.info\n    update: {x-b: true}\n"), 0o644))
	require.NoError(t, util.WriteFile(mfs, "plugins/a.yaml", []byte("actions:\n  - target: $.info\n    update: {x-a: true}\n  - target: $.info.title\n    remove: true\n"), 0o644))
	require.NoError(t, util.WriteFile(mfs, "plugins/notes.txt", []byte("not a plugin"), 0o644))

	entries, err := LoadDir(mfs, "plugins")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "plugins/a.yaml#0", entries[0].Name)
	assert.Equal(t, "plugins/a.yaml#1", entries[1].Name)
	assert.Equal(t, "plugins/b.yaml#0", entries[2].Name)

	doc := document.MapOf("info", document.MapOf("title", "API"))
	_, err = Run(doc, entries)
	require.NoError(t, err)

	info, _ := document.GetMap(doc, "info")
	assert.Equal(t, []string{"x-a", "x-b"}, document.Keys(info))
}

func TestLoadDirMissing(t *testing.T) {
	entries, err := LoadDir(memfs.New(), "plugins")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadDirInvalid(t *testing.T) {
	mfs := memfs.New()
	require.NoError(t, util.WriteFile(mfs, "plugins/bad.yaml", []byte("actions: nope\n"), 0o644))

	_, err := LoadDir(mfs, "plugins")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugins/bad.yaml")
}
