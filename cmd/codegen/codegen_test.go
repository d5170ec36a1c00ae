package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/delaneyj/proxyparty/cmd/codegen/templates"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todosShapes = "../../examples/todos/todos.yaml"

func renderShapes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := templates.Parse(filepath.Base(path), data)
	require.NoError(t, err)
	out, err := render(f)
	require.NoError(t, err)
	return out
}

// should render the todos views byte for byte
func TestRenderGolden(t *testing.T) {
	out := renderShapes(t, todosShapes)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "todos", out)
}

// should match the views committed next to the shape file
func TestRenderMatchesCommittedViews(t *testing.T) {
	out := renderShapes(t, todosShapes)
	committed, err := os.ReadFile("../../examples/todos/todos_state.gen.go")
	require.NoError(t, err)
	assert.Equal(t, string(committed), string(out))
}

// should already be gofmt clean before formatting
func TestTemplateOutputIsFormatted(t *testing.T) {
	data, err := os.ReadFile(todosShapes)
	require.NoError(t, err)
	f, err := templates.Parse("todos.yaml", data)
	require.NoError(t, err)

	formatted, err := render(f)
	require.NoError(t, err)
	assert.Equal(t, string(formatted), templates.Accessors(f))
}

// should reject malformed shape files
func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want error
	}{
		"no package": {
			yaml: "types: []",
			want: templates.ErrNoPackage,
		},
		"unknown view": {
			yaml: "package: x\ntypes:\n  - name: A\n    fields:\n      - name: B\n        view: Missing\n",
			want: templates.ErrInvalidShape,
		},
		"two kinds": {
			yaml: "package: x\ntypes:\n  - name: A\n    fields:\n      - name: B\n        type: int\n        list: A\n",
			want: templates.ErrInvalidShape,
		},
		"duplicate field": {
			yaml: "package: x\ntypes:\n  - name: A\n    fields:\n      - name: B\n        type: int\n      - name: B\n        type: int\n",
			want: templates.ErrInvalidShape,
		},
		"duplicate type": {
			yaml: "package: x\ntypes:\n  - name: A\n  - name: A\n",
			want: templates.ErrInvalidShape,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := templates.Parse(name+".yaml", []byte(tc.yaml))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := templates.Parse("bad.yaml", []byte("package: ["))
	assert.Error(t, err)
}

// should default the import path and allow overriding it
func TestParseDefaults(t *testing.T) {
	f, err := templates.Parse("x.yaml", []byte("package: x\n"))
	require.NoError(t, err)
	assert.Equal(t, templates.DefaultImport, f.Import)
	assert.Equal(t, "x.yaml", f.Source)

	f, err = templates.Parse("x.yaml", []byte("package: x\nimport: example.com/fork/reactivity\n"))
	require.NoError(t, err)
	assert.Contains(t, templates.Accessors(f), `import "example.com/fork/reactivity"`)
}
