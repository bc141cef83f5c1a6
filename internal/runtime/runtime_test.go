package runtime

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Language tables ---

func TestLanguageForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"main.go", "go", true},
		{"app.jsx", "javascript", true},
		{"tool.mjs", "javascript", true},
		{"script.py", "python", true},
		{"stubs.pyi", "python", true},
		{"lib.rs", "rust", true},
		{"app.tsx", "", false},
		{"util.h", "", false},
		{"notes.txt", "", false},
		{"Makefile", "", false},
		{"path/to/file.PY", "python", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, ok := LanguageForFile(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParserForLanguage(t *testing.T) {
	t.Parallel()

	for _, lang := range Languages() {
		l, ok := ParserForLanguage(lang)
		assert.True(t, ok, lang)
		assert.NotNil(t, l, lang)
	}

	_, ok := ParserForLanguage("cobol")
	assert.False(t, ok)
}

func TestLanguages_Sorted(t *testing.T) {
	t.Parallel()
	langs := Languages()
	assert.Equal(t, []string{"go", "javascript", "python", "rust"}, langs)
	assert.IsIncreasing(t, langs)
}

// --- Globals (via RunSource) ---

func TestRunSource_ExtraGlobals(t *testing.T) {
	t.Parallel()
	rt := NewRuntime("")
	script := `
assert(len(items) == 2)
assert(items[1] == "b")
log.Info('{len(items)} items')
`
	err := rt.RunSource(context.Background(), script, map[string]any{"items": []any{"a", "b"}})
	require.NoError(t, err)
}

func TestRunSource_ScriptError(t *testing.T) {
	t.Parallel()
	rt := NewRuntime("")
	err := rt.RunSource(context.Background(), `assert(false, "boom")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime: script <inline>")
}

// --- Script loading ---

func TestRunScript_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.risor"), []byte(`result := 1 + 1`), 0644))

	rt := NewRuntime(dir)
	require.NoError(t, rt.RunScript(context.Background(), "test.risor", nil))
}

func TestRunScript_MissingFile(t *testing.T) {
	rt := NewRuntime(t.TempDir())
	err := rt.RunScript(context.Background(), "nonexistent.risor", nil)
	assert.Error(t, err)
}

func TestLoadScript_FromFS(t *testing.T) {
	t.Parallel()

	content := `x := 42`
	mapFS := fstest.MapFS{
		"classify/go.risor": &fstest.MapFile{Data: []byte(content)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))

	got, err := rt.LoadScript("classify/go.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// A leading separator is resolved within the FS.
	got, err = rt.LoadScript("/classify/go.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = rt.LoadScript("nonexistent.risor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from fs")
}

func TestHasScript(t *testing.T) {
	t.Parallel()

	mapFS := fstest.MapFS{
		"classify/python.risor": &fstest.MapFile{Data: []byte(`x := 1`)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))
	assert.True(t, rt.HasScript(ClassifyScriptPath("python")))
	assert.False(t, rt.HasScript(ClassifyScriptPath("ruby")))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.risor"), []byte(`x := 1`), 0644))
	disk := NewRuntime(dir)
	assert.True(t, disk.HasScript("a.risor"))
	assert.False(t, disk.HasScript("b.risor"))
}

func TestClassifyScriptPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "classify/go.risor", ClassifyScriptPath("go"))
}

// --- Importer wiring ---

func TestImport_FSImporter(t *testing.T) {
	mapFS := fstest.MapFS{
		"helpers.risor": &fstest.MapFile{Data: []byte(`
func greet(name) {
	return "hello " + name
}
`)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))

	script := `
import helpers

msg := helpers.greet("world")
assert(msg == "hello world", 'expected "hello world", got ' + msg)
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestImport_LocalImporter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math_utils.risor"), []byte(`
func double(x) {
	return x * 2
}
`), 0644))

	rt := NewRuntime(dir)
	script := `
import math_utils

result := math_utils.double(21)
assert(result == 42, 'expected 42, got {result}')
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestImport_GlobalsAvailableInImportedModules(t *testing.T) {
	// Imported modules compile against the host globals, so log resolves.
	mapFS := fstest.MapFS{
		"helper.risor": &fstest.MapFile{Data: []byte(`
func do_log(msg) {
	log.Info(msg)
}
`)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS), WithLogPrefix("test"))

	script := `
import helper
helper.do_log("test message")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestImport_BuiltinsAvailableInImportedModules(t *testing.T) {
	t.Parallel()
	mapFS := fstest.MapFS{
		"counting.risor": &fstest.MapFile{Data: []byte(`
func count(xs) {
	n := len(xs)
	total := 0
	for i := 0; i < n; i++ {
		total += xs[i]
	}
	assert(total == 6, "expected sum 6")
	return string(n)
}
`)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))

	script := `
import counting

got := counting.count(items)
assert(got == "3", 'expected "3", got ' + got)
`
	err := rt.RunSource(context.Background(), script, map[string]any{
		"items": []any{1, 2, 3},
	})
	require.NoError(t, err)
}

func TestImport_LocalImporterBuiltins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sizes.risor"), []byte(`
func size(xs) {
	return len(xs)
}
`), 0644))

	rt := NewRuntime(dir)
	script := `
import sizes

assert(sizes.size([1, 2]) == 2, "expected 2")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestNewRuntime_Defaults(t *testing.T) {
	t.Parallel()
	rt := NewRuntime("/some/dir")
	require.NotNil(t, rt)
	assert.Nil(t, rt.fsys)
	assert.Equal(t, "/some/dir", rt.scriptsDir)
	assert.Equal(t, "prism", rt.logPrefix)
}
