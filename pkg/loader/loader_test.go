package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	t.Run("object keeps key order", func(t *testing.T) {
		docs, err := LoadData(`{"zeta": 1, "alpha": "a", "mid": true}`)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		m, ok := docs[0].(OrderedMap)
		require.True(t, ok)
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
		v, _ := m.Get("zeta")
		assert.Equal(t, int64(1), v)
	})

	t.Run("numbers", func(t *testing.T) {
		root, err := LoadRoot(`[1, 2.5, -3, 1e3]`)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), 2.5, int64(-3), float64(1000)}, root)
	})

	t.Run("nested and null", func(t *testing.T) {
		root, err := LoadRoot(`{"a": {"b": null, "c": [true, "x"]}}`)
		require.NoError(t, err)
		a, _ := root.(OrderedMap).Get("a")
		assert.Equal(t, OrderedMap{{Key: "b"}, {Key: "c", Value: []any{true, "x"}}}, a)
	})

	t.Run("duplicate keys keep first position", func(t *testing.T) {
		root, err := LoadRoot(`{"a": 1, "b": 2, "a": 3}`)
		require.NoError(t, err)
		assert.Equal(t, OrderedMap{{Key: "a", Value: int64(3)}, {Key: "b", Value: int64(2)}}, root)
	})

	t.Run("invalid JSON falls back to YAML", func(t *testing.T) {
		root, err := LoadRoot(`{invalid}`)
		require.NoError(t, err)
		// YAML parses {invalid} as a flow mapping with key "invalid" and nil value
		assert.Equal(t, OrderedMap{{Key: "invalid"}}, root)
	})

	t.Run("trailing data is rejected", func(t *testing.T) {
		_, err := decodeJSON(`{"a": 1} {"b": 2}`)
		require.Error(t, err)
	})
}

func TestLoadYAML(t *testing.T) {
	t.Run("mapping keeps key order", func(t *testing.T) {
		root, err := LoadRoot("path: /tmp\nphp_version: 8.1\ninfo: 并且支持中文！！\n")
		require.NoError(t, err)
		m, ok := root.(OrderedMap)
		require.True(t, ok)
		assert.Equal(t, []string{"path", "php_version", "info"}, m.Keys())
		info, _ := m.Get("info")
		assert.Equal(t, "并且支持中文！！", info)
	})

	t.Run("scalar types", func(t *testing.T) {
		root, err := LoadRoot("n: 42\nb: true\ns: 'x'\nf: 1.5\nz: ~\n")
		require.NoError(t, err)
		assert.Equal(t, OrderedMap{
			{Key: "n", Value: 42},
			{Key: "b", Value: true},
			{Key: "s", Value: "x"},
			{Key: "f", Value: 1.5},
			{Key: "z"},
		}, root)
	})

	t.Run("anchors and merge keys", func(t *testing.T) {
		input := "base: &base\n  a: 1\n  b: 2\nchild:\n  <<: *base\n  b: 3\n  c: 4\n"
		root, err := LoadRoot(input)
		require.NoError(t, err)
		child, _ := root.(OrderedMap).Get("child")
		assert.Equal(t, OrderedMap{
			{Key: "a", Value: 1},
			{Key: "b", Value: 3},
			{Key: "c", Value: 4},
		}, child)
	})

	t.Run("non-string keys", func(t *testing.T) {
		root, err := LoadRoot("1: one\ntrue: yes\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "true"}, root.(OrderedMap).Keys())
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := LoadData("key: [unclosed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid YAML")
	})
}

func TestLoadMultiDocYAML(t *testing.T) {
	docs, err := LoadData("---\na: 1\n---\nb: 2\n---\n")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, OrderedMap{{Key: "a", Value: 1}}, docs[0])
	assert.Equal(t, OrderedMap{{Key: "b", Value: 2}}, docs[1])

	root, err := LoadRoot("a: 1\n---\nb: 2")
	require.NoError(t, err)
	assert.Len(t, root, 2)
}

func TestLoadNDJSON(t *testing.T) {
	docs, err := LoadData("{\"a\": 1}\n{\"b\": 2}\nnot json\n")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, OrderedMap{{Key: "a", Value: int64(1)}}, docs[0])
	assert.Equal(t, "not json", docs[2])
}

func TestLoadTOML(t *testing.T) {
	input := "title = \"demo\"\n\n[server]\nhost = \"localhost\"\nport = 8080\n"
	root, err := LoadRoot(input)
	require.NoError(t, err)
	m, ok := root.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", m["title"])
	server, ok := m["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(8080), server["port"])
}

func TestIsLikelyTOML(t *testing.T) {
	assert.True(t, isLikelyTOML(strings.Split("[server]\nport = 1", "\n")))
	assert.True(t, isLikelyTOML(strings.Split("a = 1\nb = 2", "\n")))
	assert.False(t, isLikelyTOML(strings.Split("a: 1\nb: 2", "\n")))
	assert.False(t, isLikelyTOML(strings.Split("[1, 2, 3]", "\n")))
}

func TestLoadEmpty(t *testing.T) {
	_, err := LoadData("   \n")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoadCommentOnlyYAML(t *testing.T) {
	root, err := LoadRoot("# nothing here")
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestLoadFileAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: v\n"), 0o600))

	root, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, OrderedMap{{Key: "k", Value: "v"}}, root)

	root, err = LoadReader(strings.NewReader(`{"k": "v"}`))
	require.NoError(t, err)
	assert.Equal(t, OrderedMap{{Key: "k", Value: "v"}}, root)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
