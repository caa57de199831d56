package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skuldlang/skuld/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.False(t, cfg.GuardLog)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, 0, cfg.MaxCallDepth)
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
guard_log: true
color: never
max_call_depth: 200
`), "skuld.yml")
	require.NoError(t, err)
	assert.True(t, cfg.GuardLog)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 200, cfg.MaxCallDepth)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("guard_log: true\n"), "skuld.yml")
	require.NoError(t, err)
	assert.True(t, cfg.GuardLog)
	assert.Equal(t, "auto", cfg.Color)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("guard_log: [unclosed"), "bad.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestValidateColor(t *testing.T) {
	_, err := config.Parse([]byte("color: rainbow\n"), "skuld.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color must be auto, always or never")
}

func TestValidateMaxCallDepth(t *testing.T) {
	_, err := config.Parse([]byte("max_call_depth: -1\n"), "skuld.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_call_depth")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skuld.yml")
	require.NoError(t, os.WriteFile(path, []byte("color: always\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Color)

	_, err = config.Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	path := filepath.Join(root, "skuld.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	found, err := config.Find(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindPrefersYml(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "skuld.yml")
	yaml := filepath.Join(dir, "skuld.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(yaml, []byte(""), 0o644))

	found, err := config.Find(dir)
	require.NoError(t, err)
	assert.Equal(t, yml, found)
}

func TestFindNotFound(t *testing.T) {
	found, err := config.Find(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
}
