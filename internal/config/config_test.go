package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := []byte(`
store {
  path = "/var/lib/pagetree/nodes.db"
}

hierarchy {
  max_depth = 12
}

serve {
  listen = ":9040"
}
`)
	cfg, err := Parse(src, "test.hcl")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/pagetree/nodes.db", cfg.Store.Path)
	assert.Equal(t, 12, cfg.Hierarchy.MaxDepth)
	assert.Equal(t, ":9040", cfg.Serve.Listen)
}

func TestParse_MissingBlocksFallBack(t *testing.T) {
	cfg, err := Parse([]byte(`store { path = "x.db" }`), "test.hcl")
	require.NoError(t, err)
	require.NotNil(t, cfg.Hierarchy)
	require.NotNil(t, cfg.Serve)
	assert.Equal(t, "x.db", cfg.Store.Path)
	assert.Zero(t, cfg.Hierarchy.MaxDepth)
	assert.Empty(t, cfg.Serve.Listen)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`store "unexpected-label" {}`), "test.hcl")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "pagetree.db", cfg.Store.Path)
	assert.Zero(t, cfg.Hierarchy.MaxDepth)
	assert.Empty(t, cfg.Serve.Listen)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagetree.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`store { path = "from-file.db" }`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Store.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
