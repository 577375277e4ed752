package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultExclude, cfg.Exclude)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.AddonsPaths)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `addons_paths:
  - /srv/odoo/addons
  - /srv/odoo/enterprise
exclude: [base, web]
index_path: /tmp/addonctx.db
llm:
  provider: gemini
  model_order: [gemini-2.5-flash]
  api_key: secret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/odoo/addons", "/srv/odoo/enterprise"}, cfg.AddonsPaths)
	assert.Equal(t, []string{"base", "web"}, cfg.Exclude)
	assert.Equal(t, "/tmp/addonctx.db", cfg.IndexPath)
	assert.Equal(t, []string{"gemini-2.5-flash"}, cfg.LLM.ModelOrder)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("ADDONCTX_LLM_API_KEY", "from-env")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestDir_RespectsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/config", AppName), dir)
}
