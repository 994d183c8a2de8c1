package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "2023-07", cfg.Catalog.APIVersion)
	assert.Equal(t, 15*time.Second, cfg.CatalogTimeout())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopmate.toml")
	body := `
[catalog]
store_domain = "acme.myshopify.com"
timeout_seconds = 5

[extractor]
model = "gpt-4o"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "acme.myshopify.com", cfg.Catalog.StoreDomain)
	assert.Equal(t, 5*time.Second, cfg.CatalogTimeout())
	assert.Equal(t, "gpt-4o", cfg.Extractor.Model)
	// Untouched sections keep defaults.
	assert.Equal(t, "2023-07", cfg.Catalog.APIVersion)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[catalog\nstore"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRequiresStoreDomain(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store_domain")
}

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := Default()
	cfg.Catalog.StoreDomain = "acme.myshopify.com"

	t.Setenv("SHOPIFY_ADMIN_API_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
	assert.ErrorContains(t, cfg.Validate(), "SHOPIFY_ADMIN_API_TOKEN")

	t.Setenv("SHOPIFY_ADMIN_API_TOKEN", "shpat_test")
	assert.ErrorContains(t, cfg.Validate(), "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	assert.NoError(t, cfg.Validate())
}
