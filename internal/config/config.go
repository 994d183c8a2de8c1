// Package config handles Shopmate configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
)

// Config is the full assistant configuration. Secrets (the catalog admin
// token and the extractor API key) never live in the TOML file; they are
// read from the environment.
type Config struct {
	Catalog   CatalogConfig   `toml:"catalog"`
	Extractor ExtractorConfig `toml:"extractor"`
	Logging   LoggingConfig   `toml:"logging"`
}

// CatalogConfig points at the Shopify Admin GraphQL endpoint.
type CatalogConfig struct {
	// StoreDomain is the myshopify host, e.g. "acme.myshopify.com".
	StoreDomain string `toml:"store_domain"`

	// APIVersion selects the Admin API version path segment.
	APIVersion string `toml:"api_version"`

	// TimeoutSeconds bounds every catalog call.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// DetailCacheTTLSeconds controls how long fetched product detail is
	// reused within a process. Zero disables the cache.
	DetailCacheTTLSeconds int `toml:"detail_cache_ttl_seconds"`
}

// ExtractorConfig points at the OpenAI-compatible completions endpoint
// backing intent extraction.
type ExtractorConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	FilePath string `toml:"file_path"`
	Debug    bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".shopmate")

	return &Config{
		Catalog: CatalogConfig{
			APIVersion:            "2023-07",
			TimeoutSeconds:        15,
			DetailCacheTTLSeconds: 300,
		},
		Extractor: ExtractorConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 20,
			MaxRetries:     2,
		},
		Logging: LoggingConfig{
			FilePath: filepath.Join(dataDir, "logs", "shopmate.log"),
		},
	}
}

// Load loads the configuration from the given path. If the file doesn't
// exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "reading config file", apperrors.CategoryConfig)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "parsing config file", apperrors.CategoryConfig)
	}

	cfg.expandPaths()

	return cfg, nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// CatalogToken returns the Shopify admin token from the environment.
func (c *Config) CatalogToken() string {
	return os.Getenv("SHOPIFY_ADMIN_API_TOKEN")
}

// ExtractorAPIKey returns the LLM API key from the environment.
func (c *Config) ExtractorAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// CatalogTimeout returns the configured catalog timeout as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// ExtractorTimeout returns the configured extractor timeout as a duration.
func (c *Config) ExtractorTimeout() time.Duration {
	return time.Duration(c.Extractor.TimeoutSeconds) * time.Second
}

// DetailCacheTTL returns the product-detail cache lifetime. Zero means
// the cache is disabled.
func (c *Config) DetailCacheTTL() time.Duration {
	return time.Duration(c.Catalog.DetailCacheTTLSeconds) * time.Second
}

// Validate checks that everything needed to talk to the collaborators is
// present.
func (c *Config) Validate() error {
	if c.Catalog.StoreDomain == "" {
		return apperrors.New(apperrors.CodeConfigInvalid, "catalog.store_domain is required", apperrors.CategoryConfig)
	}
	if c.CatalogToken() == "" {
		return apperrors.New(apperrors.CodeConfigInvalid, "SHOPIFY_ADMIN_API_TOKEN is not set", apperrors.CategoryConfig)
	}
	if c.ExtractorAPIKey() == "" {
		return apperrors.New(apperrors.CodeConfigInvalid, "OPENAI_API_KEY is not set", apperrors.CategoryConfig)
	}
	return nil
}

// expandPaths expands ~ in configured paths.
func (c *Config) expandPaths() {
	homeDir, _ := os.UserHomeDir()

	if len(c.Logging.FilePath) > 0 && c.Logging.FilePath[0] == '~' {
		c.Logging.FilePath = filepath.Join(homeDir, c.Logging.FilePath[1:])
	}
}
