// Package config handles litcheck configuration: a YAML file under the
// cache directory, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// LitcheckDir is the per-user state directory under $HOME.
	LitcheckDir = ".litcheck"
	ConfigFile  = "config.yml"
)

// Config controls resolution behavior. All fields have working defaults;
// a missing config file is not an error.
type Config struct {
	// CacheDir holds the paper cache database. Defaults to ~/.litcheck.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// ContactEmail is sent to APIs that request one (Unpaywall, NCBI).
	ContactEmail string `yaml:"contact_email" json:"contact_email"`

	// EnableMirrors enables the mirror tier of the fetch cascade.
	// Off by default; the hosts involved are a policy decision.
	EnableMirrors bool     `yaml:"enable_mirrors" json:"enable_mirrors"`
	MirrorHosts   []string `yaml:"mirror_hosts" json:"mirror_hosts,omitempty"`

	// NCBIAPIKey raises the NCBI rate limit when set.
	NCBIAPIKey string `yaml:"ncbi_api_key" json:"-"`

	// UserAgent overrides the default fetch User-Agent when set.
	UserAgent string `yaml:"user_agent" json:"user_agent,omitempty"`

	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
	BatchDelayMs   int `yaml:"batch_delay_ms" json:"batch_delay_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CacheDir:       defaultCacheDir(),
		TimeoutSeconds: 30,
		BatchDelayMs:   500,
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return LitcheckDir
	}
	return filepath.Join(home, LitcheckDir)
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(defaultCacheDir(), ConfigFile)
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.BatchDelayMs < 0 {
		cfg.BatchDelayMs = 0
	}
	if cfg.EnableMirrors && len(cfg.MirrorHosts) == 0 {
		return nil, fmt.Errorf("enable_mirrors is set but no mirror hosts are configured")
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables. godotenv has
// already folded any .env file into the environment by the time this runs.
func (c *Config) applyEnv() {
	if v := os.Getenv("LITCHECK_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("LITCHECK_CONTACT_EMAIL"); v != "" {
		c.ContactEmail = v
	}
	if v := os.Getenv("LITCHECK_MIRROR_HOSTS"); v != "" {
		c.MirrorHosts = splitHosts(v)
		c.EnableMirrors = len(c.MirrorHosts) > 0
	}
	if v := os.Getenv("NCBI_API_KEY"); v != "" {
		c.NCBIAPIKey = v
	}
}

func splitHosts(v string) []string {
	var hosts []string
	for _, h := range strings.Split(v, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BatchDelay returns the inter-item delay for batch runs.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
