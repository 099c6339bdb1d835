package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "https://api.indexedshop.com/v1"
	DefaultCachePath = "var/cache/api"
	DefaultCacheTTL  = "60s"
	DefaultTimeout   = "30s"
)

// Config represents the client configuration file
type Config struct {
	API         APIConfig         `yaml:"api"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Cache       CacheConfig       `yaml:"cache"`
}

// APIConfig contains transport-related configuration
type APIConfig struct {
	BaseURL            string `yaml:"base_url"`
	Timeout            string `yaml:"timeout"`
	Proxy              string `yaml:"proxy"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	RaiseOnError       bool   `yaml:"raise_on_error"`
}

// CredentialsConfig contains the API credentials
type CredentialsConfig struct {
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	PublicToken    string `yaml:"public_token"`
}

// CacheConfig contains cache-related configuration
type CacheConfig struct {
	// Enabled toggles the stale file sweep. A pointer so an absent key keeps the default (enabled)
	Enabled *bool  `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
	Folder  string `yaml:"folder"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	config.ApplyDefaults()

	return &config, nil
}

// ApplyDefaults fills in unset fields
func (c *Config) ApplyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == "" {
		c.API.Timeout = DefaultTimeout
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Folder == "" {
		c.Cache.Folder = DefaultCachePath
	}
	if c.Cache.Enabled == nil {
		enabled := true
		c.Cache.Enabled = &enabled
	}
}

// GetCacheTTL parses and returns the cache TTL duration
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetTimeout parses and returns the request timeout
func (c *Config) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.Timeout)
}

// CacheEnabled reports whether stale cache files are swept
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q", c.API.BaseURL)
	}

	if c.API.Proxy != "" {
		if _, err := url.Parse(c.API.Proxy); err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
	}

	if _, err := c.GetTimeout(); err != nil {
		return fmt.Errorf("invalid timeout format: %w", err)
	}

	ttl, err := c.GetCacheTTL()
	if err != nil {
		return fmt.Errorf("invalid cache TTL format: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("cache TTL must not be negative, got: %s", c.Cache.TTL)
	}

	if c.Cache.Folder == "" {
		return fmt.Errorf("cache folder is required")
	}

	return nil
}
