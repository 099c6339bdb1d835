package headless

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iTrooz/headless-go/internal/config"
)

// Config holds the client settings
type Config struct {
	// BaseURL is prepended to every route. Trailing slashes are trimmed.
	BaseURL string
	// CachePath is the cache root directory
	CachePath string
	// DefaultTTL is the freshness window used by CacheDefault
	DefaultTTL time.Duration
	// CacheEnabled turns the periodic sweep of stale cache files on.
	// GET responses requested with a TTL are cached either way.
	CacheEnabled bool
	// RaiseOnAPIError turns responses with a non-empty error field into an APIError
	RaiseOnAPIError bool
	// Timeout bounds every request, zero means no timeout
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate and host verification
	InsecureSkipVerify bool
	// ProxyURL routes requests through a forward proxy
	ProxyURL string
	// Session supplies the X-Headless-Session header, nil omits it
	Session SessionProvider
}

// DefaultConfig returns the settings a client starts with
func DefaultConfig() Config {
	ttl, _ := time.ParseDuration(config.DefaultCacheTTL)
	timeout, _ := time.ParseDuration(config.DefaultTimeout)
	return Config{
		BaseURL:      config.DefaultBaseURL,
		CachePath:    config.DefaultCachePath,
		DefaultTTL:   ttl,
		CacheEnabled: true,
		Timeout:      timeout,
	}
}

// ApplyDefaults fills in the base URL and cache path when unset
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = config.DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.CachePath == "" {
		c.CachePath = config.DefaultCachePath
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q", c.BaseURL)
	}
	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
	}
	if c.DefaultTTL < 0 {
		return fmt.Errorf("default TTL must not be negative, got: %s", c.DefaultTTL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got: %s", c.Timeout)
	}
	return nil
}

// LoadConfig reads credentials and settings from a YAML file
func LoadConfig(path string) (Identity, Config, error) {
	fileConfig, err := config.Load(path)
	if err != nil {
		return Identity{}, Config{}, err
	}
	if err := fileConfig.Validate(); err != nil {
		return Identity{}, Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	// both parse, Validate checked them
	ttl, _ := fileConfig.GetCacheTTL()
	timeout, _ := fileConfig.GetTimeout()

	identity := Identity{
		ConsumerKey:    fileConfig.Credentials.ConsumerKey,
		ConsumerSecret: fileConfig.Credentials.ConsumerSecret,
		PublicToken:    fileConfig.Credentials.PublicToken,
	}
	cfg := Config{
		BaseURL:            fileConfig.API.BaseURL,
		CachePath:          fileConfig.Cache.Folder,
		DefaultTTL:         ttl,
		CacheEnabled:       fileConfig.CacheEnabled(),
		RaiseOnAPIError:    fileConfig.API.RaiseOnError,
		Timeout:            timeout,
		InsecureSkipVerify: fileConfig.API.InsecureSkipVerify,
		ProxyURL:           fileConfig.API.Proxy,
	}
	cfg.ApplyDefaults()
	return identity, cfg, nil
}
