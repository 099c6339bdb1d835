package headless

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "headless.yaml")
	configContent := `
api:
  base_url: "https://shop.example.com/rest/v1/"
  timeout: "10s"
  raise_on_error: true
  insecure_skip_verify: true
credentials:
  consumer_key: "ck"
  consumer_secret: "cs"
  public_token: "pt"
cache:
  ttl: "2m"
  folder: "/tmp/headless-cache"
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	identity, cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, Identity{ConsumerKey: "ck", ConsumerSecret: "cs", PublicToken: "pt"}, identity)
	assert.Equal(t, "https://shop.example.com/rest/v1", cfg.BaseURL)
	assert.Equal(t, "/tmp/headless-cache", cfg.CachePath)
	assert.Equal(t, 2*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.CacheEnabled)
	assert.True(t, cfg.RaiseOnAPIError)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.Session)
}

func TestLoadConfigDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "headless.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("credentials:\n  consumer_key: ck\n"), 0644))

	identity, cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "ck", identity.ConsumerKey)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalid(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "headless.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("cache:\n  ttl: forever\n"), 0644))

	_, _, err := LoadConfig(configFile)
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "headless.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("api:\n  base_url: http://localhost:8080/v1\ncache:\n  enabled: false\n"), 0644))

	client, err := NewFromFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v1", client.Config().BaseURL)
	assert.False(t, client.Config().CacheEnabled)
}
