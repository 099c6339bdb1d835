package httpcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iTrooz/headless-go/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	base := Request{
		Identity: []string{"key", "secret", "token"},
		Route:    "/products?page=1",
		Body:     []byte("[]"),
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, GenerateKey(base), GenerateKey(base))
		assert.Len(t, GenerateKey(base), 64)
	})

	t.Run("group does not change the key", func(t *testing.T) {
		grouped := base
		grouped.Group = "catalog"
		assert.Equal(t, GenerateKey(base), GenerateKey(grouped))
	})

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "other consumer key", mutate: func(r *Request) { r.Identity = []string{"other", "secret", "token"} }},
		{name: "other query", mutate: func(r *Request) { r.Route = "/products?page=2" }},
		{name: "other body", mutate: func(r *Request) { r.Body = []byte(`{"a":1}`) }},
		{name: "shifted boundary", mutate: func(r *Request) { r.Identity = []string{"keysecret", "", "token"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.NotEqual(t, GenerateKey(base), GenerateKey(other))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		payload string
		ok      bool
	}{
		{payload: `{"id": 1}`, ok: true},
		{payload: `{}`, ok: true},
		{payload: `[1, 2]`, ok: false},
		{payload: `"text"`, ok: false},
		{payload: `42`, ok: false},
		{payload: `null`, ok: false},
		{payload: `not json`, ok: false},
		{payload: `{"a":1}{"b":2}`, ok: false},
		{payload: `{"a":1}}`, ok: false},
		{payload: `{"a":1}]`, ok: false},
		{payload: `{"a":1} x`, ok: false},
		{payload: "{\"a\":1}\n", ok: true},
		{payload: ``, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			_, ok := Decode([]byte(tt.payload))
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestHTTPCacheStoreAndLookup(t *testing.T) {
	tempDir := t.TempDir()
	httpCache := New(cache.NewDisk(tempDir))

	request := Request{Identity: []string{"k"}, Route: "/categories", Group: "menu"}
	payload := []byte(`{"items": [1, 2, 3]}`)

	require.NoError(t, httpCache.Store(request, payload))
	assert.FileExists(t, filepath.Join(tempDir, "menu", GenerateKey(request)))

	data, fields, ok := httpCache.Lookup(request, time.Hour)
	require.True(t, ok)
	assert.Equal(t, payload, data)
	assert.Len(t, fields["items"], 3)

	require.NoError(t, httpCache.ClearGroup("menu"))
	_, _, ok = httpCache.Lookup(request, time.Hour)
	assert.False(t, ok)
}

func TestHTTPCacheLookupMalformedEntry(t *testing.T) {
	tempDir := t.TempDir()
	httpCache := New(cache.NewDisk(tempDir))

	request := Request{Identity: []string{"k"}, Route: "/broken"}
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, GenerateKey(request)), []byte(`{"trunc`), 0644))

	_, _, ok := httpCache.Lookup(request, time.Hour)
	assert.False(t, ok)
}
