package httpcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iTrooz/headless-go/internal/cache"

	"github.com/sirupsen/logrus"
)

// Request identifies a cacheable API call
type Request struct {
	// Identity namespaces keys so clients sharing a cache directory never collide
	Identity []string
	// Route is the raw route, query string included
	Route string
	// Body is the encoded request body
	Body []byte
	// Group is the optional cache group subdirectory
	Group string
}

type HTTPCache struct {
	cache cache.Cache
}

func New(cache cache.Cache) *HTTPCache {
	return &HTTPCache{
		cache: cache,
	}
}

// GenerateKey returns the file name an API call is cached under
func GenerateKey(request Request) string {
	h := sha256.New()
	for _, part := range request.Identity {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write([]byte(request.Route))
	h.Write([]byte{0})
	h.Write(request.Body)
	return hex.EncodeToString(h.Sum(nil))
}

// Decode parses a payload, which is only valid when it is a JSON object
func Decode(payload []byte) (map[string]any, bool) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	// anything after the object, stray brackets included, makes the payload invalid
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return fields, true
}

// Lookup returns the cached payload and its decoded fields.
// Unreadable or malformed entries are reported as a miss.
func (d *HTTPCache) Lookup(request Request, ttl time.Duration) ([]byte, map[string]any, bool) {
	key := GenerateKey(request)

	data, err := d.cache.Get(request.Group, key, ttl)
	if err != nil {
		logrus.Errorf("Failed to get cached data for %s: %v", request.Route, err)
		return nil, nil, false
	}
	if data == nil {
		logrus.Debugf("No cached data found for %s", request.Route)
		return nil, nil, false
	}

	fields, ok := Decode(data)
	if !ok {
		logrus.Debugf("Ignoring malformed cache entry %s for %s", key, request.Route)
		return nil, nil, false
	}

	logrus.Debugf("Cache hit for %s", request.Route)
	return data, fields, true
}

// Store persists a payload for the request
func (d *HTTPCache) Store(request Request, payload []byte) error {
	if err := d.cache.Set(request.Group, GenerateKey(request), payload); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// ClearGroup drops every payload stored under group
func (d *HTTPCache) ClearGroup(group string) error {
	return d.cache.ClearGroup(group)
}

// Sweep evicts root-level entries older than maxAge
func (d *HTTPCache) Sweep(maxAge time.Duration) (int, error) {
	return d.cache.Sweep(maxAge)
}
