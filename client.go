package headless

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/iTrooz/headless-go/internal/cache"
	"github.com/iTrooz/headless-go/internal/cache/httpcache"

	"github.com/sirupsen/logrus"
)

const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodPatch  = http.MethodPatch
	MethodDelete = http.MethodDelete
)

const (
	// staleAfter is the age past which Sweep removes root cache files
	staleAfter = 24 * time.Hour
	// one cache-eligible request in sweepOdds runs the sweep
	sweepOdds = 1000
)

// Identity holds the API credentials. It also namespaces cache entries.
type Identity struct {
	ConsumerKey    string
	ConsumerSecret string
	PublicToken    string
}

func (i Identity) cacheNamespace() []string {
	return []string{i.ConsumerKey, i.ConsumerSecret, i.PublicToken}
}

// Client talks to the headless API. It is not safe for concurrent use.
type Client struct {
	identity    Identity
	config      Config
	httpClient  *http.Client
	customHTTP  bool
	cache       *httpcache.HTTPCache
	now         func() time.Time
	sweepChance func() bool
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient makes the client use hc. Timeout, TLS and proxy settings from Config are then ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.customHTTP = true
	}
}

// WithClock replaces time.Now for cache freshness checks
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithSweepChance replaces the draw deciding whether a request sweeps stale cache files
func WithSweepChance(fn func() bool) Option {
	return func(c *Client) {
		c.sweepChance = fn
	}
}

func defaultSweepChance() bool {
	return rand.Intn(sweepOdds) == 0
}

// New creates a client with DefaultConfig
func New(identity Identity, opts ...Option) *Client {
	c := &Client{
		identity:    identity,
		now:         time.Now,
		sweepChance: defaultSweepChance,
	}
	for _, opt := range opts {
		opt(c)
	}
	// DefaultConfig always validates
	_ = c.Configure(DefaultConfig())
	return c
}

// NewFromFile creates a client from a YAML configuration file
func NewFromFile(path string, opts ...Option) (*Client, error) {
	identity, cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	c := New(identity, opts...)
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure replaces the client settings
func (c *Client) Configure(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !c.customHTTP {
		hc, err := newHTTPClient(cfg)
		if err != nil {
			return err
		}
		c.httpClient = hc
	}

	c.cache = httpcache.New(cache.NewDisk(cfg.CachePath, cache.WithClock(c.now)))
	c.config = cfg
	return nil
}

// Config returns the current settings
func (c *Client) Config() Config {
	return c.config
}

type getOptions struct {
	ttl        time.Duration
	useDefault bool
	group      string
}

// GetOption controls caching of a GET request
type GetOption func(*getOptions)

// CacheFor caches the response and serves it from the cache while younger than ttl
func CacheFor(ttl time.Duration) GetOption {
	return func(o *getOptions) {
		o.ttl = ttl
		o.useDefault = false
	}
}

// CacheDefault caches the response using the configured DefaultTTL
func CacheDefault() GetOption {
	return func(o *getOptions) {
		o.useDefault = true
	}
}

// InGroup stores the cached response in a group, see ClearCacheGroup
func InGroup(group string) GetOption {
	return func(o *getOptions) {
		o.group = group
	}
}

// Get reads a route. Without a cache option the response is never cached.
//
// With RaiseOnAPIError set, a response carrying an error field is returned
// together with an *APIError, so both values can be non-nil.
func (c *Client) Get(ctx context.Context, route string, opts ...GetOption) (*Response, error) {
	var o getOptions
	for _, opt := range opts {
		opt(&o)
	}
	ttl := o.ttl
	if o.useDefault {
		ttl = c.config.DefaultTTL
	}
	return c.request(ctx, route, MethodGet, nil, ttl, o.group)
}

// Post, Put, Patch and Delete return the response alongside an *APIError, as Get does.
func (c *Client) Post(ctx context.Context, route string, body any) (*Response, error) {
	return c.request(ctx, route, MethodPost, body, 0, "")
}

func (c *Client) Put(ctx context.Context, route string, body any) (*Response, error) {
	return c.request(ctx, route, MethodPut, body, 0, "")
}

func (c *Client) Patch(ctx context.Context, route string, body any) (*Response, error) {
	return c.request(ctx, route, MethodPatch, body, 0, "")
}

func (c *Client) Delete(ctx context.Context, route string) (*Response, error) {
	return c.request(ctx, route, MethodDelete, nil, 0, "")
}

// Do issues a request with any supported method. Only GET honours ttl and group.
// Like Get, it returns the response alongside an *APIError.
func (c *Client) Do(ctx context.Context, method, route string, body any, ttl time.Duration, group string) (*Response, error) {
	return c.request(ctx, route, method, body, ttl, group)
}

// ClearCacheGroup removes every response cached in group. An empty group is a no-op.
func (c *Client) ClearCacheGroup(group string) error {
	if group == "" {
		return nil
	}
	return c.cache.ClearGroup(group)
}

// cacheable reports whether a request reads and writes the disk cache
func (c *Client) cacheable(route, method string, ttl time.Duration) bool {
	return method == MethodGet &&
		ttl > 0 &&
		!uncachedRoutes.Match(route, method)
}

// encodeBody serializes a request body. A nil body is sent as an empty JSON array.
func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return []byte("[]"), nil
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return encoded, nil
}

// request serves GETs from the cache when possible and otherwise dispatches the call.
// On a network response the cache is written before the error field is checked, so a
// response flagged as an API error is still cached and replayed.
func (c *Client) request(ctx context.Context, route, method string, body any, ttl time.Duration, group string) (*Response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	cached := c.cacheable(route, method, ttl)
	cacheRequest := httpcache.Request{
		Identity: c.identity.cacheNamespace(),
		Route:    route,
		Body:     payload,
		Group:    group,
	}

	if cached {
		if data, fields, ok := c.cache.Lookup(cacheRequest, ttl); ok {
			resp := &Response{Body: data, Fields: fields, Cached: true}
			return resp, c.checkAPIError(resp)
		}
	}

	resp, err := c.execute(ctx, route, method, payload)
	if err != nil {
		return nil, err
	}

	if cached {
		if err := c.cache.Store(cacheRequest, resp.Body); err != nil {
			logrus.Errorf("Failed to cache response for %s: %v", route, err)
		}
		c.maybeSweep()
	}

	return resp, c.checkAPIError(resp)
}

func (c *Client) checkAPIError(resp *Response) error {
	if !c.config.RaiseOnAPIError {
		return nil
	}
	return apiError(resp.Fields)
}

// maybeSweep occasionally evicts stale files from the cache root, inline
func (c *Client) maybeSweep() {
	if !c.config.CacheEnabled || !c.sweepChance() {
		return
	}
	removed, err := c.cache.Sweep(staleAfter)
	if err != nil {
		logrus.Errorf("Failed to sweep cache directory %s: %v", c.config.CachePath, err)
		return
	}
	logrus.Debugf("Swept %d stale cache files from %s", removed, c.config.CachePath)
}
