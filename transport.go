package headless

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/iTrooz/headless-go/internal/cache/httpcache"

	"github.com/sirupsen/logrus"
)

func newHTTPClient(cfg Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.InsecureSkipVerify {
		logrus.Warnf("TLS certificate verification is disabled for %s", cfg.BaseURL)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

func hasBody(method string) bool {
	return method == MethodPost || method == MethodPut || method == MethodPatch
}

// execute sends one request and decodes the response
func (c *Client) execute(ctx context.Context, route, method string, payload []byte) (*Response, error) {
	targetURL := c.config.BaseURL + route

	var body io.Reader
	if hasBody(method) {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, route)
	if c.config.Session != nil {
		if id := c.config.Session.SessionID(); id != "" {
			req.Header.Set(SessionHeader, id)
		}
	}
	if hasBody(method) {
		req.ContentLength = int64(len(payload))
	}

	resp, err := c.httpClient.Do(req)
	if resp != nil && resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		return nil, &AuthError{StatusCode: resp.StatusCode}
	}
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	fields, ok := httpcache.Decode(raw)
	if !ok {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	logrus.Debugf("Forwarded request: %s %s -> %d", method, targetURL, resp.StatusCode)
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       raw,
		Fields:     fields,
	}, nil
}
