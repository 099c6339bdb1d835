// Package tests provides a fake headless API for end-to-end tests
package tests

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Recorded is a request received by the fake API
type Recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Header        http.Header
	Body          []byte
	ContentLength int64
	Username      string
	Password      string
}

// Upstream is a fake headless API.
// Unless a route has a canned reply, it echoes the call as a JSON object
// with a per-URL hit counter.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	canned   map[string]reply
	hits     map[string]int
	requests []Recorded
}

type reply struct {
	status int
	body   string
}

// Echo is the object returned for routes without a canned reply
type Echo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query"`
	Hit    int    `json:"hit"`
	Body   string `json:"body"`
}

// NewUpstream starts a fake API, close it with Close
func NewUpstream() *Upstream {
	u := &Upstream{
		canned: map[string]reply{},
		hits:   map[string]int{},
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.handle))
	return u
}

// Reply makes path answer with a fixed status and body
func (u *Upstream) Reply(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.canned[path] = reply{status: status, body: body}
}

// Hits returns how many times the exact path and query were requested
func (u *Upstream) Hits(pathAndQuery string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[pathAndQuery]
}

// Requests returns every request received so far
func (u *Upstream) Requests() []Recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Recorded(nil), u.requests...)
}

// Last returns the most recent request
func (u *Upstream) Last() Recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return Recorded{}
	}
	return u.requests[len(u.requests)-1]
}

func (u *Upstream) handle(w http.ResponseWriter, requ *http.Request) {
	body, _ := io.ReadAll(requ.Body)
	username, password, _ := requ.BasicAuth()

	key := requ.URL.Path
	if requ.URL.RawQuery != "" {
		key += "?" + requ.URL.RawQuery
	}

	u.mu.Lock()
	u.hits[key]++
	hit := u.hits[key]
	u.requests = append(u.requests, Recorded{
		Method:        requ.Method,
		Path:          requ.URL.Path,
		RawQuery:      requ.URL.RawQuery,
		Header:        requ.Header.Clone(),
		Body:          body,
		ContentLength: requ.ContentLength,
		Username:      username,
		Password:      password,
	})
	canned, ok := u.canned[requ.URL.Path]
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(canned.status)
		_, _ = w.Write([]byte(canned.body))
		return
	}

	_ = json.NewEncoder(w).Encode(Echo{
		Method: requ.Method,
		Path:   requ.URL.Path,
		Query:  requ.URL.RawQuery,
		Hit:    hit,
		Body:   string(body),
	})
}
