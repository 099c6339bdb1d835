package headless

import "strings"

// Rule interface for matching requests against routing rules
type Rule interface {
	Match(route, method string) bool
}

// catalogRule matches anonymous reads of a collection path, with or without a query string
type catalogRule struct {
	path string
}

func (r catalogRule) Match(route, method string) bool {
	if method != MethodGet {
		return false
	}
	return route == r.path || strings.HasPrefix(route, r.path+"?")
}

// rootRule matches every route whose root segment is one of roots
type rootRule struct {
	roots []string
}

func (r rootRule) Match(route, _ string) bool {
	root := RouteRoot(route)
	for _, candidate := range r.roots {
		if root == candidate {
			return true
		}
	}
	return false
}

var (
	// routes readable with the public token
	publicRoutes Rule = catalogRule{path: "/products"}
	// routes never served from or written to the cache
	uncachedRoutes Rule = rootRule{roots: []string{"sessions"}}
)

// RouteRoot returns the first path segment of a route, ignoring the query string
func RouteRoot(route string) string {
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}
	route = strings.Trim(route, "/")
	root, _, _ := strings.Cut(route, "/")
	return root
}
