package headless

import (
	"net/http"
	"strings"
)

// credentials picks the Basic auth pair for a request.
// The public catalog is readable with the public token alone.
func (c *Client) credentials(route, method string) (username, password string) {
	if publicRoutes.Match(strings.ToLower(route), method) {
		return c.identity.PublicToken, ""
	}
	return c.identity.ConsumerKey, c.identity.ConsumerSecret
}

func (c *Client) authorize(req *http.Request, route string) {
	username, password := c.credentials(route, req.Method)
	req.SetBasicAuth(username, password)
}
