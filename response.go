package headless

import "encoding/json"

// Response is a decoded API response
type Response struct {
	// StatusCode is zero for responses served from the cache
	StatusCode int
	// Body is the raw payload, as received or as read from the cache
	Body []byte
	// Fields is Body decoded as a JSON object; numbers are json.Number
	Fields map[string]any
	// Cached reports whether the response came from the disk cache
	Cached bool
}

// Decode unmarshals the raw payload into v
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Field returns a top-level field of the payload
func (r *Response) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}
