package headless

import (
	"encoding/json"
	"errors"
	"fmt"
)

const maxErrorBody = 256

// AuthError is returned when the API answers 401
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("headless: %d Not authorized", e.StatusCode)
}

// TransportError wraps connection, DNS, TLS and read failures
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "headless: transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when the response body is not a JSON object
type ProtocolError struct {
	StatusCode int
	// Body is the raw response text
	Body string
}

func (e *ProtocolError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("headless: malformed response (HTTP %d): %s", e.StatusCode, body)
}

// APIError is returned for well-formed responses carrying an error field,
// when the client is configured to raise on them. The request methods then
// also return the non-nil *Response, cached or not.
type APIError struct {
	Message string
	Fields  map[string]any
}

func (e *APIError) Error() string {
	return "headless: api error: " + e.Message
}

// IsAuth checks if an error is an authentication error
func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsTransport checks if an error is a transport error
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsProtocol checks if an error is a malformed response error
func IsProtocol(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}

// IsAPI checks if an error was reported by the API itself
func IsAPI(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// apiError returns an APIError when fields carry a non-empty error value
func apiError(fields map[string]any) error {
	value, ok := fields["error"]
	if !ok || !truthy(value) {
		return nil
	}

	message, ok := value.(string)
	if !ok {
		encoded, err := json.Marshal(value)
		if err != nil {
			message = fmt.Sprint(value)
		} else {
			message = string(encoded)
		}
	}
	return &APIError{Message: message, Fields: fields}
}

// truthy follows the API's loose notion of a set error field:
// null, false, "", "0", 0 and empty arrays are unset.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}
