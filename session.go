package headless

import "github.com/google/uuid"

// SessionHeader carries the visitor session id to the API
const SessionHeader = "X-Headless-Session"

// SessionProvider supplies the session id sent with every request.
// An empty id omits the header.
type SessionProvider interface {
	SessionID() string
}

// StaticSession always returns the same id
type StaticSession string

func (s StaticSession) SessionID() string {
	return string(s)
}

// RandomSession generates an id on first use and keeps it
type RandomSession struct {
	id string
}

func NewRandomSession() *RandomSession {
	return &RandomSession{}
}

func (s *RandomSession) SessionID() string {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s.id
}

// SetID replaces the session id, e.g. with one restored from a cookie
func (s *RandomSession) SetID(id string) {
	s.id = id
}
