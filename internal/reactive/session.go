package reactive

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	controls Controls
	seen     time.Time
}

// Sessions stores control values per browser session. Idle sessions expire
// after the configured TTL.
type Sessions struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]*session
}

// NewSessions creates an empty store. A ttl of zero disables expiry.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, now: time.Now, data: make(map[string]*session)}
}

// New starts a session at the default controls and returns its id.
func (s *Sessions) New() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.data[id] = &session{controls: DefaultControls(), seen: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the controls for id. ok is false for unknown or expired ids.
func (s *Sessions) Get(id string) (Controls, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[id]
	if !ok || s.expired(sess) {
		return Controls{}, false
	}
	return sess.controls, true
}

// Put stores controls for id, creating the session if needed.
func (s *Sessions) Put(id string, c Controls) {
	s.mu.Lock()
	s.data[id] = &session{controls: c, seen: s.now()}
	s.mu.Unlock()
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.data {
		if s.expired(sess) {
			delete(s.data, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired ones included.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Sessions) expired(sess *session) bool {
	return s.ttl > 0 && s.now().Sub(sess.seen) > s.ttl
}
