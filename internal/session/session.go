package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/notegenius/server/internal/verification"
)

// ErrNotVerified is returned when a session id has not completed
// verification.
var ErrNotVerified = errors.New("session not verified")

// Session is a verified identity bound to a flow session id. No durable
// token is minted; the id itself is the credential for the lifetime of the
// process.
type Session struct {
	ID         string
	Name       string
	Channel    verification.Channel
	Contact    string
	VerifiedAt time.Time
}

// Registry stores verified sessions.
type Registry interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
}

type memoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryRegistry builds the in-memory session registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{sessions: make(map[string]Session)}
}

func (r *memoryRegistry) Put(_ context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *memoryRegistry) Get(_ context.Context, id string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotVerified
	}
	return s, nil
}
