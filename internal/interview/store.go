package interview

import (
	"fmt"
	"strings"
	"sync"
)

// Store is the session repository. Mutations go through Update, which runs the
// provided function under a per-session lock: concurrent turn requests for the
// same session are serialized instead of racing on the shared transcript.
// Get and GetByToken return snapshots taken under the same lock, so readers
// never observe a session mid-mutation.
type Store interface {
	Put(session *Session) error
	Get(id string) (*Session, error)
	GetByToken(token string) (*Session, error)
	Update(id string, fn func(*Session) error) error
}

// MemoryStore keeps sessions in memory for the process lifetime.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	tokens   map[string]string
	locks    map[string]*sync.Mutex
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		tokens:   make(map[string]string),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Put registers a new session. Used once at scheduling time.
func (s *MemoryStore) Put(session *Session) error {
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}

	s.sessions[session.ID] = session
	s.locks[session.ID] = &sync.Mutex{}
	if session.HRToken != "" {
		s.tokens[session.HRToken] = session.ID
	}

	return nil
}

// Get returns a snapshot of the session with the given id. The copy is taken
// under the session's lock, so it is safe to read and marshal while turns are
// being processed concurrently.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	lock := s.locks[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	lock.Lock()
	defer lock.Unlock()

	return session.snapshot(), nil
}

// GetByToken resolves an HR portal token to a snapshot of its session.
func (s *MemoryStore) GetByToken(token string) (*Session, error) {
	s.mu.RLock()
	id, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	return s.Get(id)
}

// Update runs fn on the session under its per-session lock. The lock is held
// for the whole mutation, including any blocking calls fn performs, so turn
// processing for one session is single-writer.
func (s *MemoryStore) Update(id string, fn func(*Session) error) error {
	s.mu.RLock()
	session, ok := s.sessions[id]
	lock := s.locks[id]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	lock.Lock()
	defer lock.Unlock()

	return fn(session)
}
