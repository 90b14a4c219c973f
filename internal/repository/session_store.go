// Package repository holds the in-memory session store. State is scoped to
// the process: each upload creates a session that expires after a TTL, and
// nothing is persisted.
package repository

import (
	"sync"
	"time"

	"fin-statement-analyzer/internal/domain"
)

const sweepInterval = 5 * time.Minute

// MemorySessionStore implements domain.SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.AnalysisSession
	ttl      time.Duration
	logger   domain.Logger
	done     chan struct{}
	once     sync.Once
}

// NewMemorySessionStore creates the store and starts the TTL janitor.
// A non-positive TTL disables expiry.
func NewMemorySessionStore(ttl time.Duration, logger domain.Logger) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*domain.AnalysisSession),
		ttl:      ttl,
		logger:   logger,
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// Put stores a session, replacing any previous one with the same ID.
func (s *MemorySessionStore) Put(session *domain.AnalysisSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get returns a copy of the session so callers never race with chat appends.
func (s *MemorySessionStore) Get(id string) (*domain.AnalysisSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	out := *session
	out.Chat = make([]domain.ChatTurn, len(session.Chat))
	copy(out.Chat, session.Chat)
	return &out, nil
}

// AppendChat adds turns to a session's chat history.
func (s *MemorySessionStore) AppendChat(id string, turns ...domain.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Chat = append(session.Chat, turns...)
	return nil
}

// Close stops the janitor.
func (s *MemorySessionStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemorySessionStore) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.done:
			return
		}
	}
}

// sweep removes sessions older than the TTL.
func (s *MemorySessionStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if now.Sub(session.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			s.logger.Debug("Session expired", "session_id", id)
		}
	}
}
