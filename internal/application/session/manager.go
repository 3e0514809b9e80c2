package session

import (
	"context"
	"sync"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/google/uuid"
)

// Manager tracks the open register sessions of this process. Sessions
// are keyed by their own identity; each one exclusively owns its
// in-progress transaction.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	deps     Deps
	settle   time.Duration
}

// NewManager creates a session manager. settleDelay is the autosave
// debounce window applied to every session it opens.
func NewManager(deps Deps, settleDelay time.Duration) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		deps:     deps,
		settle:   settleDelay,
	}
}

// Open starts an empty session for the operator.
func (m *Manager) Open(userID, clinicID uuid.UUID) *Session {
	s := New(userID, clinicID, m.deps, m.settle)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Resume opens a session hydrated from a saved draft.
func (m *Manager) Resume(ctx context.Context, userID, clinicID uuid.UUID, draft *entity.Draft) (*Session, error) {
	s := New(userID, clinicID, m.deps, m.settle)
	if err := s.Resume(ctx, draft); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get looks up an open session owned by the given user.
func (m *Manager) Get(sessionID, userID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok || s.Closed() {
		return nil, apperror.NewNotFoundError("Session")
	}
	if s.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return s, nil
}

// Close ends a session and forgets it. Pending autosaves are cancelled,
// not fired late.
func (m *Manager) Close(sessionID, userID uuid.UUID) error {
	s, err := m.Get(sessionID, userID)
	if err != nil {
		return err
	}
	s.Close()

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// Evict drops a session regardless of state, used after submission.
func (m *Manager) Evict(sessionID uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}
