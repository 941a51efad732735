package repository

import (
	"sync"
	"time"

	"nyayasetu-web/models"

	"github.com/google/uuid"
)

// SessionRepository holds browser sessions
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
	now      func() time.Time
}

// NewSessionRepository creates an empty session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]*models.Session),
		now:      time.Now,
	}
}

// Create starts a new session with a fresh document set
func (r *SessionRepository) Create() *models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s := &models.Session{
		ID:            uuid.New(),
		DocumentSetID: uuid.New(),
		CreatedAt:     now,
		LastSeenAt:    now,
	}
	r.sessions[s.ID] = s
	out := *s
	return &out
}

// Touch marks the session as used now and returns it
func (r *SessionRepository) Touch(id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.LastSeenAt = r.now()
	out := *s
	return &out, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Expire removes sessions idle since before cutoff and returns their IDs
func (r *SessionRepository) Expire(cutoff time.Time) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []uuid.UUID
	for id, s := range r.sessions {
		if s.LastSeenAt.Before(cutoff) {
			expired = append(expired, id)
			delete(r.sessions, id)
		}
	}
	return expired
}

// Count returns the number of live sessions
func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
