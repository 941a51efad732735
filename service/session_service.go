package service

import (
	"context"
	"time"

	"nyayasetu-web/models"
	"nyayasetu-web/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSessionTTL = 2 * time.Hour

// SessionService resolves browser sessions and expires idle ones together
// with everything the page services hold for them
type SessionService struct {
	sessions  *repository.SessionRepository
	research  *ResearchService
	documents *DocumentService
	gate      *Gate
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// SessionServiceOption is a functional option for SessionService
type SessionServiceOption func(*SessionService)

// SessionWithRepository sets the session store
func SessionWithRepository(repo *repository.SessionRepository) SessionServiceOption {
	return func(s *SessionService) {
		s.sessions = repo
	}
}

// SessionWithResearchService lets expiry clear research history
func SessionWithResearchService(r *ResearchService) SessionServiceOption {
	return func(s *SessionService) {
		s.research = r
	}
}

// SessionWithDocumentService lets expiry clear upload jobs
func SessionWithDocumentService(d *DocumentService) SessionServiceOption {
	return func(s *SessionService) {
		s.documents = d
	}
}

// SessionWithGate lets expiry drop in-flight slots
func SessionWithGate(g *Gate) SessionServiceOption {
	return func(s *SessionService) {
		s.gate = g
	}
}

// SessionWithTTL sets how long an idle session is kept
func SessionWithTTL(ttl time.Duration) SessionServiceOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// SessionWithLogger sets the logger
func SessionWithLogger(logger *zap.Logger) SessionServiceOption {
	return func(s *SessionService) {
		s.logger = logger
	}
}

// NewSessionService creates a new session service
func NewSessionService(opts ...SessionServiceOption) *SessionService {
	s := &SessionService{
		ttl:    defaultSessionTTL,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = repository.NewSessionRepository()
	}
	return s
}

// Resolve returns the session named by a cookie value, starting a new one
// when the value is empty, malformed or expired. created reports the latter
func (s *SessionService) Resolve(cookie string) (session *models.Session, created bool) {
	if id, err := uuid.Parse(cookie); err == nil {
		if session, err := s.sessions.Touch(id); err == nil {
			return session, false
		}
	}
	return s.sessions.Create(), true
}

// Sweep expires sessions idle for longer than the TTL
func (s *SessionService) Sweep() int {
	expired := s.sessions.Expire(s.now().Add(-s.ttl))
	for _, id := range expired {
		if s.research != nil {
			s.research.conversations.Delete(id)
		}
		if s.documents != nil {
			s.documents.Forget(id)
		}
		if s.gate != nil {
			s.gate.Forget(id)
		}
	}
	if len(expired) > 0 {
		s.logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
