package repository

import (
	"sync"
	"time"

	"nyayasetu-web/models"

	"github.com/google/uuid"
)

// ConversationRepository holds research histories, one per session.
//
// Each conversation carries a generation counter. A request records the
// generation when it starts (Begin) and may only append its exchange while
// that generation is still current; starting another request or resetting
// the conversation moves the generation on
type ConversationRepository struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*models.Conversation
	now           func() time.Time
}

// NewConversationRepository creates an empty conversation repository
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[uuid.UUID]*models.Conversation),
		now:           time.Now,
	}
}

// lookup returns the session's conversation, creating it on first use.
// Caller holds r.mu
func (r *ConversationRepository) lookup(sessionID uuid.UUID) *models.Conversation {
	c, ok := r.conversations[sessionID]
	if !ok {
		now := r.now()
		c = &models.Conversation{
			ID:        sessionID,
			Exchanges: []models.Exchange{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.conversations[sessionID] = c
	}
	return c
}

// Get returns a copy of the session's conversation (empty if none yet)
func (r *ConversationRepository) Get(sessionID uuid.UUID) *models.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(sessionID).Clone()
}

// Begin starts a new request generation and returns it
func (r *ConversationRepository) Begin(sessionID uuid.UUID) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.lookup(sessionID)
	c.Generation++
	return c.Generation
}

// Append adds an exchange if generation is still current
func (r *ConversationRepository) Append(sessionID uuid.UUID, generation uint64, ex models.Exchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[sessionID]
	if !ok {
		return ErrNotFound
	}
	if c.Generation != generation {
		return ErrStaleGeneration
	}
	c.Exchanges = append(c.Exchanges, ex.Clone())
	c.UpdatedAt = r.now()
	return nil
}

// Reset clears the history ("new chat") and invalidates in-flight requests
func (r *ConversationRepository) Reset(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.lookup(sessionID)
	c.Generation++
	c.Exchanges = []models.Exchange{}
	c.UpdatedAt = r.now()
}

// Delete drops the session's conversation
func (r *ConversationRepository) Delete(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, sessionID)
}
