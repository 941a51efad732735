package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nyayasetu-web/models"
	"nyayasetu-web/parser"
	"nyayasetu-web/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResearchBackend answers research questions with the tagged reply format
type ResearchBackend interface {
	Ask(ctx context.Context, query string) (string, error)
}

// ResearchService drives the research chat page
type ResearchService struct {
	backend       ResearchBackend
	conversations *repository.ConversationRepository
	gate          *Gate
	strict        bool
	logger        *zap.Logger
	now           func() time.Time
}

// ResearchServiceOption is a functional option for ResearchService
type ResearchServiceOption func(*ResearchService)

// ResearchWithBackend sets the research agent client
func ResearchWithBackend(b ResearchBackend) ResearchServiceOption {
	return func(s *ResearchService) {
		s.backend = b
	}
}

// ResearchWithConversationRepository sets the history store
func ResearchWithConversationRepository(repo *repository.ConversationRepository) ResearchServiceOption {
	return func(s *ResearchService) {
		s.conversations = repo
	}
}

// ResearchWithGate shares an in-flight gate with other services
func ResearchWithGate(g *Gate) ResearchServiceOption {
	return func(s *ResearchService) {
		s.gate = g
	}
}

// ResearchWithStrictParse turns on strict parsing for every request
func ResearchWithStrictParse(strict bool) ResearchServiceOption {
	return func(s *ResearchService) {
		s.strict = strict
	}
}

// ResearchWithLogger sets the logger
func ResearchWithLogger(logger *zap.Logger) ResearchServiceOption {
	return func(s *ResearchService) {
		s.logger = logger
	}
}

// NewResearchService creates a new research service
func NewResearchService(opts ...ResearchServiceOption) *ResearchService {
	s := &ResearchService{
		gate:   NewGate(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.conversations == nil {
		s.conversations = repository.NewConversationRepository()
	}
	return s
}

// AskRequest represents one research question
type AskRequest struct {
	SessionID uuid.UUID
	Query     string
	// Strict asks for parse warnings on this request only
	Strict bool
}

// AskResult represents the answered exchange
type AskResult struct {
	Exchange models.Exchange
}

// Ask sends the query to the research agent and appends the parsed answer
// to the session's history. The answer is dropped with ErrStaleResponse if
// the history was reset or the caller went away while the agent was working
func (s *ResearchService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	if s.backend == nil {
		return nil, errors.New("research backend not set")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, invalid("Please enter a question")
	}

	release, err := s.gate.Enter(req.SessionID, PageResearch)
	if err != nil {
		return nil, err
	}
	defer release()

	generation := s.conversations.Begin(req.SessionID)

	raw, err := s.backend.Ask(ctx, query)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrStaleResponse, ctx.Err())
	}

	exchange := models.Exchange{
		ID:      uuid.New(),
		Query:   query,
		AskedAt: s.now(),
	}
	if s.strict || req.Strict {
		var warnings []string
		exchange.Response, warnings = parser.ParseStrict(raw)
		exchange.Warnings = warnings
		for _, w := range warnings {
			s.logger.Warn("research reply under-parsed",
				zap.String("session_id", req.SessionID.String()),
				zap.String("warning", w))
		}
	} else {
		exchange.Response = parser.Parse(raw)
	}

	err = s.conversations.Append(req.SessionID, generation, exchange)
	if errors.Is(err, repository.ErrStaleGeneration) || errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("discarding stale research reply",
			zap.String("session_id", req.SessionID.String()),
			zap.Uint64("generation", generation))
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}

	return &AskResult{Exchange: exchange.Clone()}, nil
}

// History returns the session's conversation
func (s *ResearchService) History(sessionID uuid.UUID) *models.Conversation {
	return s.conversations.Get(sessionID)
}

// NewChat clears the session's history. A reply still in flight will be discarded
func (s *ResearchService) NewChat(sessionID uuid.UUID) {
	s.conversations.Reset(sessionID)
}

// Busy reports whether the session has a research request in flight
func (s *ResearchService) Busy(sessionID uuid.UUID) bool {
	return s.gate.Busy(sessionID, PageResearch)
}
