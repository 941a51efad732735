package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"nyayasetu-web/backend"
	"nyayasetu-web/models"
	"nyayasetu-web/parser"

	"github.com/google/uuid"
)

const (
	maxCaseLawResults = 20
	topResultCount    = 3
	dateLayout        = "2006-01-02"
)

var knownCourts = map[string]bool{
	models.CourtSupreme:        true,
	models.CourtHigh:           true,
	models.CourtTribunals:      true,
	models.CourtServiceMatters: true,
}

// CaseLawBackend runs judgment searches
type CaseLawBackend interface {
	SearchCaseLaw(ctx context.Context, q backend.CaseLawQuery) ([]models.CaseLaw, error)
}

// CaseLawService drives the case-law search page
type CaseLawService struct {
	backend CaseLawBackend
	gate    *Gate
}

// CaseLawServiceOption is a functional option for CaseLawService
type CaseLawServiceOption func(*CaseLawService)

// CaseLawWithBackend sets the search client
func CaseLawWithBackend(b CaseLawBackend) CaseLawServiceOption {
	return func(s *CaseLawService) {
		s.backend = b
	}
}

// CaseLawWithGate shares an in-flight gate with other services
func CaseLawWithGate(g *Gate) CaseLawServiceOption {
	return func(s *CaseLawService) {
		s.gate = g
	}
}

// NewCaseLawService creates a new case-law service
func NewCaseLawService(opts ...CaseLawServiceOption) *CaseLawService {
	s := &CaseLawService{gate: NewGate()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchRequest represents the case-law search form
type SearchRequest struct {
	SessionID uuid.UUID
	Query     string
	Court     string
	FromDate  string
	ToDate    string
	SortBy    models.SortOrder
}

// SearchResult represents the cards to display
type SearchResult struct {
	Query string               `json:"query"`
	Cards []models.CaseLawCard `json:"cases"`
}

// Search validates the form and runs the search. Empty filters are sent
// as null
func (s *CaseLawService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if s.backend == nil {
		return nil, errors.New("case-law backend not set")
	}

	q, err := buildCaseLawQuery(req)
	if err != nil {
		return nil, err
	}

	release, err := s.gate.Enter(req.SessionID, PageCaseLaw)
	if err != nil {
		return nil, err
	}
	defer release()

	cases, err := s.backend.SearchCaseLaw(ctx, q)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Query: q.Query, Cards: toCards(cases)}, nil
}

func buildCaseLawQuery(req SearchRequest) (backend.CaseLawQuery, error) {
	q := backend.CaseLawQuery{
		Query:      strings.TrimSpace(req.Query),
		SortBy:     req.SortBy,
		MaxResults: maxCaseLawResults,
	}
	if q.Query == "" {
		return q, invalid("Please enter a search query")
	}
	if q.SortBy == "" {
		q.SortBy = models.SortRelevance
	}
	if !q.SortBy.Valid() {
		return q, invalid("Unknown sort order: " + string(q.SortBy))
	}

	if court := strings.TrimSpace(req.Court); court != "" {
		if !knownCourts[court] {
			return q, invalid("Unknown court: " + court)
		}
		q.Court = &court
	}

	var err error
	if q.FromDate, err = optionalDate(req.FromDate, "From date"); err != nil {
		return q, err
	}
	if q.ToDate, err = optionalDate(req.ToDate, "To date"); err != nil {
		return q, err
	}
	if q.FromDate != nil && q.ToDate != nil && *q.FromDate > *q.ToDate {
		return q, invalid("From date must not be after to date")
	}

	return q, nil
}

func optionalDate(v, label string) (*string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return nil, invalid(label + " must be a date (YYYY-MM-DD)")
	}
	return &v, nil
}

func toCards(cases []models.CaseLaw) []models.CaseLawCard {
	cards := make([]models.CaseLawCard, len(cases))
	for i, c := range cases {
		cards[i] = models.CaseLawCard{
			CaseLaw:    c,
			PlainTitle: parser.StripHTML(c.Title),
			TopResult:  i < topResultCount,
		}
	}
	return cards
}
