package service

import (
	"context"
	"errors"
	"strings"

	"nyayasetu-web/backend"
	"nyayasetu-web/models"

	"github.com/google/uuid"
)

// ComparatorBackend fetches IPC/BNS section mappings
type ComparatorBackend interface {
	Compare(ctx context.Context, req backend.CompareRequest) (*models.Comparison, error)
}

// ComparatorService drives the statute comparator page
type ComparatorService struct {
	backend ComparatorBackend
	gate    *Gate
}

// ComparatorServiceOption is a functional option for ComparatorService
type ComparatorServiceOption func(*ComparatorService)

// ComparatorWithBackend sets the comparison client
func ComparatorWithBackend(b ComparatorBackend) ComparatorServiceOption {
	return func(s *ComparatorService) {
		s.backend = b
	}
}

// ComparatorWithGate shares an in-flight gate with other services
func ComparatorWithGate(g *Gate) ComparatorServiceOption {
	return func(s *ComparatorService) {
		s.gate = g
	}
}

// NewComparatorService creates a new comparator service
func NewComparatorService(opts ...ComparatorServiceOption) *ComparatorService {
	s := &ComparatorService{gate: NewGate()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompareRequest represents the comparator form
type CompareRequest struct {
	SessionID  uuid.UUID
	LawType    models.LawType
	Section    string
	Subsection string
}

// Compare looks up a section and its counterparts in the other code.
// Subsections only exist in BNS numbering, so they are dropped for IPC
func (s *ComparatorService) Compare(ctx context.Context, req CompareRequest) (*models.Comparison, error) {
	if s.backend == nil {
		return nil, errors.New("comparator backend not set")
	}

	section := strings.TrimSpace(req.Section)
	if section == "" {
		return nil, invalid("Please enter a section number")
	}
	law := models.LawType(strings.ToUpper(strings.TrimSpace(string(req.LawType))))
	if law == "" {
		law = models.LawIPC
	}
	if !law.Valid() {
		return nil, invalid("Law type must be IPC or BNS")
	}

	body := backend.CompareRequest{LawType: law, Section: section}
	if sub := strings.TrimSpace(req.Subsection); sub != "" && law == models.LawBNS {
		body.Subsection = &sub
	}

	release, err := s.gate.Enter(req.SessionID, PageComparator)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.backend.Compare(ctx, body)
}
