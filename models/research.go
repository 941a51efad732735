package models

import (
	"time"

	"github.com/google/uuid"
)

// NoDate is the precedent date used when no four-digit year is present
const NoDate = "N/A"

// Precedent represents a prior case cited by the research agent
type Precedent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Link  string `json:"link"`
}

// ParsedResponse is the structured form of one research agent reply
type ParsedResponse struct {
	LegalAnswer string      `json:"legal_answer"`
	Statutes    []string    `json:"statutes"`
	Precedents  []Precedent `json:"precedents"`
}

// Clone returns a deep copy so stored history cannot be mutated through it
func (p ParsedResponse) Clone() ParsedResponse {
	out := ParsedResponse{
		LegalAnswer: p.LegalAnswer,
		Statutes:    make([]string, len(p.Statutes)),
		Precedents:  make([]Precedent, len(p.Precedents)),
	}
	copy(out.Statutes, p.Statutes)
	copy(out.Precedents, p.Precedents)
	return out
}

// Exchange is one query and its parsed answer in a conversation
type Exchange struct {
	ID       uuid.UUID      `json:"id"`
	Query    string         `json:"query"`
	Response ParsedResponse `json:"response"`
	Warnings []string       `json:"warnings,omitempty"`
	AskedAt  time.Time      `json:"asked_at"`
}

// Clone returns a deep copy of the exchange
func (e Exchange) Clone() Exchange {
	out := e
	out.Response = e.Response.Clone()
	if e.Warnings != nil {
		out.Warnings = append([]string(nil), e.Warnings...)
	}
	return out
}

// Conversation represents the research history of one browser session
type Conversation struct {
	ID         uuid.UUID  `json:"id"`
	Exchanges  []Exchange `json:"exchanges"`
	Generation uint64     `json:"generation"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the conversation
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Exchanges = make([]Exchange, len(c.Exchanges))
	for i, e := range c.Exchanges {
		out.Exchanges[i] = e.Clone()
	}
	return &out
}
