package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one browser's working state. Nothing here outlives the process
type Session struct {
	ID            uuid.UUID `json:"id"`
	DocumentSetID uuid.UUID `json:"document_set_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastSeenAt    time.Time `json:"last_seen_at"`
}
