package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadStatus represents the state of an upload job or of one file in it
type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadInProgress UploadStatus = "in_progress"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// StagedFile is a browser upload held in storage until it is ingested
type StagedFile struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"-"`
}

// UploadStep tracks one file of a batch
type UploadStep struct {
	File    StagedFile   `json:"file"`
	Status  UploadStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Chunks  int          `json:"chunks,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// UploadJob represents a batch of documents ingested one after another
type UploadJob struct {
	ID            uuid.UUID    `json:"id"`
	DocumentSetID uuid.UUID    `json:"document_set_id"`
	Status        UploadStatus `json:"status"`
	ResetFirst    bool         `json:"reset_first"`
	Steps         []UploadStep `json:"steps"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// Clone returns a deep copy of the job
func (j *UploadJob) Clone() *UploadJob {
	out := *j
	out.Steps = append([]UploadStep(nil), j.Steps...)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// Done reports whether every file has been processed
func (j *UploadJob) Done() bool {
	return j.Status == UploadCompleted || j.Status == UploadFailed
}

// Progress returns how many files have finished, successfully or not
func (j *UploadJob) Progress() (done, total int) {
	for _, s := range j.Steps {
		if s.Status == UploadCompleted || s.Status == UploadFailed {
			done++
		}
	}
	return done, len(j.Steps)
}
