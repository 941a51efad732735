package repository

import (
	"sort"
	"sync"
	"time"

	"nyayasetu-web/models"

	"github.com/google/uuid"
)

// UploadJobRepository tracks document upload batches
type UploadJobRepository struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.UploadJob
	// owner maps a job to the session that started it
	owner map[uuid.UUID]uuid.UUID
	now   func() time.Time
}

// NewUploadJobRepository creates an empty upload job repository
func NewUploadJobRepository() *UploadJobRepository {
	return &UploadJobRepository{
		jobs:  make(map[uuid.UUID]*models.UploadJob),
		owner: make(map[uuid.UUID]uuid.UUID),
		now:   time.Now,
	}
}

// Create registers a new pending job for the session's files
func (r *UploadJobRepository) Create(sessionID, documentSetID uuid.UUID, files []models.StagedFile, resetFirst bool) *models.UploadJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	job := &models.UploadJob{
		ID:            uuid.New(),
		DocumentSetID: documentSetID,
		Status:        models.UploadPending,
		ResetFirst:    resetFirst,
		Steps:         make([]models.UploadStep, len(files)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i, f := range files {
		job.Steps[i] = models.UploadStep{File: f, Status: models.UploadPending}
	}
	r.jobs[job.ID] = job
	r.owner[job.ID] = sessionID
	return job.Clone()
}

// GetByID retrieves a job owned by the session
func (r *UploadJobRepository) GetByID(sessionID, id uuid.UUID) (*models.UploadJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || r.owner[id] != sessionID {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

// ListBySession returns the session's jobs, oldest first
func (r *UploadJobRepository) ListBySession(sessionID uuid.UUID) []*models.UploadJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.UploadJob
	for id, job := range r.jobs {
		if r.owner[id] == sessionID {
			out = append(out, job.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// UpdateStep replaces the state of one file and moves the job in progress
func (r *UploadJobRepository) UpdateStep(id uuid.UUID, index int, step models.UploadStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || index < 0 || index >= len(job.Steps) {
		return ErrNotFound
	}
	job.Steps[index] = step
	if job.Status == models.UploadPending {
		job.Status = models.UploadInProgress
	}
	job.UpdatedAt = r.now()
	return nil
}

// Finish marks the job done. The job fails only when every file failed
func (r *UploadJobRepository) Finish(id uuid.UUID) (*models.UploadJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	job.Status = models.UploadFailed
	for _, s := range job.Steps {
		if s.Status == models.UploadCompleted {
			job.Status = models.UploadCompleted
			break
		}
	}
	now := r.now()
	job.UpdatedAt = now
	job.CompletedAt = &now
	return job.Clone(), nil
}

// DeleteBySession drops every job the session started
func (r *UploadJobRepository) DeleteBySession(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, owner := range r.owner {
		if owner == sessionID {
			delete(r.jobs, id)
			delete(r.owner, id)
		}
	}
}
