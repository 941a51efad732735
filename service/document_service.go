package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"nyayasetu-web/backend"
	"nyayasetu-web/models"
	"nyayasetu-web/repository"
	"nyayasetu-web/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// DocumentBackend ingests and queries session documents
type DocumentBackend interface {
	Ingest(ctx context.Context, req backend.IngestRequest) (*backend.IngestResult, error)
	QueryDocument(ctx context.Context, documentSetID, query string) (string, error)
}

// DocumentService drives the document Q&A page. Uploads are staged, then
// sent to the document backend one file at a time by a background worker
type DocumentService struct {
	backend     DocumentBackend
	storage     storage.Storage
	jobs        *repository.UploadJobRepository
	gate        *Gate
	maxFileSize int64
	logger      *zap.Logger

	// workers run under baseCtx so shutdown can stop a batch midway
	baseCtx context.Context
	wg      sync.WaitGroup
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// DocumentWithBackend sets the document backend client
func DocumentWithBackend(b DocumentBackend) DocumentServiceOption {
	return func(s *DocumentService) {
		s.backend = b
	}
}

// DocumentWithStorage sets where uploads are staged
func DocumentWithStorage(st storage.Storage) DocumentServiceOption {
	return func(s *DocumentService) {
		s.storage = st
	}
}

// DocumentWithUploadJobRepository sets the upload job store
func DocumentWithUploadJobRepository(repo *repository.UploadJobRepository) DocumentServiceOption {
	return func(s *DocumentService) {
		s.jobs = repo
	}
}

// DocumentWithGate shares an in-flight gate with other services
func DocumentWithGate(g *Gate) DocumentServiceOption {
	return func(s *DocumentService) {
		s.gate = g
	}
}

// DocumentWithMaxFileSize sets the per-file size limit in bytes
func DocumentWithMaxFileSize(n int64) DocumentServiceOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// DocumentWithLogger sets the logger
func DocumentWithLogger(logger *zap.Logger) DocumentServiceOption {
	return func(s *DocumentService) {
		s.logger = logger
	}
}

// DocumentWithContext sets the context upload workers run under
func DocumentWithContext(ctx context.Context) DocumentServiceOption {
	return func(s *DocumentService) {
		s.baseCtx = ctx
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{
		gate:        NewGate(),
		maxFileSize: defaultMaxFileSize,
		logger:      zap.NewNop(),
		baseCtx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.jobs == nil {
		s.jobs = repository.NewUploadJobRepository()
	}
	return s
}

// UploadFile is one file posted by the browser
type UploadFile struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// StartUploadRequest represents an upload batch
type StartUploadRequest struct {
	SessionID     uuid.UUID
	DocumentSetID uuid.UUID
	Files         []UploadFile
	// Reset clears the document set before the first file is ingested
	Reset bool
}

// StartUpload validates and stages every file, then ingests them in the
// background. It returns as soon as the job is registered; poll Job for
// progress. Only one batch per session runs at a time
func (s *DocumentService) StartUpload(ctx context.Context, req StartUploadRequest) (*models.UploadJob, error) {
	if s.backend == nil {
		return nil, errors.New("document backend not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}

	if len(req.Files) == 0 {
		return nil, invalidFile("MISSING_FILE", "Please select at least one file")
	}
	mimeTypes := make([]string, len(req.Files))
	for i, f := range req.Files {
		if f.Size > s.maxFileSize {
			return nil, invalidFile("FILE_TOO_LARGE", fmt.Sprintf("%s exceeds the maximum size of %d bytes", f.Filename, s.maxFileSize))
		}
		mimeTypes[i] = storage.DetectMimeType(f.MimeType, f.Filename)
		if !storage.Accepted(mimeTypes[i]) {
			return nil, invalidFile("INVALID_FILE_TYPE", fmt.Sprintf("%s: file type not allowed. Allowed types: PDF, TXT, DOC, DOCX", f.Filename))
		}
	}

	release, err := s.gate.Enter(req.SessionID, PageDocuments)
	if err != nil {
		return nil, err
	}

	staged, err := s.stage(ctx, req.Files, mimeTypes)
	if err != nil {
		release()
		return nil, err
	}

	job := s.jobs.Create(req.SessionID, req.DocumentSetID, staged, req.Reset)
	s.logger.Info("upload batch started",
		zap.String("job_id", job.ID.String()),
		zap.String("session_id", req.SessionID.String()),
		zap.Int("files", len(staged)))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer release()
		s.processUpload(s.baseCtx, job)
	}()

	return job, nil
}

func (s *DocumentService) stage(ctx context.Context, files []UploadFile, mimeTypes []string) ([]models.StagedFile, error) {
	staged := make([]models.StagedFile, 0, len(files))
	for i, f := range files {
		id := uuid.New()
		path, err := s.storage.Put(ctx, id, f.Filename, f.Body)
		if err != nil {
			s.unstage(staged)
			return nil, fmt.Errorf("failed to stage %s: %w", f.Filename, err)
		}
		staged = append(staged, models.StagedFile{
			ID:          id,
			Filename:    f.Filename,
			MimeType:    mimeTypes[i],
			Size:        f.Size,
			StoragePath: path,
		})
	}
	return staged, nil
}

func (s *DocumentService) unstage(files []models.StagedFile) {
	for _, f := range files {
		if err := s.storage.Delete(context.Background(), f.StoragePath); err != nil {
			s.logger.Warn("failed to remove staged file", zap.String("path", f.StoragePath), zap.Error(err))
		}
	}
}

// processUpload ingests the job's files strictly in order. A failed file
// is recorded and the batch moves on
func (s *DocumentService) processUpload(ctx context.Context, job *models.UploadJob) {
	defer s.unstage(stagedFiles(job))

	for i, step := range job.Steps {
		step.Status = models.UploadInProgress
		s.updateStep(job.ID, i, step)

		if err := ctx.Err(); err != nil {
			step.Status = models.UploadFailed
			step.Error = "Upload cancelled"
			s.updateStep(job.ID, i, step)
			continue
		}

		result, err := s.ingest(ctx, job.DocumentSetID, step.File, job.ResetFirst && i == 0)
		if err != nil {
			step.Status = models.UploadFailed
			step.Error = backend.UserMessage(err)
			s.logger.Warn("document ingest failed",
				zap.String("job_id", job.ID.String()),
				zap.String("filename", step.File.Filename),
				zap.Error(err))
		} else {
			step.Status = models.UploadCompleted
			step.Message = result.Message
			step.Chunks = result.Chunks
		}
		s.updateStep(job.ID, i, step)
	}

	final, err := s.jobs.Finish(job.ID)
	if err != nil {
		// the session expired while the batch was running
		return
	}
	done, total := final.Progress()
	s.logger.Info("upload batch finished",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(final.Status)),
		zap.Int("processed", done),
		zap.Int("files", total))
}

func (s *DocumentService) ingest(ctx context.Context, documentSetID uuid.UUID, f models.StagedFile, reset bool) (*backend.IngestResult, error) {
	body, err := s.storage.Open(ctx, f.StoragePath)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.backend.Ingest(ctx, backend.IngestRequest{
		DocumentSetID: documentSetID.String(),
		Filename:      f.Filename,
		Reset:         reset,
		Body:          body,
	})
}

func (s *DocumentService) updateStep(jobID uuid.UUID, index int, step models.UploadStep) {
	if err := s.jobs.UpdateStep(jobID, index, step); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("failed to update upload step", zap.String("job_id", jobID.String()), zap.Error(err))
	}
}

func stagedFiles(job *models.UploadJob) []models.StagedFile {
	files := make([]models.StagedFile, len(job.Steps))
	for i, step := range job.Steps {
		files[i] = step.File
	}
	return files
}

// Job returns the progress of one of the session's upload batches
func (s *DocumentService) Job(sessionID, jobID uuid.UUID) (*models.UploadJob, error) {
	job, err := s.jobs.GetByID(sessionID, jobID)
	if err != nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Jobs lists the session's upload batches, oldest first
func (s *DocumentService) Jobs(sessionID uuid.UUID) []*models.UploadJob {
	return s.jobs.ListBySession(sessionID)
}

// DocumentQueryRequest represents a question about the uploaded documents
type DocumentQueryRequest struct {
	SessionID     uuid.UUID
	DocumentSetID uuid.UUID
	Question      string
}

// Query asks the document backend about the session's document set
func (s *DocumentService) Query(ctx context.Context, req DocumentQueryRequest) (string, error) {
	if s.backend == nil {
		return "", errors.New("document backend not set")
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", invalid("Please enter a question")
	}

	release, err := s.gate.Enter(req.SessionID, PageDocQuery)
	if err != nil {
		return "", err
	}
	defer release()

	return s.backend.QueryDocument(ctx, req.DocumentSetID.String(), question)
}

// Busy reports whether the session has an upload batch running
func (s *DocumentService) Busy(sessionID uuid.UUID) bool {
	return s.gate.Busy(sessionID, PageDocuments)
}

// Forget drops the upload history of an expired session
func (s *DocumentService) Forget(sessionID uuid.UUID) {
	s.jobs.DeleteBySession(sessionID)
}

// Wait blocks until every running upload batch has finished
func (s *DocumentService) Wait() {
	s.wg.Wait()
}
