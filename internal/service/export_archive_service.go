package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
	"github.com/flightdeskhq/flightdesk-api/pkg/jobs"
	"github.com/flightdeskhq/flightdesk-api/pkg/storage"
)

// ArchiveConfig controls the on-disk archive of generated roster sheets.
type ArchiveConfig struct {
	ArchiveTTL   time.Duration
	QueueWorkers int
}

type archivePayload struct {
	RelPath string
	Content []byte
}

// ExportArchiveService keeps a copy of every generated roster sheet on
// disk and hands out signed, expiring download tokens for them. Writes
// happen off the request path through a worker queue.
type ExportArchiveService struct {
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	queue  *jobs.Queue
	ttl    time.Duration
	logger *zap.Logger
}

// NewExportArchiveService builds the archive service. Call Start before
// archiving and Stop on shutdown.
func NewExportArchiveService(store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ArchiveConfig, logger *zap.Logger) *ExportArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportArchiveService{
		store:  store,
		signer: signer,
		ttl:    cfg.ArchiveTTL,
		logger: logger,
	}
	s.queue = jobs.NewQueue("export-archive", s.persist, jobs.QueueConfig{
		Workers: cfg.QueueWorkers,
		Logger:  logger,
	})
	return s
}

// Start launches the archive workers and the periodic cleanup loop.
func (s *ExportArchiveService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.ttl > 0 {
		go s.cleanupLoop(ctx)
	}
}

// Stop drains the archive workers.
func (s *ExportArchiveService) Stop() {
	s.queue.Stop()
}

// Archive enqueues an async write of the rendered sheet and returns a
// signed token the caller can redeem to re-download the archived copy.
func (s *ExportArchiveService) Archive(tenantID string, result *ExportResult) (string, error) {
	jobID := uuid.NewString()
	relPath := path.Join(tenantID, jobID+"-"+result.Filename)

	token, _, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return "", fmt.Errorf("sign archive token: %w", err)
	}

	content := make([]byte, len(result.Content))
	copy(content, result.Content)

	err = s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "archive-export",
		Payload: archivePayload{RelPath: relPath, Content: content},
	})
	if err != nil {
		return "", fmt.Errorf("enqueue archive job: %w", err)
	}
	return token, nil
}

// Open validates the token and returns a reader over the archived file
// together with its content type and download filename.
func (s *ExportArchiveService) Open(token string) (io.ReadCloser, string, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "archived export not found")
	}
	filename := path.Base(relPath)
	return file, contentTypeFor(filename), filename, nil
}

func (s *ExportArchiveService) persist(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	if _, err := s.store.Save(payload.RelPath, payload.Content); err != nil {
		return err
	}
	s.logger.Sugar().Debugw("export archived", "job_id", job.ID, "path", payload.RelPath)
	return nil
}

func (s *ExportArchiveService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.ttl)
			if err != nil {
				s.logger.Sugar().Warnw("export archive cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				s.logger.Sugar().Infow("export archive cleaned", "deleted", len(deleted))
			}
		}
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
