package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aniket3077/mailcheck/internal/cache"
	"github.com/aniket3077/mailcheck/internal/ingest"
	"github.com/aniket3077/mailcheck/internal/store"
	"github.com/aniket3077/mailcheck/pkg/models"
)

// ErrEmptyBatch is returned when a submission yields zero addresses
// after normalization. An empty batch never becomes a job.
var ErrEmptyBatch = errors.New("no addresses to verify")

// ErrBatchTooLarge is returned when a submission exceeds the configured
// batch-size cap.
var ErrBatchTooLarge = errors.New("batch exceeds maximum size")

const summaryCacheTTL = 24 * time.Hour

// SubmitResult is the fast-path response for a submission: the id to
// poll plus the aggregate summary, without the per-address results.
type SubmitResult struct {
	JobID   string                     `json:"job_id"`
	Summary models.VerificationSummary `json:"summary"`
}

// Service wires the batch orchestrator to the job store. Submissions
// are classified synchronously; the stored job is always completed.
type Service struct {
	batch        *Batch
	store        store.Store
	cache        cache.Cache // optional, may be nil
	maxBatchSize int
}

func NewService(batch *Batch, st store.Store, c cache.Cache, maxBatchSize int) *Service {
	return &Service{batch: batch, store: st, cache: c, maxBatchSize: maxBatchSize}
}

// VerifyAddresses classifies an already-normalized address list and
// stores the resulting job. The addresses are classified as submitted;
// blanks that slipped past the caller come back invalid.
func (s *Service) VerifyAddresses(ctx context.Context, addresses []string, sourceLabel string) (*SubmitResult, error) {
	if len(addresses) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(addresses) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d addresses, limit %d", ErrBatchTooLarge, len(addresses), s.maxBatchSize)
	}

	job := &models.VerificationJob{
		ID:          models.NewJobID(),
		Status:      models.JobStatusPending,
		SourceLabel: sourceLabel,
		CreatedAt:   time.Now().UTC(),
	}

	results, summary, err := s.batch.Run(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}

	job.Results = results
	job.Summary = summary
	job.Status = models.JobStatusCompleted

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("store job: %w", err)
	}

	s.cacheSummary(ctx, job.ID, summary)

	slog.Info("batch verified",
		"job_id", job.ID,
		"total", summary.Total,
		"valid", summary.Valid,
		"invalid", summary.Invalid,
		"risky", summary.Risky,
	)

	return &SubmitResult{JobID: job.ID, Summary: summary}, nil
}

// VerifyText runs the raw-text adapter over pasted input, then the
// normal submission path.
func (s *Service) VerifyText(ctx context.Context, text, sourceLabel string) (*SubmitResult, error) {
	return s.VerifyAddresses(ctx, ingest.SplitRaw(text), sourceLabel)
}

// VerifyFile runs the file adapter over uploaded content, then the
// normal submission path. The filename doubles as the source label.
func (s *Service) VerifyFile(ctx context.Context, name, content, mimeType string) (*SubmitResult, error) {
	return s.VerifyAddresses(ctx, ingest.SplitFile(name, content, mimeType), name)
}

// Job returns a stored job by id, or store.ErrNotFound.
func (s *Service) Job(ctx context.Context, id string) (*models.VerificationJob, error) {
	return s.store.GetJob(ctx, id)
}

// ListJobs returns one page of job history, most recent first, plus the
// total count.
func (s *Service) ListJobs(ctx context.Context, page, limit int) ([]*models.VerificationJob, int, error) {
	return s.store.ListJobs(ctx, page, limit)
}

// cacheSummary writes the summary to Redis for fast status polling.
// Best effort: a cache failure never fails the submission.
func (s *Service) cacheSummary(ctx context.Context, jobID string, summary models.VerificationSummary) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.SetJobSummary(ctx, jobID, payload, summaryCacheTTL); err != nil {
		slog.Warn("cache job summary", "job_id", jobID, "error", err)
	}
}
