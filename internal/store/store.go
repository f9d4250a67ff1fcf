package store

import (
	"context"
	"errors"

	"github.com/aniket3077/mailcheck/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateID = errors.New("duplicate job id")

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Store is the job persistence interface. Implementations own the
// stored jobs exclusively: callers always receive copies and stored
// jobs are never mutated after CreateJob.
type Store interface {
	Ping(ctx context.Context) error
	CreateJob(ctx context.Context, job *models.VerificationJob) error
	GetJob(ctx context.Context, id string) (*models.VerificationJob, error)
	// ListJobs returns one page ordered by creation time descending,
	// plus the total job count. page and limit are 1-indexed; a page
	// past the end yields an empty slice, not an error.
	ListJobs(ctx context.Context, page, limit int) ([]*models.VerificationJob, int, error)
}

// NormalizePage clamps pagination parameters to sane bounds.
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
