package store

import (
	"context"
	"sort"
	"sync"

	"github.com/aniket3077/mailcheck/pkg/models"
)

// MemoryStore keeps jobs in process memory. It is the default backend:
// the service's current scope has no persistence beyond process
// lifetime and no eviction. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*memoryJob
	seq  int64
}

// memoryJob pairs a stored job with its insertion sequence, used as a
// tiebreaker when two jobs share a creation timestamp.
type memoryJob struct {
	job *models.VerificationJob
	seq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*memoryJob)}
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) CreateJob(_ context.Context, job *models.VerificationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return ErrDuplicateID
	}
	s.seq++
	s.jobs[job.ID] = &memoryJob{job: copyJob(job), seq: s.seq}
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id string) (*models.VerificationJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyJob(entry.job), nil
}

func (s *MemoryStore) ListJobs(_ context.Context, page, limit int) ([]*models.VerificationJob, int, error) {
	page, limit = NormalizePage(page, limit)

	s.mu.RLock()
	entries := make([]*memoryJob, 0, len(s.jobs))
	for _, e := range s.jobs {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].job.CreatedAt.Equal(entries[j].job.CreatedAt) {
			return entries[i].job.CreatedAt.After(entries[j].job.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	total := len(entries)
	start := (page - 1) * limit
	if start >= total {
		return []*models.VerificationJob{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	jobs := make([]*models.VerificationJob, 0, end-start)
	for _, e := range entries[start:end] {
		jobs = append(jobs, copyJob(e.job))
	}
	return jobs, total, nil
}

// copyJob deep-copies a job so neither side can mutate the other's view.
func copyJob(job *models.VerificationJob) *models.VerificationJob {
	dup := *job
	dup.Results = make([]models.EmailResult, len(job.Results))
	copy(dup.Results, job.Results)
	return &dup
}
