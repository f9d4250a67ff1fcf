package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniket3077/mailcheck/internal/store"
	"github.com/aniket3077/mailcheck/pkg/models"
)

func testJob(id string, createdAt time.Time) *models.VerificationJob {
	return &models.VerificationJob{
		ID:     id,
		Status: models.JobStatusCompleted,
		Results: []models.EmailResult{
			{Address: "alice@gmail.com", Status: models.StatusValid, Score: 85},
		},
		Summary:   models.VerificationSummary{Total: 1, Valid: 1},
		CreatedAt: createdAt,
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	job := testJob("vr-1", time.Now().UTC())
	require.NoError(t, s.CreateJob(ctx, job))

	got, err := s.GetJob(ctx, "vr-1")
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.Summary, got.Summary)
	assert.Equal(t, job.Results, got.Results)
}

func TestMemoryStore_GetJob_NotFound(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.GetJob(context.Background(), "vr-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_DuplicateID(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.CreateJob(ctx, testJob("vr-1", now)))
	assert.ErrorIs(t, s.CreateJob(ctx, testJob("vr-1", now)), store.ErrDuplicateID)
}

func TestMemoryStore_CopyIsolation(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	original := testJob("vr-1", time.Now().UTC())
	require.NoError(t, s.CreateJob(ctx, original))

	// Mutating the submitted job must not change the stored one
	original.Results[0].Address = "mutated@evil.com"
	original.Summary.Total = 99

	got, err := s.GetJob(ctx, "vr-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@gmail.com", got.Results[0].Address)
	assert.Equal(t, 1, got.Summary.Total)

	// Mutating a returned job must not change the stored one either
	got.Results[0].Address = "also-mutated@evil.com"

	again, err := s.GetJob(ctx, "vr-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@gmail.com", again.Results[0].Address)
}

func TestMemoryStore_ListJobs_Ordering(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.CreateJob(ctx, testJob("vr-old", base.Add(-2*time.Hour))))
	require.NoError(t, s.CreateJob(ctx, testJob("vr-new", base)))
	require.NoError(t, s.CreateJob(ctx, testJob("vr-mid", base.Add(-1*time.Hour))))

	jobs, total, err := s.ListJobs(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, jobs, 3)
	assert.Equal(t, "vr-new", jobs[0].ID)
	assert.Equal(t, "vr-mid", jobs[1].ID)
	assert.Equal(t, "vr-old", jobs[2].ID)
}

func TestMemoryStore_ListJobs_SameInstantUsesInsertionOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.CreateJob(ctx, testJob("vr-first", now)))
	require.NoError(t, s.CreateJob(ctx, testJob("vr-second", now)))

	jobs, _, err := s.ListJobs(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "vr-second", jobs[0].ID, "later insertion wins the tie")
}

func TestMemoryStore_ListJobs_PaginationInvariant(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	const total = 23
	const limit = 5
	for i := 0; i < total; i++ {
		job := testJob(fmt.Sprintf("vr-%02d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.CreateJob(ctx, job))
	}

	pages := (total + limit - 1) / limit
	seen := make(map[string]bool)
	counted := 0
	for p := 1; p <= pages; p++ {
		jobs, gotTotal, err := s.ListJobs(ctx, p, limit)
		require.NoError(t, err)
		assert.Equal(t, total, gotTotal)
		for _, j := range jobs {
			assert.False(t, seen[j.ID], "job %s appeared on two pages", j.ID)
			seen[j.ID] = true
		}
		counted += len(jobs)
	}
	assert.Equal(t, total, counted, "sum of page sizes must equal total")
}

func TestMemoryStore_ListJobs_PageBeyondRange(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, testJob("vr-1", time.Now().UTC())))

	jobs, total, err := s.ListJobs(ctx, 99, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, jobs)
}

func TestMemoryStore_ListJobs_NormalizesParams(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, testJob("vr-1", time.Now().UTC())))

	jobs, _, err := s.ListJobs(ctx, 0, -5)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestMemoryStore_ConcurrentSubmitDistinctIDs(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateJob(ctx, testJob(models.NewJobID(), time.Now().UTC()))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err, "concurrent submissions must produce distinct ids")
	}

	_, total, err := s.ListJobs(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, n, total)
}
