package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aniket3077/mailcheck/pkg/models"
)

// PostgresStore implements Store using pgx/v5. Per-address results are
// stored as a JSONB document alongside the summary columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.VerificationJob) error {
	results, err := json.Marshal(job.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO verification_jobs (id, status, source_label, results, total, valid, invalid, risky, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.Status, job.SourceLabel, results,
		job.Summary.Total, job.Summary.Valid, job.Summary.Invalid, job.Summary.Risky,
		job.CreatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*models.VerificationJob, error) {
	var (
		job     models.VerificationJob
		results []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, status, source_label, results, total, valid, invalid, risky, created_at
		 FROM verification_jobs WHERE id = $1`, id,
	).Scan(&job.ID, &job.Status, &job.SourceLabel, &results,
		&job.Summary.Total, &job.Summary.Valid, &job.Summary.Invalid, &job.Summary.Risky,
		&job.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if err := json.Unmarshal(results, &job.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &job, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, page, limit int) ([]*models.VerificationJob, int, error) {
	page, limit = NormalizePage(page, limit)

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM verification_jobs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, source_label, results, total, valid, invalid, risky, created_at
		 FROM verification_jobs ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.VerificationJob, 0, limit)
	for rows.Next() {
		var (
			job     models.VerificationJob
			results []byte
		)
		if err := rows.Scan(&job.ID, &job.Status, &job.SourceLabel, &results,
			&job.Summary.Total, &job.Summary.Valid, &job.Summary.Invalid, &job.Summary.Risky,
			&job.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		if err := json.Unmarshal(results, &job.Results); err != nil {
			return nil, 0, fmt.Errorf("unmarshal results: %w", err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, total, rows.Err()
}
