package verify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aniket3077/mailcheck/pkg/models"
)

const checkAttempts = 2

// Checker evaluates one address. The rule-based Classifier satisfies it
// without blocking; a future MX/SMTP probe would implement the same
// interface and may fail or time out.
type Checker interface {
	Check(ctx context.Context, address string) (models.EmailResult, error)
}

// Check implements Checker. The classifier never suspends and never
// fails, so the context is not consulted.
func (c *Classifier) Check(_ context.Context, address string) (models.EmailResult, error) {
	return c.Classify(address), nil
}

// Batch runs a Checker over an address list with bounded concurrency.
type Batch struct {
	checker      Checker
	workers      int
	checkTimeout time.Duration
}

// NewBatch creates a batch orchestrator. workers caps in-flight checks;
// checkTimeout bounds each individual check (0 means no bound).
func NewBatch(checker Checker, workers int, checkTimeout time.Duration) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{checker: checker, workers: workers, checkTimeout: checkTimeout}
}

// Run classifies every address and computes the aggregate summary.
// Results are written by input index, so the returned slice matches
// submission order exactly regardless of completion order. Addresses
// are not deduplicated and blanks are not dropped; they fail the syntax
// rule and come back invalid.
//
// A cancelled context rejects the whole batch: Run returns ctx.Err()
// and no partial results.
func (b *Batch) Run(ctx context.Context, addresses []string) ([]models.EmailResult, models.VerificationSummary, error) {
	results := make([]models.EmailResult, len(addresses))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = b.checkOne(ctx, addresses[i])
			}
		}()
	}

feed:
	for i := range addresses {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, models.VerificationSummary{}, err
	}

	return results, Summarize(results), nil
}

// checkOne runs a single check with a per-address timeout and one
// bounded retry for transient failures. A check that still fails
// resolves to a risky verdict rather than failing the batch.
func (b *Batch) checkOne(ctx context.Context, address string) models.EmailResult {
	for attempt := 0; attempt < checkAttempts; attempt++ {
		result, err := b.attemptCheck(ctx, address)
		if err == nil {
			return result
		}
		if ctx.Err() != nil {
			break
		}
		slog.Warn("address check failed", "attempt", attempt+1, "error", err)
	}
	return models.EmailResult{
		Address: address,
		Status:  models.StatusRisky,
		Score:   50,
		Reason:  ReasonCheckIncomplete,
	}
}

func (b *Batch) attemptCheck(ctx context.Context, address string) (models.EmailResult, error) {
	if b.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.checkTimeout)
		defer cancel()
	}
	return b.checker.Check(ctx, address)
}

// Summarize counts statuses over a result set.
func Summarize(results []models.EmailResult) models.VerificationSummary {
	summary := models.VerificationSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case models.StatusValid:
			summary.Valid++
		case models.StatusInvalid:
			summary.Invalid++
		case models.StatusRisky:
			summary.Risky++
		}
	}
	return summary
}
