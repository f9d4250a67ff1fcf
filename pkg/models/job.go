package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
)

// VerificationJob is the persisted record of one batch run. Results keep
// submission order; the job is immutable once stored.
type VerificationJob struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	Results     []EmailResult       `json:"results"`
	Summary     VerificationSummary `json:"summary"`
	SourceLabel string              `json:"source_label,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewJobID returns a fresh job identifier: a base36 millisecond
// timestamp for debuggability plus a random suffix so concurrent
// submissions within the same instant never collide.
func NewJobID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return "vr-" + ts + "-" + suffix
}
