package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aniket3077/mailcheck/internal/api/response"
	"github.com/aniket3077/mailcheck/internal/store"
	"github.com/aniket3077/mailcheck/internal/verify"
	"github.com/aniket3077/mailcheck/pkg/models"
)

// Verifier defines the service interface the handlers depend on.
type Verifier interface {
	VerifyAddresses(ctx context.Context, addresses []string, sourceLabel string) (*verify.SubmitResult, error)
	VerifyText(ctx context.Context, text, sourceLabel string) (*verify.SubmitResult, error)
	VerifyFile(ctx context.Context, name, content, mimeType string) (*verify.SubmitResult, error)
	Job(ctx context.Context, id string) (*models.VerificationJob, error)
	ListJobs(ctx context.Context, page, limit int) ([]*models.VerificationJob, int, error)
}

// NewVerifyHandler returns the handler for POST /api/v1/verify. The
// body carries either an explicit address list or raw pasted text.
func NewVerifyHandler(svc Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Emails      []string `json:"emails"`
			Text        string   `json:"text"`
			SourceLabel string   `json:"source_label"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		var (
			result *verify.SubmitResult
			err    error
		)
		switch {
		case len(req.Emails) > 0:
			result, err = svc.VerifyAddresses(r.Context(), req.Emails, req.SourceLabel)
		case req.Text != "":
			result, err = svc.VerifyText(r.Context(), req.Text, req.SourceLabel)
		default:
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "emails or text is required", nil)
			return
		}
		if err != nil {
			writeSubmitError(w, err)
			return
		}

		response.Created(w, result)
	}
}

// NewVerifyFileHandler returns the handler for POST /api/v1/verify/file.
func NewVerifyFileHandler(svc Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Content  string `json:"content"`
			MimeType string `json:"mime_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if req.Content == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "content is required", nil)
			return
		}

		result, err := svc.VerifyFile(r.Context(), req.Name, req.Content, req.MimeType)
		if err != nil {
			writeSubmitError(w, err)
			return
		}

		response.Created(w, result)
	}
}

// NewGetJobHandler returns the handler for GET /api/v1/verifications/{jobID}.
func NewGetJobHandler(svc Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		job, err := svc.Job(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND",
					"No verification job with that id", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, job)
	}
}

// NewListJobsHandler returns the handler for GET /api/v1/verifications.
func NewListJobsHandler(svc Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", store.DefaultPageLimit)
		page, limit = store.NormalizePage(page, limit)

		jobs, total, err := svc.ListJobs(r.Context(), page, limit)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.Collection(w, jobs, response.NewPaginationMeta(page, limit, total))
	}
}

func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, verify.ErrEmptyBatch):
		response.Error(w, http.StatusBadRequest, "EMPTY_BATCH",
			"No addresses could be extracted from the input", nil)
	case errors.Is(err, verify.ErrBatchTooLarge):
		response.Error(w, http.StatusBadRequest, "BATCH_TOO_LARGE",
			"Too many addresses in one batch", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error(w, http.StatusRequestTimeout, "REQUEST_CANCELLED",
			"The verification was cancelled before it completed", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
