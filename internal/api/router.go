package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/aniket3077/mailcheck/internal/api/middleware"
	"github.com/aniket3077/mailcheck/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler     http.HandlerFunc
	VerifyHandler     http.HandlerFunc
	VerifyFileHandler http.HandlerFunc
	GetJobHandler     http.HandlerFunc
	ListJobsHandler   http.HandlerFunc
}

// NewRouter builds the Chi router with the middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/verify", orNotImplemented(deps.VerifyHandler))
		r.Post("/api/v1/verify/file", orNotImplemented(deps.VerifyFileHandler))

		r.Get("/api/v1/verifications", orNotImplemented(deps.ListJobsHandler))
		r.Get("/api/v1/verifications/{jobID}", orNotImplemented(deps.GetJobHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
