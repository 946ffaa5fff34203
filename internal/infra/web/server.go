package web

import (
	"context"
	"net/http"
	"time"

	infraredis "media-analysis-api/internal/infra/redis"
	"media-analysis-api/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger is what the detailed health check needs from a dependency.
// *pgxpool.Pool and the redis client wrapper both satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the HTTP layer is wired with. Auth, RateLimiter
// and Cache are optional; nil disables the corresponding feature.
type Deps struct {
	JobUC           usecase.JobUseCase
	MediaUC         usecase.MediaFileUseCase
	ResultUC        usecase.ResultUseCase
	TranscriptionUC usecase.TranscriptionUseCase
	LogUC           usecase.ProcessingLogUseCase

	Auth      *AuthManager
	AdminUser string
	AdminPass string

	RateLimiter *infraredis.RateLimiter
	RateLimit   int
	RateWindow  time.Duration

	DB    Pinger
	Cache Pinger

	Logger *zerolog.Logger
}

type Server struct {
	deps Deps
	log  *zerolog.Logger
}

func NewServer(deps Deps) *Server {
	return &Server{deps: deps, log: deps.Logger}
}

// Routes builds the chi router: middleware chain, infrastructure endpoints
// and the versioned API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(s.log))
	r.Use(loggingMiddleware(s.log))
	if s.deps.RateLimiter != nil {
		r.Use(rateLimitMiddleware(s.deps.RateLimiter, s.deps.RateLimit, s.deps.RateWindow, s.log))
	}

	r.Get("/", rootHandler())
	r.Get("/health", healthHandler())
	r.Get("/health/detailed", healthDetailedHandler(s.deps.DB, s.deps.Cache))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", loginHandler(s.deps.Auth, s.deps.AdminUser, s.deps.AdminPass))

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobsListHandler(s.deps.JobUC))
			r.Post("/", jobsCreateHandler(s.deps.JobUC))
			r.Get("/pending", jobsPendingHandler(s.deps.JobUC))
			r.Get("/recent", jobsRecentHandler(s.deps.JobUC))
			r.Get("/statistics", jobsStatisticsHandler(s.deps.JobUC))
			r.Get("/stale", jobsStaleHandler(s.deps.JobUC))
			r.Get("/search", jobsSearchHandler(s.deps.JobUC))
			r.Post("/claim", jobsClaimHandler(s.deps.JobUC))

			r.Route("/{jobID}", func(r chi.Router) {
				r.Get("/", jobGetHandler(s.deps.JobUC))
				r.Patch("/", jobUpdateHandler(s.deps.JobUC))
				r.Delete("/", jobDeleteHandler(s.deps.JobUC, s.deps.Auth))
				r.Post("/processing", jobTransitionHandler(s.deps.JobUC, transitionProcessing))
				r.Post("/complete", jobTransitionHandler(s.deps.JobUC, transitionComplete))
				r.Post("/fail", jobFailHandler(s.deps.JobUC))
				r.With(s.adminOnly).Post("/restore", jobRestoreHandler(s.deps.JobUC))

				r.Get("/media-files", mediaFilesByJobHandler(s.deps.MediaUC))
				r.Post("/media-files", mediaFileCreateHandler(s.deps.MediaUC))
				r.Get("/media-files/summary", mediaFilesSummaryHandler(s.deps.MediaUC))

				r.Get("/results", resultsByJobHandler(s.deps.ResultUC))
				r.Post("/results", resultCreateHandler(s.deps.ResultUC))
				r.Get("/results/summary", resultsSummaryHandler(s.deps.ResultUC))

				r.Get("/transcriptions", transcriptionsByJobHandler(s.deps.TranscriptionUC))
				r.Post("/transcriptions", transcriptionCreateHandler(s.deps.TranscriptionUC))
				r.Get("/transcriptions/summary", transcriptionsSummaryHandler(s.deps.TranscriptionUC))
				r.Get("/transcriptions/segments", transcriptionsWithSegmentsHandler(s.deps.TranscriptionUC))

				r.Get("/logs", logsByJobHandler(s.deps.LogUC))
				r.Post("/logs", logCreateHandler(s.deps.LogUC))
				r.Get("/logs/failures", logFailuresHandler(s.deps.LogUC))
				r.Get("/logs/latest", logLatestHandler(s.deps.LogUC))
			})
		})

		r.Route("/media-files", func(r chi.Router) {
			r.Get("/search", mediaFilesSearchHandler(s.deps.MediaUC))
			r.Get("/{id}", mediaFileGetHandler(s.deps.MediaUC))
			r.Post("/{id}/status", mediaFileStatusHandler(s.deps.MediaUC))
			r.Delete("/{id}", mediaFileDeleteHandler(s.deps.MediaUC))
			r.With(s.adminOnly).Post("/{id}/restore", mediaFileRestoreHandler(s.deps.MediaUC))
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/statistics", resultsStatisticsHandler(s.deps.ResultUC))
			r.Get("/high-confidence", resultsHighConfidenceHandler(s.deps.ResultUC))
			r.Get("/latest", resultsLatestHandler(s.deps.ResultUC))
			r.Get("/{id}", resultGetHandler(s.deps.ResultUC))
			r.Delete("/{id}", resultDeleteHandler(s.deps.ResultUC))
			r.With(s.adminOnly).Post("/{id}/restore", resultRestoreHandler(s.deps.ResultUC))
		})

		r.Route("/transcriptions", func(r chi.Router) {
			r.Get("/statistics", transcriptionsStatisticsHandler(s.deps.TranscriptionUC))
			r.Get("/search", transcriptionsSearchHandler(s.deps.TranscriptionUC))
			r.Get("/{id}", transcriptionGetHandler(s.deps.TranscriptionUC))
			r.Delete("/{id}", transcriptionDeleteHandler(s.deps.TranscriptionUC))
			r.Post("/{id}/text", transcriptionTextHandler(s.deps.TranscriptionUC))
			r.With(s.adminOnly).Post("/{id}/restore", transcriptionRestoreHandler(s.deps.TranscriptionUC))
		})

		r.Get("/logs/{id}", logGetHandler(s.deps.LogUC))
	})

	return r
}

// adminOnly guards destructive endpoints. With auth disabled (nil manager)
// everything is open; intended for local development only.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Auth != nil {
			if _, err := s.deps.Auth.ParseFromRequest(r); err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
