package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// idParam pulls a path parameter and rejects anything that is not a UUID.
func idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "malformed id")
		return "", false
	}
	return id, true
}

// jobDetailResponse nests everything hanging off the job.
type jobDetailResponse struct {
	*model.AnalysisJob
	MediaFiles     []*model.MediaFile      `json:"media_files"`
	Results        []*model.AnalysisResult `json:"results"`
	Transcriptions []*model.Transcription  `json:"transcriptions"`
	Logs           []*model.ProcessingLog  `json:"logs"`
}

func jobsListHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize, offset := pageParams(r)

		filters := map[string]interface{}{}
		if status := r.URL.Query().Get("status"); status != "" {
			if !model.JobStatus(status).Valid() {
				writeFieldError(w, "unknown job status", "status")
				return
			}
			filters["status"] = status
		}
		if mediaType := r.URL.Query().Get("media_type"); mediaType != "" {
			if !model.MediaType(mediaType).Valid() {
				writeFieldError(w, "unknown media type", "media_type")
				return
			}
			filters["media_type"] = mediaType
		}

		opts := repository.ListOptions{
			Filters:    filters,
			Offset:     offset,
			Limit:      pageSize,
			OrderBy:    "created_at",
			Descending: true,
		}
		items, total, err := jobUC.List(r.Context(), opts)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(items, len(items), total, page, pageSize))
	}
}

func jobsCreateHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		job, err := jobUC.Create(r.Context(), model.MediaType(req.MediaType), req.SourceURL, req.Metadata)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, job)
	}
}

func jobGetHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		full, err := jobUC.GetWithRelations(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, jobDetailResponse{
			AnalysisJob:    full.Job,
			MediaFiles:     full.MediaFiles,
			Results:        full.Results,
			Transcriptions: full.Transcriptions,
			Logs:           full.Logs,
		})
	}
}

func jobUpdateHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var req jobUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		patch := repository.JobPatch{
			CompletedAt:  req.CompletedAt,
			ErrorMessage: req.ErrorMessage,
			Metadata:     req.Metadata,
		}
		if req.Status != nil {
			status := model.JobStatus(*req.Status)
			patch.Status = &status
		}
		job, err := jobUC.Update(r.Context(), id, patch)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func jobDeleteHandler(jobUC usecase.JobUseCase, auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		soft := true
		if v := r.URL.Query().Get("soft"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "soft must be a boolean")
				return
			}
			soft = parsed
		}

		if soft {
			if err := jobUC.Delete(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Hard delete is irreversible; only admins may do it.
		if auth != nil {
			if _, err := auth.ParseFromRequest(r); err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		if err := jobUC.HardDelete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type jobTransition int

const (
	transitionProcessing jobTransition = iota
	transitionComplete
)

func jobTransitionHandler(jobUC usecase.JobUseCase, t jobTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var (
			job *model.AnalysisJob
			err error
		)
		switch t {
		case transitionProcessing:
			job, err = jobUC.MarkAsProcessing(r.Context(), id)
		case transitionComplete:
			job, err = jobUC.MarkAsCompleted(r.Context(), id)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func jobFailHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var req jobFailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		job, err := jobUC.MarkAsFailed(r.Context(), id, req.ErrorMessage)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func jobRestoreHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		job, err := jobUC.Restore(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func jobsPendingHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := limitParam(r, 10, 100)
		jobs, err := jobUC.Pending(r.Context(), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.AnalysisJob `json:"items"`
		}{Items: jobs})
	}
}

func jobsRecentHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := limitParam(r, 20, 100)
		includeCompleted, _ := strconv.ParseBool(r.URL.Query().Get("include_completed"))

		var since *time.Time
		if v := r.URL.Query().Get("since"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "since must be RFC3339")
				return
			}
			since = &parsed
		}

		jobs, err := jobUC.Recent(r.Context(), limit, includeCompleted, since)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.AnalysisJob `json:"items"`
		}{Items: jobs})
	}
}

func jobsStatisticsHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := jobUC.Statistics(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func jobsStaleHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minutes, _ := strconv.Atoi(r.URL.Query().Get("older_than_minutes"))
		if minutes <= 0 {
			minutes = 30
		}
		jobs, err := jobUC.Stale(r.Context(), time.Duration(minutes)*time.Minute)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.AnalysisJob `json:"items"`
		}{Items: jobs})
	}
}

func jobsSearchHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		jobs, err := jobUC.Search(r.Context(), q, offsetParam(r), limitParam(r, 20, 100))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.AnalysisJob `json:"items"`
		}{Items: jobs})
	}
}

func jobsClaimHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := jobUC.Claim(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}
