package web

import (
	"encoding/json"
	"net/http"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/usecase"
)

func transcriptionsByJobHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		page, pageSize, offset := pageParams(r)
		items, total, err := trUC.ListByJob(r.Context(), jobID, offset, pageSize)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(items, len(items), total, page, pageSize))
	}
}

func transcriptionCreateHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var req transcriptionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		tr, err := trUC.Attach(r.Context(), jobID, model.TranscriptionProvider(req.Provider),
			req.Text, req.Language, usecase.TranscriptionInput{
				Model:           req.Model,
				Segments:        req.Segments,
				DurationSeconds: req.DurationSeconds,
				WordCount:       req.WordCount,
				Confidence:      req.Confidence,
				TokensUsed:      req.TokensUsed,
				LatencyMs:       req.LatencyMs,
			})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tr)
	}
}

func transcriptionsSummaryHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		summary, err := trUC.SummaryByJob(r.Context(), jobID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func transcriptionsWithSegmentsHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		items, err := trUC.WithSegments(r.Context(), jobID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.Transcription `json:"items"`
		}{Items: items})
	}
}

func transcriptionGetHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		tr, err := trUC.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func transcriptionDeleteHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		if err := trUC.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func transcriptionRestoreHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		tr, err := trUC.Restore(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func transcriptionTextHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		var req transcriptionTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}
		tr, err := trUC.UpdateText(r.Context(), id, req.Text, req.WordCount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func transcriptionsStatisticsHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := trUC.StatisticsByProvider(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Providers []*model.ProviderStatistics `json:"providers"`
		}{Providers: stats})
	}
}

func transcriptionsSearchHandler(trUC usecase.TranscriptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		items, err := trUC.Search(r.Context(), q, offsetParam(r), limitParam(r, 20, 100))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.Transcription `json:"items"`
		}{Items: items})
	}
}
