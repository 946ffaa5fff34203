package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/usecase"
)

func resultsByJobHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		page, pageSize, offset := pageParams(r)
		items, total, err := resultUC.ListByJob(r.Context(), jobID, offset, pageSize)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(items, len(items), total, page, pageSize))
	}
}

func resultCreateHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var req resultCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		res, err := resultUC.Attach(r.Context(), jobID, model.AnalysisProvider(req.Provider),
			req.Model, req.Result, req.Confidence, req.TokensUsed, req.LatencyMs)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func resultsSummaryHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		summary, err := resultUC.SummaryByJob(r.Context(), jobID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func resultGetHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		res, err := resultUC.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func resultDeleteHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		if err := resultUC.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func resultRestoreHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		res, err := resultUC.Restore(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func resultsStatisticsHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := resultUC.StatisticsByProvider(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Providers []*model.ProviderStatistics `json:"providers"`
		}{Providers: stats})
	}
}

func resultsHighConfidenceHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		min := 0.8
		if v := r.URL.Query().Get("min"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed < 0 || parsed > 1 {
				writeFieldError(w, "must be between 0 and 1", "min")
				return
			}
			min = parsed
		}
		results, err := resultUC.HighConfidence(r.Context(), min, limitParam(r, 20, 100))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.AnalysisResult `json:"items"`
		}{Items: results})
	}
}

func resultsLatestHandler(resultUC usecase.ResultUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := resultUC.Latest(r.Context(), limitParam(r, 20, 100))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.AnalysisResult `json:"items"`
		}{Items: results})
	}
}
