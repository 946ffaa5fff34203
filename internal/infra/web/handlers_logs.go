package web

import (
	"encoding/json"
	"net/http"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/usecase"
)

func logsByJobHandler(logUC usecase.ProcessingLogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}

		// ?stage= narrows to one pipeline stage, unpaginated.
		if stage := r.URL.Query().Get("stage"); stage != "" {
			if !model.ProcessingStage(stage).Valid() {
				writeFieldError(w, "unknown processing stage", "stage")
				return
			}
			items, err := logUC.ByStage(r.Context(), jobID, model.ProcessingStage(stage))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, struct {
				Items []*model.ProcessingLog `json:"items"`
			}{Items: items})
			return
		}

		page, pageSize, offset := pageParams(r)
		items, total, err := logUC.ListByJob(r.Context(), jobID, offset, pageSize)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(items, len(items), total, page, pageSize))
	}
}

func logCreateHandler(logUC usecase.ProcessingLogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var req logCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		entry, err := logUC.Record(r.Context(), jobID, model.ProcessingStage(req.Stage),
			model.ProcessingLogStatus(req.Status), req.Message, req.Details, req.DurationMs)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func logFailuresHandler(logUC usecase.ProcessingLogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		items, err := logUC.Failures(r.Context(), jobID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.ProcessingLog `json:"items"`
		}{Items: items})
	}
}

func logLatestHandler(logUC usecase.ProcessingLogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		stage := r.URL.Query().Get("stage")
		if !model.ProcessingStage(stage).Valid() {
			writeFieldError(w, "unknown processing stage", "stage")
			return
		}
		entry, err := logUC.LatestByStage(r.Context(), jobID, model.ProcessingStage(stage))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func logGetHandler(logUC usecase.ProcessingLogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		entry, err := logUC.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}
