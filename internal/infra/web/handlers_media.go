package web

import (
	"encoding/json"
	"net/http"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/usecase"
)

func mediaFilesByJobHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		page, pageSize, offset := pageParams(r)
		items, total, err := mediaUC.ListByJob(r.Context(), jobID, offset, pageSize)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(items, len(items), total, page, pageSize))
	}
}

func mediaFileCreateHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		var req mediaFileCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}

		patch := repository.MediaFilePatch{
			OriginalURL: req.OriginalURL,
			CDNURL:      req.CDNURL,
			MimeType:    req.MimeType,
			FileSize:    req.FileSize,
			Filename:    req.Filename,
		}
		if req.Status != nil {
			status := model.MediaFileStatus(*req.Status)
			patch.Status = &status
		}
		file, err := mediaUC.Attach(r.Context(), jobID, model.FileType(req.FileType), patch)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, file)
	}
}

func mediaFilesSummaryHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := idParam(w, r, "jobID")
		if !ok {
			return
		}
		_, total, err := mediaUC.ListByJob(r.Context(), jobID, 0, 1)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		size, err := mediaUC.TotalSizeByJob(r.Context(), jobID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Count          int   `json:"count"`
			TotalSizeBytes int64 `json:"total_size_bytes"`
		}{Count: total, TotalSizeBytes: size})
	}
}

func mediaFileGetHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		file, err := mediaUC.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	}
}

func mediaFileStatusHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		var req mediaFileStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if fe := req.validate(); fe != nil {
			writeFieldError(w, fe.msg, fe.field)
			return
		}
		file, err := mediaUC.UpdateStatus(r.Context(), id, model.MediaFileStatus(req.Status))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	}
}

func mediaFileDeleteHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		if err := mediaUC.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func mediaFileRestoreHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		file, err := mediaUC.Restore(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	}
}

func mediaFilesSearchHandler(mediaUC usecase.MediaFileUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		files, err := mediaUC.Search(r.Context(), q, offsetParam(r), limitParam(r, 20, 100))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Items []*model.MediaFile `json:"items"`
		}{Items: files})
	}
}
