package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/go-chi/chi/v5"
)

const (
	maxUploadSize   = 64 << 20
	maxUploadMemory = 8 << 20
)

func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bucket := chi.URLParam(r, "bucket")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.uploadFile").Msg("invalid multipart body")
		utils.WriteError(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logger.FromRequest(r).Err(err).Str("func", "*Handler.uploadFile").Msg("failed to open uploaded part")
		}
		writeServiceError(w, r, "*Handler.uploadFile", ErrMissingFile)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stored, err := h.services.Files.Upload(ctx, bucket, header.Filename, file, contentType)
	if err != nil {
		writeServiceError(w, r, "*Handler.uploadFile", err)
		return
	}

	logger.FromRequest(r).Info().
		Str("bucket", stored.Bucket).
		Str("path", stored.Path).
		Int64("size", stored.Size).
		Msg("file uploaded")
	_, _ = utils.WriteJSON(w, stored, http.StatusCreated)
}

func (h *Handler) removeFiles(w http.ResponseWriter, r *http.Request) {
	var req models.RemoveFilesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "*Handler.removeFiles", err)
		return
	}
	if len(req.Paths) == 0 {
		writeServiceError(w, r, "*Handler.removeFiles", ErrNoPaths)
		return
	}

	if err := h.services.Files.Remove(r.Context(), chi.URLParam(r, "bucket"), req.Paths...); err != nil {
		writeServiceError(w, r, "*Handler.removeFiles", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
