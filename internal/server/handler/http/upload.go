package http

import (
	"context"
	"io"
	"net/http"

	"github.com/deokslife/portfolio-api/internal/service"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory.
const maxUploadMemory = 10 << 20

// StorageService defines the upload operations required by the UploadHandler.
type StorageService interface {
	// UploadImage stores a preview image and returns its public URL.
	UploadImage(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error)
	// UploadFile stores a downloadable file.
	UploadFile(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*service.FileUpload, error)
}

// UploadHandler handles multipart asset uploads.
type UploadHandler struct {
	StorageService StorageService
}

// Image handles POST /api/upload/image.
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.StorageService.UploadImage(
		r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "url": url})
}

// File handles POST /api/upload/file.
func (h *UploadHandler) File(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	upload, err := h.StorageService.UploadFile(
		r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, upload)
}
