package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const (
	maxUploadMemory = 32 << 20
	maxUploadSize   = 64 << 20
)

// FileHandler handles file upload and management endpoints
type FileHandler struct {
	content       *simpleblog.ContentService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewFileHandler creates a new file handler
func NewFileHandler(content *simpleblog.ContentService, logger *slog.Logger) *FileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileHandler{content: content, logger: logger, maxUploadSize: maxUploadSize}
}

// Routes returns the router for files endpoints
func (h *FileHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadFile)
	r.Delete("/{file_id}", h.DeleteFile)
	r.Get("/{file_id}/preview", h.GetFilePreview)
	return r
}

// FileResponse represents an uploaded file including its preview URL
type FileResponse struct {
	ID         string `json:"id"`
	BucketID   string `json:"bucket_id"`
	Name       string `json:"name"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	PreviewURL string `json:"preview_url"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// PreviewResponse carries a derived preview URL
type PreviewResponse struct {
	URL string `json:"url"`
}

// UploadFile stores the multipart field "file"
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("File exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer part.Close()

	file, ok := h.content.UploadFile(r.Context(), simpleblog.InputFile{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Reader:   part,
	}).Get()
	if !ok {
		h.logger.Warn("Failed to upload file", "name", header.Filename, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "Failed to upload file", http.StatusBadGateway)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, FileResponse{
		ID:         file.ID,
		BucketID:   file.BucketID,
		Name:       file.Name,
		MimeType:   file.MimeType,
		Size:       file.SizeOriginal,
		PreviewURL: h.content.GetFilePreview(file.ID).String(),
		CreatedAt:  file.CreatedAt,
	})
}

// DeleteFile deletes a file
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")

	if !h.content.DeleteFile(r.Context(), fileID) {
		h.logger.Warn("Failed to delete file", "file_id", fileID, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "Failed to delete file", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFilePreview returns the preview URL. The file is not looked up.
func (h *FileHandler) GetFilePreview(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")
	render.JSON(w, r, PreviewResponse{URL: h.content.GetFilePreview(fileID).String()})
}
