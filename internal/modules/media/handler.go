package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadBytes = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Handler struct {
	uploader Uploader
	log      *zap.Logger
}

func NewHandler(uploader Uploader, log *zap.Logger) *Handler {
	return &Handler{uploader: uploader, log: log}
}

// RegisterAdminRoutes mounts POST /uploads under the admin group.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/uploads", h.upload)
}

// upload accepts a multipart "file" field holding an image and returns
// {"url": ...} for use in a product's images list.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<10)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image exceeds 5MB"})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(data) > maxUploadBytes {
		respond(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image exceeds 5MB"})
		return
	}
	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		respond(w, http.StatusUnsupportedMediaType, map[string]string{"error": "unsupported image type " + contentType})
		return
	}

	key := path.Join("products", uuid.NewString()+ext)
	url, err := h.uploader.Upload(r.Context(), key, contentType, bytes.NewReader(data))
	if errors.Is(err, ErrDisabled) {
		respond(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("image upload failed", zap.String("key", key), zap.Error(err))
		respond(w, http.StatusBadGateway, map[string]string{"error": "upload failed"})
		return
	}
	h.log.Info("image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	respond(w, http.StatusCreated, map[string]string{"url": url})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
