package handler

import (
	"io"
	"net/http"

	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common"
	"blog_api/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/upload", h.upload)
	})
	r.Get("/avatar/{filename}", h.avatar)
}

func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := config.AppConfig.UploadMaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		common.RespondFieldErrors(w, http.StatusBadRequest, "Validation failed", map[string]string{
			"file0": "this field is required",
		})
		return
	}

	file, header, err := r.FormFile("file0")
	if err != nil {
		common.RespondFieldErrors(w, http.StatusBadRequest, "Validation failed", map[string]string{
			"file0": "this field is required",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	filename, err := h.mediaService.Upload(r.Context(), header.Filename, data)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"image": filename,
	})
}

func (h *MediaHandler) avatar(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	data, contentType, err := h.mediaService.GetImage(r.Context(), filename)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
