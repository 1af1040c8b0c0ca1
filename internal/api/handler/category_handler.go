package handler

import (
	"encoding/json"
	"net/http"

	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common"
	"blog_api/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	userRepo        repository.UserRepository
}

func NewCategoryHandler(categoryService *service.CategoryService, userRepo repository.UserRepository) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, userRepo: userRepo}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.RequireAdmin(h.userRepo))
		adminRouter.Post("/", h.create)
		adminRouter.Put("/{id}", h.update)
		adminRouter.Delete("/{id}", h.delete)
	})
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"category": category,
	})
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	category, err := h.categoryService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusCreated, map[string]interface{}{
		"category": category,
	})
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"category": category,
	})
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Category deleted",
	})
}
