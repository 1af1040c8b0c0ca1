package handler

import (
	"encoding/json"
	"net/http"

	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type UserHandler struct {
	userService *service.UserService
	authLimiter *middleware.RateLimiter
}

func NewUserHandler(userService *service.UserService, authLimiter *middleware.RateLimiter) *UserHandler {
	return &UserHandler{userService: userService, authLimiter: authLimiter}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	// Credential endpoints are the brute-force surface; everything else
	// rides without the limiter.
	r.Group(func(limited chi.Router) {
		limited.Use(h.authLimiter.Handler)
		limited.Post("/register", h.register)
		limited.Post("/login", h.login)
	})
	r.Put("/update", h.update)
	r.Post("/update", h.update)
	r.Get("/detail/{id}", h.detail)
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "The user was created successfully",
		"user":    user,
	})
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.userService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	if req.Decoded {
		common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
			"identity": result.Claims,
		})
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"token": result.Token,
	})
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	tokenString := jwtauth.TokenFromHeader(r)
	result, err := h.userService.Update(r.Context(), tokenString, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"user":    result.Claims,
		"changes": result.Changes,
	})
}

func (h *UserHandler) detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.userService.Detail(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}
