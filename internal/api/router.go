package api

import (
	"net/http"
	"time"

	"blog_api/internal/api/handler"
	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common/security"
	"blog_api/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	userService *service.UserService,
	mediaService *service.MediaService,
	categoryService *service.CategoryService,
	userRepo repository.UserRepository,
	authLimiter *middleware.RateLimiter,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses "Authorization: Bearer <token>" and puts the outcome in the
	// request context; middleware.Authenticator enforces it per route.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(apiRouter chi.Router) {
		userHandler := handler.NewUserHandler(userService, authLimiter)
		userHandler.RegisterRoutes(apiRouter)

		mediaHandler := handler.NewMediaHandler(mediaService)
		mediaHandler.RegisterRoutes(apiRouter)

		categoryHandler := handler.NewCategoryHandler(categoryService, userRepo)
		apiRouter.Route("/category", categoryHandler.RegisterRoutes)
	})

	return r
}
