package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_api/internal/api"
	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common/security"
	"blog_api/internal/domain/repository"
	"blog_api/internal/platform/cache"
	"blog_api/internal/platform/config"
	"blog_api/internal/platform/database"
	"blog_api/internal/platform/storage"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate(context.Background())
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Blob Storage
	blobs := newBlobStore()
	fmt.Println("Blob storage initialized.")

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	categoryRepo := repository.NewPgCategoryRepository(database.DB)

	// 7. Initialize Services
	tokenService := service.NewTokenService(userRepo)
	userService := service.NewUserService(userRepo, tokenService)
	mediaService := service.NewMediaService(blobs)
	categoryService := service.NewCategoryService(categoryRepo)

	// 8. Initialize Router & HTTP Server
	authLimiter := middleware.NewRateLimiter(cache.RDB,
		config.AppConfig.AuthRateLimit, config.AppConfig.AuthRateWindow)
	router := api.NewRouter(userService, mediaService, categoryService, userRepo, authLimiter)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}

func newBlobStore() storage.BlobStore {
	cfg := config.AppConfig
	switch cfg.StorageDriver {
	case "s3":
		blobs, err := storage.NewS3BlobStore(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("Error initializing S3 storage: %v", err)
		}
		return blobs
	default:
		blobs, err := storage.NewLocalBlobStore(cfg.LocalStoragePath)
		if err != nil {
			log.Fatalf("Error initializing local storage: %v", err)
		}
		return blobs
	}
}
