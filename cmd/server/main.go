package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/supermart/supermart-backend/config"
	"github.com/supermart/supermart-backend/internal/app/controller"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/app/service"
	"github.com/supermart/supermart-backend/internal/db"
	"github.com/supermart/supermart-backend/internal/middleware"
	"github.com/supermart/supermart-backend/internal/router"
	"github.com/supermart/supermart-backend/internal/scheduler"
	"github.com/supermart/supermart-backend/internal/storage"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/redis"
	"github.com/supermart/supermart-backend/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SuperMart Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is an optional fast-path cache for revoked tokens; the server
	// runs fine without it.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without token blacklist cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	tokenRepo := repository.NewTokenRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	brandRepo := repository.NewBrandRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewProductVariantRepository(db.GetDB())
	imageRepo := repository.NewProductImageRepository(db.GetDB())

	// Services
	hasher := util.NewBcryptHasher()
	authService := service.NewAuthService(userRepo, hasher)
	tokenService := service.NewTokenService(tokenRepo, userRepo, cfg.JWT)
	userService := service.NewUserService(userRepo, tokenRepo, hasher)
	categoryService := service.NewCategoryService(categoryRepo)
	brandService := service.NewBrandService(brandRepo)
	productService := service.NewProductService(
		productRepo, variantRepo, imageRepo, categoryRepo, brandRepo, categoryService,
	)
	exportService := service.NewExportService(productRepo)

	// Storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, tokenService)
	userController := controller.NewUserController(userService)
	categoryController := controller.NewCategoryController(categoryService)
	brandController := controller.NewBrandController(brandService)
	productController := controller.NewProductController(productService, exportService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	tokenCleanup := scheduler.NewTokenCleanupScheduler(tokenRepo)
	if err := tokenCleanup.Start(); err != nil {
		logger.Error("Failed to start token cleanup scheduler", err)
	}
	defer tokenCleanup.Stop()

	r := router.NewRouter(
		authController,
		userController,
		categoryController,
		brandController,
		productController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
