package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/forkspot/forkspot-backend/config"
	"github.com/forkspot/forkspot-backend/internal/app/controller"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/db"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/forkspot/forkspot-backend/internal/router"
	"github.com/forkspot/forkspot-backend/internal/scheduler"
	"github.com/forkspot/forkspot-backend/internal/storage"
	"github.com/forkspot/forkspot-backend/internal/ws"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"github.com/forkspot/forkspot-backend/pkg/redis"
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

	logger.Info("Starting Forkspot Backend Server", map[string]interface{}{
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

	// Token revocation degrades gracefully when redis is unreachable.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	activityRepo := repository.NewActivityRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	bookingRepo := repository.NewBookingRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, addressRepo, activityRepo, orderRepo)
	restaurantService := service.NewRestaurantService(restaurantRepo, activityRepo)
	reviewService := service.NewReviewService(reviewRepo, restaurantRepo, orderRepo)
	orderService := service.NewOrderService(orderRepo, restaurantRepo)
	bookingService := service.NewBookingService(bookingRepo, restaurantRepo)

	// Websocket hub for live order tracking
	hub := ws.NewHub(orderService)
	go hub.Run()

	// S3 presigned uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	reviewController := controller.NewReviewController(reviewService)
	orderController := controller.NewOrderController(orderService, hub)
	bookingController := controller.NewBookingController(bookingService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	otpCleanup := scheduler.NewOTPCleanupScheduler(userRepo)
	if err := otpCleanup.Start(); err != nil {
		logger.Error("Failed to start OTP cleanup scheduler", err)
	}
	defer otpCleanup.Stop()

	r := router.NewRouter(
		authController,
		userController,
		restaurantController,
		reviewController,
		orderController,
		bookingController,
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
