package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/floreria/catalog/internal/api"
	"github.com/floreria/catalog/internal/api/handlers"
	"github.com/floreria/catalog/internal/auth"
	"github.com/floreria/catalog/internal/migrations"
	"github.com/floreria/catalog/internal/repository"
	"github.com/floreria/catalog/internal/services"
	"github.com/floreria/catalog/internal/storage"
	"github.com/floreria/catalog/pkg/config"
	"github.com/floreria/catalog/pkg/database"
	"github.com/floreria/catalog/pkg/logger"

	_ "github.com/floreria/catalog/docs"
)

// @title           Floreria Catalog API
// @version         1.0
// @description     Product catalog for a flower shop: products, categories, promotions, images and users.

// @contact.name   Floreria API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting catalog API",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.AppEnv == "development"})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	log.Info("Database connected successfully")

	if cfg.AppEnv != "production" {
		if err := migrations.Run(db); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	imageRepo := repository.NewImageRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// JWT secret; production refuses to start without one
	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}
	tokens := auth.NewTokenManager(jwtSecret, cfg.JWTTTL)

	// Image storage
	var store services.ImageStore = storage.Disabled{}
	if cfg.GCSBucket != "" {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			log.Fatal("Failed to create storage client", zap.Error(err))
		}
		defer client.Close()
		store = storage.NewGCSStore(client, cfg.GCSBucket, cfg.GCSPrefix, cfg.GCSPublicBaseURL)
		log.Info("Image storage enabled", zap.String("bucket", cfg.GCSBucket))
	} else {
		log.Warn("GCS_BUCKET not set, image uploads are disabled")
	}

	// Initialize services
	productSvc := services.NewProductService(db, productRepo, categoryRepo, promotionRepo, userRepo)
	categorySvc := services.NewCategoryService(db, categoryRepo)
	promotionSvc := services.NewPromotionService(db, promotionRepo, productRepo)
	userSvc := services.NewUserService(db, userRepo)
	authSvc := services.NewAuthService(db, userRepo, tokens)
	imageSvc := services.NewImageService(db, imageRepo, productRepo, store)
	dashboardSvc := services.NewDashboardService(dashboardRepo)

	// Create router with dependencies
	router := api.NewRouter(api.Dependencies{
		Tokens:            tokens,
		HealthHandler:     handlers.NewHealthHandler(sqlDB),
		ProductsHandler:   handlers.NewProductsHandler(productSvc),
		CategoriesHandler: handlers.NewCategoriesHandler(categorySvc),
		PromotionsHandler: handlers.NewPromotionsHandler(promotionSvc),
		UsersHandler:      handlers.NewUsersHandler(userSvc, authSvc),
		ImagesHandler:     handlers.NewImagesHandler(imageSvc),
		AdminHandler:      handlers.NewAdminHandler(dashboardSvc),
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		MaxBodyBytes:      cfg.MaxBodyBytes,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
