package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"becas-backend/controllers"
	"becas-backend/database"
	"becas-backend/models"
	"becas-backend/repository"
	"becas-backend/routes"
	"becas-backend/sender"
	"becas-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 1. Infrastructure ---

	db, err := database.ConnectPostgres(logger,
		&models.Scholarship{},
		&models.Category{},
		&models.Country{},
		&models.User{},
		&models.ScholarshipAlert{},
	)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	redisClient := database.NewRedisClient(cfg.RedisURL, logger)
	cache := controllers.NewCacheManager(redisClient)

	// --- 2. Dependency Injection ---

	scholarshipRepo := repository.NewGormScholarshipRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	alertRepo := repository.NewGormAlertRepository(db)

	if err := categoryRepo.Seed(context.Background(), models.CategoryCatalog); err != nil {
		zap.L().Warn("Failed to seed category catalog", zap.Error(err))
	}

	mailer, err := sender.NewSMTPSender()
	if err != nil {
		zap.L().Warn("SMTP not configured, alert digests disabled", zap.Error(err))
	}

	sheets := services.NewRestySheetFetcher(cfg.SheetsURL)
	scraper := services.NewRestyScraper(cfg.ScraperURL)

	scholarshipService := services.NewScholarshipService(scholarshipRepo, categoryRepo, logger)
	importService := services.NewImportService(
		scholarshipRepo, sheets, scraper, scholarshipService,
		cfg.ImportDelay,
		func() { cache.Invalidate(context.Background()) },
		logger,
	)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPassword, logger)
	favoriteService := services.NewFavoriteService(userRepo, scholarshipRepo, logger)

	var emailSender sender.EmailSender
	if mailer != nil {
		emailSender = mailer
	}
	alertService := services.NewAlertService(alertRepo, scholarshipRepo, emailSender, cfg.SiteURL, logger)

	ctrls := routes.Controllers{
		Scholarships: controllers.NewScholarshipController(scholarshipService, cache),
		Imports:      controllers.NewImportController(importService, scraper),
		Auth:         controllers.NewAuthController(authService, cfg.CookieSecure),
		Favorites:    controllers.NewFavoriteController(favoriteService),
		Alerts:       controllers.NewAlertController(alertService, cfg.CronSecret),
		Categories:   controllers.NewCategoryController(categoryRepo),
	}

	// --- 3. HTTP Server & Middleware ---

	r := gin.New()
	r.Use(gin.Recovery())

	// Request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// Structured request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= 500:
			zap.L().Error("http_request", fields...)
		case c.Writer.Status() >= 400:
			zap.L().Warn("http_request", fields...)
		default:
			zap.L().Info("http_request", fields...)
		}
	})

	// --- 4. Routes ---

	routes.Register(r, ctrls, cfg.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Becas backend starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		zap.L().Error("Failed to close database", zap.Error(err))
	}

	zap.L().Info("Stopped gracefully")
}
