package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/config"
	"github.com/thedirecttree/directory-gateway/internal/database"
	"github.com/thedirecttree/directory-gateway/internal/handlers"
	"github.com/thedirecttree/directory-gateway/internal/metrics"
	"github.com/thedirecttree/directory-gateway/internal/middleware"
	"github.com/thedirecttree/directory-gateway/internal/services"
	"github.com/thedirecttree/directory-gateway/internal/session"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
	"github.com/thedirecttree/directory-gateway/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

// rateLimitIdle is how long a client may be quiet before its limiter is dropped
const rateLimitIdle = 10 * time.Minute

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting The Direct Tree directory gateway")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(startupCtx, db); err != nil {
		logger.Fatalf("Failed to prepare database schema: %v", err)
	}
	logger.Info("Database connection established")

	// Session token store
	key, err := cfg.Session.Key()
	if err != nil {
		logger.Fatalf("Invalid session secret: %v", err)
	}
	sealer := session.NewSealer(key)

	var tokenStore session.TokenStore
	var pruner session.Pruner
	switch cfg.Session.Store {
	case "redis":
		client, err := session.NewRedisClient(startupCtx, cfg.Session.RedisURL)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		tokenStore = session.NewRedisStore(client, sealer, cfg.Session.TTL)
		logger.Info("Session tokens stored in redis")
	default:
		fileStore, err := session.NewFileStore(cfg.Session.Dir, sealer, cfg.Session.TTL)
		if err != nil {
			logger.Fatalf("Failed to open session directory: %v", err)
		}
		tokenStore, pruner = fileStore, fileStore
		logger.WithField("dir", cfg.Session.Dir).Info("Session tokens stored on disk")
	}
	cancelStartup()

	// Backend client
	m := metrics.New()
	inspector := jwt.NewInspector(cfg.Backend.JWTSecret)
	if !inspector.Verifies() {
		logger.Warn("BACKEND_JWT_SECRET not set; token claims are read without signature checks")
	}
	api := directoryapi.New(cfg.Backend.APIBaseURL(),
		directoryapi.WithLogger(logger),
		directoryapi.WithObserver(m),
		directoryapi.WithTimeout(cfg.Backend.Timeout),
		directoryapi.WithUserAgent("directory-gateway/"+version),
	)
	logger.WithFields(logrus.Fields{
		"backend": api.BaseURL(),
		"timeout": cfg.Backend.Timeout.String(),
	}).Info("Directory backend configured")
	registry := services.NewViewRegistry(cfg.Session.ViewCacheSize, cfg.Session.TTL, tokenStore, inspector, api, logger)

	// Initialize services
	logger.Info("Initializing services...")
	checkoutRepository := database.NewCheckoutRepository(db)
	checkoutService := services.NewCheckoutService(checkoutRepository, cfg.Checkout.AbandonAfter, logger)
	businessService := services.NewBusinessService(logger)
	subscriptionService := services.NewSubscriptionService(logger)

	// Initialize and start cron service
	cronService := services.NewCronService(checkoutService, pruner, cfg.Checkout.SweepSchedule, logger)
	cronService.SetSweepRecorder(m)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	h := handlers.Handlers{
		Listing:   handlers.NewListingHandler(services.NewListingService(logger), businessService, logger),
		Auth:      handlers.NewAuthHandler(services.NewAuthService(logger), services.NewVerificationService(logger), registry, logger),
		Business:  handlers.NewBusinessHandler(businessService, logger),
		Checkout:  handlers.NewCheckoutHandler(checkoutService, logger),
		Dashboard: handlers.NewDashboardHandler(subscriptionService, services.NewGalleryService(logger), logger),
		Admin:     handlers.NewAdminHandler(services.NewModerationService(logger), logger),
		Legal:     handlers.NewLegalHandler(),
	}
	logger.Info("Services initialized")

	// Initialize Gin router
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(m.Middleware())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Ops endpoints, outside the session
	router.GET("/health", healthCheckHandler(db, cronService, registry))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	app := router.Group("", middleware.SessionMiddleware(registry, middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.SecureCookie,
	}, logger))
	handlers.RegisterRoutes(app, h, limiter.Handler(), logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(rateLimitIdle)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(rateLimitIdle)
			case <-stopCleanup:
				return
			}
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	close(stopCleanup)

	// Stop cron service
	logger.Info("Stopping cron service...")
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler reports database reachability and the scheduled jobs
func healthCheckHandler(db database.DB, cronService *services.CronService, views *services.ViewRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"cron":      cronService.GetJobStatus(),
			"sessions":  views.Len(),
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
