package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/config"
	"github.com/centavoapp/centavo/centavo-backend/internal/database"
	"github.com/centavoapp/centavo/centavo-backend/internal/handler"
	"github.com/centavoapp/centavo/centavo-backend/internal/middleware"
	"github.com/centavoapp/centavo/centavo-backend/internal/notify"
	"github.com/centavoapp/centavo/centavo-backend/internal/repository/postgres"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/centavoapp/centavo/centavo-backend/docs"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Apply schema migrations
	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Migrations applied")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	incomeRepo := postgres.NewIncomeRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	installmentRepo := postgres.NewInstallmentRepository(pool)

	// WebSocket hub for real-time ledger events
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, hub)
	incomeService := service.NewIncomeService(incomeRepo, hub)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo, hub)
	installmentService := service.NewInstallmentService(installmentRepo, expenseRepo, categoryRepo, hub)
	monthService := service.NewMonthService(incomeRepo, expenseRepo, installmentRepo, categoryRepo)
	dashboardService := service.NewDashboardService(monthService, installmentService)
	backupService := service.NewBackupService(monthService, incomeRepo, expenseRepo, installmentRepo, categoryRepo, hub)

	// Initialize auth middleware; the auth service doubles as the user lookup
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	installmentHandler := handler.NewInstallmentHandler(installmentService)
	monthHandler := handler.NewMonthHandler(monthService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	backupHandler := handler.NewBackupHandler(backupService)

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Payment reminder job (only when SMTP is configured)
	if cfg.Reminder.Enabled() {
		reminder := notify.NewReminder(userRepo, installmentService, notify.NewMailer(cfg.Reminder), cfg.Reminder.LookaheadDays)
		if err := reminder.Start(cfg.Reminder.Schedule); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule reminder job")
		}
		defer reminder.Stop()
	} else {
		log.Info().Msg("Payment reminders disabled: SMTP not configured")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// WebSocket endpoint (token auth happens in the handler)
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, incomeHandler, expenseHandler, categoryHandler, installmentHandler, monthHandler, dashboardHandler, backupHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
