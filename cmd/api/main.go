package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ledgerpath/backend/internal/config"
	"github.com/ledgerpath/backend/internal/handler"
	applog "github.com/ledgerpath/backend/internal/logger"
	"github.com/ledgerpath/backend/internal/repository"
	"github.com/ledgerpath/backend/internal/scheduler"
	"github.com/ledgerpath/backend/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Structured logger: JSON in production, text otherwise (see internal/logger)
	logger := applog.Logger()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	contractRepo := repository.NewContractRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	amortizationService := service.NewAmortizationService()
	executionService := service.NewExecutionService()
	contractService := service.NewContractService(contractRepo)
	snapshotService := service.NewSnapshotService(snapshotRepo, contractRepo, executionService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	contractHandler := handler.NewContractHandler(contractService)
	loanHandler := handler.NewLoanHandler(amortizationService)
	snapshotHandler := handler.NewSnapshotHandler(snapshotService, userService)
	projectionHandler := handler.NewProjectionHandler(snapshotService, userService)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	// CORS - allow frontend origin from env or default
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)

	// Loan tools are stateless and need no account
	r.Post("/api/loans/schedule", loanHandler.Schedule)
	r.Post("/api/loans/emi", loanHandler.EMI)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)

		// Current user
		r.Get("/api/auth/me", authHandler.Me)
		r.Put("/api/auth/settings", authHandler.UpdateSettings)

		// Contracts
		r.Get("/api/contracts", contractHandler.List)
		r.Post("/api/contracts", contractHandler.Create)
		r.Get("/api/contracts/{id}", contractHandler.Get)
		r.Put("/api/contracts/{id}", contractHandler.Update)
		r.Delete("/api/contracts/{id}", contractHandler.Delete)
		r.Post("/api/contracts/{id}/pause", contractHandler.Pause)
		r.Post("/api/contracts/{id}/resume", contractHandler.Resume)
		r.Post("/api/contracts/{id}/close", contractHandler.Close)

		// Monthly snapshots
		r.Get("/api/snapshots/current", snapshotHandler.Current)
		r.Get("/api/snapshots/history", snapshotHandler.History)
		r.Get("/api/snapshots/{year}/{month}", snapshotHandler.ByMonth)
		r.Get("/api/snapshots/{year}/{month}/stored", snapshotHandler.Stored)
		r.Post("/api/snapshots/{year}/{month}/close", snapshotHandler.CloseMonth)

		// Projections
		r.Get("/api/projections", projectionHandler.Project)
		r.Get("/api/projections/outflow", projectionHandler.TypeOutflow)
	})

	// Scheduler closes the previous month for every account
	var closeScheduler *scheduler.Scheduler
	if cfg.SnapshotEnabled {
		schedCfg := scheduler.Config{
			Schedule: cfg.SnapshotSchedule,
			Timeout:  cfg.SnapshotTimeout,
			Enabled:  cfg.SnapshotEnabled,
		}
		closeScheduler = scheduler.New(schedCfg, snapshotService, userRepo, logger)
		if err := closeScheduler.Start(); err != nil {
			logger.Error("Failed to start snapshot scheduler", slog.String("error", err.Error()))
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	// Create server
	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		// Stop scheduler first
		if closeScheduler != nil {
			ctx := closeScheduler.Stop()
			<-ctx.Done()
			logger.Info("Scheduler stopped")
		}

		// Shutdown HTTP server
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}
