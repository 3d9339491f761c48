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

	"github.com/nabburi/15MinClarity/internal/clock"
	"github.com/nabburi/15MinClarity/internal/config"
	"github.com/nabburi/15MinClarity/internal/database"
	"github.com/nabburi/15MinClarity/internal/handlers"
	"github.com/nabburi/15MinClarity/internal/middleware"
	"github.com/nabburi/15MinClarity/internal/repository"
	"github.com/nabburi/15MinClarity/internal/router"
	"github.com/nabburi/15MinClarity/internal/services"
	"github.com/nabburi/15MinClarity/internal/websocket"
)

func main() {
	log.Println("🚀 Starting 15MinClarity Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	rdb, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer rdb.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Program Clock ────
	clk, err := clock.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("✗ Invalid program time zone: %v", err)
	}
	log.Printf("✓ Program clock in %s", cfg.Timezone)

	// ──── Initialize Repositories ────
	sessionRepo := repository.NewSessionRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)
	reflectionRepo := repository.NewReflectionRepo(pool)
	participantRepo := repository.NewParticipantRepo(pool)
	eventRepo := repository.NewEventRepo(pool)

	// ──── Initialize Services ────
	allowlist := services.NewRedisAllowlist(rdb)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := allowlist.Seed(seedCtx, cfg.CohortAllowlist, cfg.AdminAllowlist); err != nil {
		log.Fatalf("✗ Allowlist seeding failed: %v", err)
	}
	cancelSeed()
	log.Printf("✓ Allowlists seeded (%d cohort, %d admin)", len(cfg.CohortAllowlist), len(cfg.AdminAllowlist))

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, rdb)
	variantSelector := services.NewVariantSelector(sessionRepo, profileRepo, clk)
	sessionService := services.NewSessionService(sessionRepo, profileRepo, participantRepo, variantSelector, eventRepo, clk)
	reflectionService := services.NewReflectionService(reflectionRepo, sessionRepo, eventRepo, clk)
	statsService := services.NewStatsService(participantRepo, sessionRepo, allowlist)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(rdb)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	reflectionHandler := handlers.NewReflectionHandler(reflectionService)
	adminHandler := handlers.NewAdminHandler(statsService)

	// ──── Step 6: Practice Timer Hub ────
	wsHub := websocket.NewHub(jwtAuth, allowlist, time.Duration(cfg.CueHoldSeconds)*time.Second)
	log.Println("✓ Practice timer hub ready")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		allowlist,
		authHandler,
		sessionHandler,
		reflectionHandler,
		adminHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ 15MinClarity Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws/practice", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
