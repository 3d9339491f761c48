package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nabburi/15MinClarity/internal/handlers"
	"github.com/nabburi/15MinClarity/internal/middleware"
	"github.com/nabburi/15MinClarity/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	allowlist middleware.MembershipChecker,
	authHandler *handlers.AuthHandler,
	sessionHandler *handlers.SessionHandler,
	reflectionHandler *handlers.ReflectionHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Mutation rate limiter (30 req/min per IP)
	sessionLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)
		})

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireCohort(allowlist))
			r.Get("/today", sessionHandler.Today)
			r.Get("/recent", sessionHandler.Recent)

			r.Group(func(r chi.Router) {
				r.Use(sessionLimiter.Middleware)
				r.Post("/start", sessionHandler.Start)
				r.Post("/finish", sessionHandler.Finish)
			})
		})

		// ──── Reflection Routes ────
		r.Route("/reflections", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireCohort(allowlist))
			r.Get("/eligibility", reflectionHandler.Eligibility)
			r.Post("/", reflectionHandler.Submit)
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireAdmin(allowlist))
			r.Get("/stats", adminHandler.Stats)
		})

		// ──── WebSocket Practice Timer ────
		r.Get("/ws/practice", wsHub.HandlePractice)
	})

	return r
}
