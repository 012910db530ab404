package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/pkgr6286/aegis-sub002/internal/service"
	"github.com/pkgr6286/aegis-sub002/internal/transport/rest/handler"
	"github.com/pkgr6286/aegis-sub002/internal/transport/rest/middleware"
	"github.com/pkgr6286/aegis-sub002/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	ProgramService      *service.ProgramService
	ScreeningService    *service.ScreeningService
	VerificationService *service.VerificationService
	WSHub               *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	programHandler := handler.NewProgramHandler(c.ProgramService)
	screeningHandler := handler.NewScreeningHandler(c.ScreeningService)
	verificationHandler := handler.NewVerificationHandler(c.VerificationService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/programs/{programId}/screenings", screeningHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/screenings/{sessionId}/fastpath/callback", screeningHandler.FastPathCallback).Methods("POST", "OPTIONS")
	v1.HandleFunc("/verification-codes/{code}", verificationHandler.Lookup).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/programs/{programId}/monitor", wsHandler.MonitorWS).Methods("GET")
	v1.HandleFunc("/ws/screenings/{sessionId}", wsHandler.ScreeningWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require tenant-admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/programs", programHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/programs", programHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}", programHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}", programHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/publish", programHandler.Publish).Methods("POST", "OPTIONS")

	// Consumer routes (require session-scoped auth)
	consumerRoutes := v1.NewRoute().Subrouter()
	consumerRoutes.Use(authMW.RequireConsumer)

	consumerRoutes.HandleFunc("/screenings/question/current", screeningHandler.CurrentQuestion).Methods("GET", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/answers", screeningHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/back", screeningHandler.Back).Methods("POST", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/restart", screeningHandler.Restart).Methods("POST", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/progress", screeningHandler.Progress).Methods("GET", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/submit", screeningHandler.Submit).Methods("POST", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/fastpath/start", screeningHandler.FastPathStart).Methods("POST", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/fastpath/cancel", screeningHandler.FastPathCancel).Methods("POST", "OPTIONS")
	consumerRoutes.HandleFunc("/screenings/fastpath/confirm", screeningHandler.FastPathConfirm).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
