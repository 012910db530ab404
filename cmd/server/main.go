package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkgr6286/aegis-sub002/internal/cache"
	"github.com/pkgr6286/aegis-sub002/internal/config"
	"github.com/pkgr6286/aegis-sub002/internal/repository"
	"github.com/pkgr6286/aegis-sub002/internal/service"
	"github.com/pkgr6286/aegis-sub002/internal/transport/rest"
	"github.com/pkgr6286/aegis-sub002/internal/transport/ws"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	cfg := config.Load()

	if cfg.Evaluator.IsEnabled() {
		log.Info().Str("url", cfg.Evaluator.BaseURL).Msg("remote outcome evaluator configured")
	} else {
		log.Info().Msg("no evaluator API key set, using local fallback evaluator")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Msg("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()

	// Repositories
	programRepo := repository.NewProgramRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	codeRepo := repository.NewCodeRepo(db)

	// Caches
	sessionCache := cache.NewSessionCache(rdb)

	// Services
	authSvc := service.NewAuthService()
	programSvc := service.NewProgramService(programRepo)
	outcomeSvc := service.NewOutcomeService(&cfg.Evaluator, log)
	verifySvc := service.NewVerificationService(codeRepo)
	screeningSvc := service.NewScreeningService(
		programSvc, sessionRepo, sessionCache, authSvc,
		outcomeSvc, verifySvc, &cfg.FastPath, log,
	)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	screeningSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:         authSvc,
		ProgramService:      programSvc,
		ScreeningService:    screeningSvc,
		VerificationService: verifySvc,
		WSHub:               wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
