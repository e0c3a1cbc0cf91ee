package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/config"
	dbRedis "github.com/gofedgroup/sourcing/internal/db/redis"
	"github.com/gofedgroup/sourcing/internal/domain/search/scoring"
	"github.com/gofedgroup/sourcing/internal/domain/taxonomy"
	logpkg "github.com/gofedgroup/sourcing/internal/logger"
	"github.com/gofedgroup/sourcing/internal/metrics"
	blobrepo "github.com/gofedgroup/sourcing/internal/repository/blob"
	catalogrepo "github.com/gofedgroup/sourcing/internal/repository/catalog"
	criteriarepo "github.com/gofedgroup/sourcing/internal/repository/criteria"
	territoryrepo "github.com/gofedgroup/sourcing/internal/repository/territory"
	chiTransport "github.com/gofedgroup/sourcing/internal/transport/chi"
	openaiExt "github.com/gofedgroup/sourcing/internal/transport/openai"
	"github.com/gofedgroup/sourcing/internal/transport/webhook"
	cataloguc "github.com/gofedgroup/sourcing/internal/usecase/catalog"
	extractionuc "github.com/gofedgroup/sourcing/internal/usecase/extraction"
	healthuc "github.com/gofedgroup/sourcing/internal/usecase/health"
	searchuc "github.com/gofedgroup/sourcing/internal/usecase/search"
	territoryuc "github.com/gofedgroup/sourcing/internal/usecase/territory"
	"github.com/gofedgroup/sourcing/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sourcing API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("extractor_model", cfg.Extractor.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	tax := taxonomy.Default()

	extractor := openaiExt.NewExtractor(&openaiExt.Config{
		APIKey:  cfg.Extractor.APIKey,
		BaseURL: cfg.Extractor.BaseURL,
		Model:   cfg.Extractor.Model,
		Timeout: time.Duration(cfg.Extractor.TimeoutSec) * time.Second,
		Logger:  logger,
	}, tax)

	notifier := webhook.New(cfg.Webhook.URL, time.Duration(cfg.Webhook.TimeoutSec)*time.Second, logger)

	// Repositories
	prefix := cfg.Storage.KeyPrefix
	catalogRepo := catalogrepo.New(store, prefix)
	territoryRepo := territoryrepo.New(store, prefix)
	criteriaRepo := criteriarepo.New(store, prefix)
	blobStore := blobrepo.New(store, prefix, cfg.Storage.PublicBaseURL,
		time.Duration(cfg.Storage.UploadTTLSec)*time.Second)

	// Use case services
	extractionSvc := extractionuc.New(extractor, tax, logger)
	territorySvc := territoryuc.New(territoryRepo, territoryRepo, catalogRepo, catalogRepo, logger)
	catalogSvc := cataloguc.New(catalogRepo, territoryRepo, logger)
	searchSvc := searchuc.New(
		extractionSvc, territorySvc, blobStore, criteriaRepo, notifier,
		searchuc.Options{
			Weights:    weightsFromConfig(cfg.Search.Weights),
			MinScore:   cfg.Search.MinScore,
			MaxResults: cfg.Search.MaxResults,
		},
		logger,
	)
	healthSvc := healthuc.New(store, extractor)

	server := chiTransport.NewServer(
		searchSvc, territorySvc, catalogSvc, healthSvc,
		blobStore, cfg.Auth.AdminTokens, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func weightsFromConfig(w *config.WeightsConfig) scoring.Weights {
	if w == nil {
		return scoring.DefaultWeights()
	}
	return scoring.Weights{
		Keywords:     w.Keywords,
		ColorPalette: w.ColorPalette,
		Application:  w.Application,
		Performance:  w.Performance,
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
