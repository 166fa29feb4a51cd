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

	"github.com/coldreach-ai/coldreach/internal/config"
	"github.com/coldreach-ai/coldreach/internal/db"
	dbMemory "github.com/coldreach-ai/coldreach/internal/db/memory"
	dbRedis "github.com/coldreach-ai/coldreach/internal/db/redis"
	"github.com/coldreach-ai/coldreach/internal/domain"
	"github.com/coldreach-ai/coldreach/internal/fetch"
	logpkg "github.com/coldreach-ai/coldreach/internal/logger"
	"github.com/coldreach-ai/coldreach/internal/metrics"
	catalogrepo "github.com/coldreach-ai/coldreach/internal/repository/catalog"
	"github.com/coldreach-ai/coldreach/internal/repository/embcache"
	"github.com/coldreach-ai/coldreach/internal/repository/pagecache"
	"github.com/coldreach-ai/coldreach/internal/transport/httpapi"
	openaiLLM "github.com/coldreach-ai/coldreach/internal/transport/openai"
	cataloguc "github.com/coldreach-ai/coldreach/internal/usecase/catalog"
	composeuc "github.com/coldreach-ai/coldreach/internal/usecase/compose"
	extractuc "github.com/coldreach-ai/coldreach/internal/usecase/extract"
	pipelineuc "github.com/coldreach-ai/coldreach/internal/usecase/pipeline"
	"github.com/coldreach-ai/coldreach/internal/version"
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

	logger.Info("Starting coldreach API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Cache store: Redis when configured, otherwise in-process memory.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store")
	} else {
		store = dbMemory.NewStore()
		logger.Info("Using in-memory cache store")
	}
	defer store.Close()

	// Register LLM metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	// Embedder chain: OpenAI -> Cached
	var embedder domain.Embedder = openaiLLM.NewEmbedder(&openaiLLM.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	completer := openaiLLM.NewCompleter(&openaiLLM.CompleterConfig{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Logger:    logger,
	})
	logger.Info("Completer created", zap.String("model", cfg.LLM.Model))

	// Portfolio catalog: load and index once at startup.
	catalogSvc := cataloguc.New(catalogrepo.NewLoader(cfg.Catalog.Path), embedder, logger)
	if err := catalogSvc.Load(context.Background()); err != nil {
		logger.Fatal("Failed to load portfolio catalog", zap.Error(err))
	}
	logger.Info("Portfolio catalog indexed", zap.Int("entries", catalogSvc.Size()))

	// Use case services
	extractSvc := extractuc.New(completer, cfg.LLM.ExtractTemperature)
	composeSvc := composeuc.New(completer, composeuc.Sender{
		Name:    cfg.Sender.Name,
		Company: cfg.Sender.Company,
		Pitch:   cfg.Sender.Pitch,
	}, cfg.LLM.ComposeTemperature)
	pipelineSvc := pipelineuc.New(extractSvc, catalogSvc, composeSvc, cfg.Catalog.TopK, cfg.Pipeline.Workers)

	// Page fetcher with cached pages
	var fetcher httpapi.PageFetcher = fetch.New(fetch.Config{
		Timeout:   time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
		UserAgent: cfg.Fetch.UserAgent,
	})
	fetcher = pagecache.New(fetcher, store,
		time.Duration(cfg.Fetch.CacheTTLSec)*time.Second, metrics.PageCacheTotal, logger)

	server := httpapi.NewServer(pipelineSvc, fetcher, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
