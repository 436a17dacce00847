package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/app"
	"github.com/kailas-cloud/jobmatch/internal/config"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	chiTransport "github.com/kailas-cloud/jobmatch/internal/transport/chi"
	"github.com/kailas-cloud/jobmatch/internal/version"
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

	logger.Info("Starting jobmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_source", cfg.Corpus.Source),
		zap.String("strategy", cfg.Vectorizer.Strategy),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer a.Close()

	server := chiTransport.NewServer(a.Matcher, a.Corpus, a.Health, a.Extractor, chiTransport.Limits{
		MatchedKeywords:   cfg.Matching.MatchedLimit,
		SuggestedKeywords: cfg.Matching.SuggestedLimit,
		ReferenceKeywords: cfg.Matching.ReferenceLimit,
		MaxUploadBytes:    cfg.MaxUploadBytes(),
	}, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, metrics.Middleware(), logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Requests get index_not_ready until the corpus is published. A failed
	// load is terminal and already logged by the corpus service; the process
	// keeps serving 503 until restarted.
	go func() { _ = a.LoadCorpus(ctx) }()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
