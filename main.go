package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"loan-desk/config"
	httpLayer "loan-desk/http"
	"loan-desk/repository"
	"loan-desk/service"
	"loan-desk/tracing"
	"loan-desk/web"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := tracing.Init("loan-desk", version, cfg.TraceFile)
		if err != nil {
			log.WithError(err).Fatal("failed to initialise tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.WithError(err).Warn("failed to flush traces")
			}
		}()
	}

	var cache repository.CacheRepository
	switch cfg.CacheBackend {
	case config.CacheRedis:
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "loan-desk:")
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Fatal("redis is not reachable")
		}
		defer redisCache.Close()
		cache = redisCache
	default:
		memoryCache := repository.NewMemoryCache()
		go memoryCache.RunJanitor(ctx, 10*time.Minute)
		cache = memoryCache
	}

	samples, err := repository.SampleRecords()
	if err != nil {
		log.WithError(err).Fatal("failed to load sample records")
	}
	recordRepo, err := repository.NewRecordRepositoryMemory(samples...)
	if err != nil {
		log.WithError(err).Fatal("failed to seed records")
	}

	documentStore, err := repository.NewDocumentStoreAFS(ctx, cfg.DocumentsURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open document store")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("failed to load templates")
	}

	sessionService := service.NewSessionService(repository.NewCacheSessionRepository(cache, cfg.SessionTTL))
	documentService := service.NewDocumentService(documentStore, cfg.MaxUploadBytes, cfg.AllowedExtensions, log)
	tableService := service.NewTableService(recordRepo, documentService, log)
	formService := service.NewFormService(recordRepo, documentService, log)
	loanService := service.NewLoanService(cache, log)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		Tables:       httpLayer.NewTableHandler(sessionService, tableService, renderer, log),
		Forms:        httpLayer.NewFormHandler(sessionService, tableService, formService, renderer, log, cfg.MaxUploadBytes),
		Loans:        httpLayer.NewLoanHandler(loanService, cfg.DefaultAnnualRate, log),
		Sessions:     sessionService,
		RateLimiter:  rateLimiter,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
		TrustProxy:   cfg.TrustProxy,
		Log:          log,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "version": version}).Info("loan desk listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.WithError(err).Error("error starting server")
		return
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error during server shutdown")
	}

	log.Info("server exited")
}
