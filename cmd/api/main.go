package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/cache"
	"github.com/BruksfildServices01/supplier-directory/internal/config"
	dbpkg "github.com/BruksfildServices01/supplier-directory/internal/db"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/payment"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/storage"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	"github.com/BruksfildServices01/supplier-directory/internal/routes"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	if cfg.AWSSecretID != "" {
		if err := cfg.ResolveSecrets(ctx); err != nil {
			log.Fatal("failed to resolve secrets", zap.Error(err))
		}
	}

	warnings, err := cfg.Validate()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	// ======================================================
	// INTEGRAÇÕES OPCIONAIS
	// ======================================================
	var (
		appCache cache.Cache    = cache.Noop{}
		tokens   cache.Denylist = cache.Noop{}
	)
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			appCache, tokens = rc, rc
			defer rc.Close()
		}
	}

	var gateway payment.Gateway
	if mp, err := payment.NewMercadoPago(payment.MercadoPagoOptions{
		AccessToken:     cfg.MPAccessToken,
		NotificationURL: cfg.MPNotificationURL,
		SuccessURL:      cfg.CheckoutSuccessURL,
		FailureURL:      cfg.CheckoutFailureURL,
		PendingURL:      cfg.CheckoutPendingURL,
	}); err == nil {
		gateway = mp
	} else if !errors.Is(err, payment.ErrNotConfigured) {
		log.Error("mercadopago setup failed", zap.Error(err))
	}

	var store storage.Store
	if s3, err := storage.NewS3(storage.S3Options{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	}); err == nil {
		store = s3
	} else if !errors.Is(err, storage.ErrNotConfigured) {
		log.Error("s3 setup failed", zap.Error(err))
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.LogMode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	services := routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Cache:   appCache,
		Tokens:  tokens,
		Audit:   auditDispatcher,
		Gateway: gateway,
		Store:   store,
	})

	go services.Sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
