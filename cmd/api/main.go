package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chargeshare/internal/app"
	"chargeshare/internal/config"
	"chargeshare/internal/domain/booking"
	"chargeshare/internal/domain/charger"
	"chargeshare/internal/middleware"
	jwtsvc "chargeshare/internal/pkg/jwt"
	"chargeshare/internal/pkg/logger"
	"chargeshare/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(config.IsProdLike(cfg.AppEnv), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("startup failed", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	chargerHandler := charger.NewHandler(a.Chargers, zl.Named("charger"))
	bookingHandler := booking.NewHandler(a.Bookings, a.Notifier, zl.Named("booking"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep, err := scheduler.NewSweeper(a.Bookings, a.Notifier, zl.Named("sweep")).Start(ctx, cfg.SweepInterval)
	if err != nil {
		zl.Fatal("booking sweep failed to start", zap.Error(err))
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(zl), middleware.CORS(cfg.AllowedOrigins()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		chargerHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			chargerHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
		{
			chargerHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
		}

		if cfg.InternalToken != "" {
			internal := v1.Group("/internal")
			internal.Use(middleware.InternalTokenAuth(cfg.InternalToken, cfg.InternalIPs(), zl.Named("internal")))
			bookingHandler.RegisterInternalRoutes(internal)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	if err := sweep.Shutdown(); err != nil {
		zl.Error("booking sweep shutdown", zap.Error(err))
	}
	zl.Info("server stopped")
}
