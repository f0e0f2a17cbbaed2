package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-fees-ledger/api/swagger"
	"github.com/noah-isme/sma-fees-ledger/internal/bootstrap"
	"github.com/noah-isme/sma-fees-ledger/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-fees-ledger/internal/middleware"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/config"
	"github.com/noah-isme/sma-fees-ledger/pkg/export"
	"github.com/noah-isme/sma-fees-ledger/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-fees-ledger/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-fees-ledger/pkg/middleware/requestid"
)

// @title School Fees Ledger API
// @version 1.0.0
// @description Bookkeeping API for classes, students, teachers, bills and payments.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	app, err := bootstrap.New(ctx, cfg, logr, bootstrap.Options{Metrics: metrics})
	if err != nil {
		logr.Fatal("failed to bootstrap ledger", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logr.Warn("failed to close ledger resources", zap.Error(err))
		}
	}()

	auth, err := service.NewAuthService(app.Validator, logr.Named("auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "sma-fees-ledger",
		Credentials:       bootstrap.Credentials(cfg.Auth),
	})
	if err != nil {
		logr.Fatal("failed to init auth", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(cfg, logr, app, auth)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver, "mirror", app.Mirror.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newRouter(cfg *config.Config, logr *zap.Logger, app *bootstrap.App, auth *service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(app.Metrics))

	checks := make(map[string]handler.ReadinessCheck, len(app.Checks))
	for name, check := range app.Checks {
		checks[name] = check
	}
	metricsHandler := handler.NewMetricsHandler(app.Metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	reports := service.NewReportService(app.Ledger, export.NewCSVExporter(), export.NewPDFExporter(), cfg.Ledger.CurrencySymbol, logr.Named("reports"))
	settings := service.NewSettingsService(app.Ledger, app.Mirror, logr.Named("settings"))

	handler.RegisterRoutes(r, cfg.APIPrefix, auth, handler.Handlers{
		Auth:      handler.NewAuthHandler(auth),
		Classes:   handler.NewClassHandler(app.Ledger),
		Students:  handler.NewStudentHandler(app.Ledger),
		Teachers:  handler.NewTeacherHandler(app.Ledger),
		Bills:     handler.NewBillHandler(app.Ledger),
		Payments:  handler.NewPaymentHandler(app.Ledger),
		Dashboard: handler.NewDashboardHandler(app.Ledger),
		Reports:   handler.NewReportHandler(reports),
		Settings:  handler.NewSettingsHandler(settings),
		Sync:      handler.NewSyncHandler(app.Mirror),
	})
	return r
}
