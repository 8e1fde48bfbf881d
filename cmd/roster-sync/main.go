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
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-rating-sync/api/swagger"
	"github.com/noah-isme/sma-rating-sync/internal/handler"
	"github.com/noah-isme/sma-rating-sync/internal/repository"
	"github.com/noah-isme/sma-rating-sync/internal/service"
	"github.com/noah-isme/sma-rating-sync/pkg/auth"
	"github.com/noah-isme/sma-rating-sync/pkg/cache"
	"github.com/noah-isme/sma-rating-sync/pkg/config"
	"github.com/noah-isme/sma-rating-sync/pkg/database"
	"github.com/noah-isme/sma-rating-sync/pkg/export"
	"github.com/noah-isme/sma-rating-sync/pkg/logger"
)

// @title SMA Rating Sync Bridge
// @version 0.1.0
// @description Local bridge between the rating UI and the student API
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := service.NewMetricsService()
	sinks := []service.NotificationSink{service.NewLogSink(logr)}

	if cfg.Notifications.RedisEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, notification publishing disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			sinks = append(sinks, repository.NewNotificationPublisher(client, cfg.Notifications.RedisChannel))
		}
	}

	var journal *repository.OutcomeRepository
	if cfg.Notifications.JournalEnabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Warn("postgres unavailable, outcome journal disabled", zap.Error(err))
		} else {
			defer db.Close() //nolint:errcheck
			repo := repository.NewOutcomeRepository(db)
			if err := repo.EnsureSchema(ctx); err != nil {
				logr.Warn("outcome journal disabled", zap.Error(err))
			} else {
				journal = repo
				sinks = append(sinks, service.NewJournalSink(journal))
			}
		}
	}

	notifier := service.NewNotificationService(nil, sinks, service.NotificationConfig{
		DisplayTimeout: cfg.Notifications.DisplayTimeout,
		Workers:        cfg.Notifications.Workers,
		BufferSize:     cfg.Notifications.BufferSize,
		MaxRetries:     cfg.Notifications.MaxRetries,
		RetryDelay:     cfg.Notifications.RetryDelay,
	}, metrics, logr)
	notifier.Start(context.Background())

	signer := auth.NewSigner(cfg.API.SigningSecret, cfg.API.TokenIssuer, uuid.NewString(), cfg.API.TokenTTL)
	students := repository.NewStudentAPIRepository(cfg.API, nil, signer, metrics, logr)

	roster := service.NewRosterService(students, notifier, validator.New(), metrics, logr, service.RosterConfig{
		ConfirmationsEnabled: cfg.Notifications.ConfirmationsEnabled,
	})
	roster.Start(ctx)

	csvExporter := &export.CSVExporter{Comma: cfg.Export.CSVDelimiter, BOM: cfg.Export.CSVBOM}
	exporter := service.NewExportService(roster, csvExporter, nil, logr)

	notificationHandler := handler.NewNotificationHandler(notifier.Feed(), nil)
	if journal != nil {
		notificationHandler = handler.NewNotificationHandler(notifier.Feed(), journal)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Roster:         handler.NewRosterHandler(roster, exporter),
		Notifications:  notificationHandler,
		Metrics:        metrics,
		Logger:         logr,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.BridgePort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("bridge starting", "addr", srv.Addr, "env", cfg.Env, "api_base", cfg.API.Base)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("bridge failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("bridge shutdown", zap.Error(err))
	}
	notifier.Stop()
}
