package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/flightdeskhq/flightdesk-api/api/swagger"
	"github.com/flightdeskhq/flightdesk-api/internal/handler"
	"github.com/flightdeskhq/flightdesk-api/internal/middleware"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	"github.com/flightdeskhq/flightdesk-api/internal/repository"
	"github.com/flightdeskhq/flightdesk-api/internal/service"
	"github.com/flightdeskhq/flightdesk-api/internal/timeline"
	"github.com/flightdeskhq/flightdesk-api/pkg/cache"
	"github.com/flightdeskhq/flightdesk-api/pkg/config"
	"github.com/flightdeskhq/flightdesk-api/pkg/database"
	"github.com/flightdeskhq/flightdesk-api/pkg/logger"
	corsmiddleware "github.com/flightdeskhq/flightdesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/flightdeskhq/flightdesk-api/pkg/middleware/requestid"
	"github.com/flightdeskhq/flightdesk-api/pkg/storage"
)

// @title FlightDesk API
// @version 1.0.0
// @description Flight school instructor roster and availability service
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, day view caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	rosterRepo := repository.NewRosterRepository(db)

	metricsSvc := service.NewMetricsService()

	timelineSvc := service.NewTimelineService(rosterRepo, redisClient, timeline.Config{
		DayStartHour:    cfg.Timeline.DayStartHour,
		DayEndHour:      cfg.Timeline.DayEndHour,
		IntervalMinutes: cfg.Timeline.IntervalMinutes,
	}, cfg.Timeline.DayViewCacheTTL, logr, metricsSvc)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	instructorSvc := service.NewInstructorService(instructorRepo, validate, logr)
	rosterSvc := service.NewRosterService(rosterRepo, instructorRepo, timelineSvc, validate, logr, metricsSvc)

	var (
		exportSvc  *service.RosterExportService
		archiveSvc *service.ExportArchiveService
	)
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export archive", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Exports.DownloadTTL)
		archiveSvc = service.NewExportArchiveService(store, signer, service.ArchiveConfig{
			ArchiveTTL:   cfg.Exports.ArchiveTTL,
			QueueWorkers: cfg.Exports.QueueWorkers,
		}, logr)
		archiveSvc.Start(ctx)
		defer archiveSvc.Stop()

		exportSvc = service.NewRosterExportService(rosterRepo, instructorRepo, archiveSvc, logr)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	timelineHandler := handler.NewTimelineHandler(timelineSvc)
	var rosterHandler *handler.RosterHandler
	if exportSvc != nil {
		rosterHandler = handler.NewRosterHandler(rosterSvc, exportSvc, archiveSvc)
	} else {
		rosterHandler = handler.NewRosterHandler(rosterSvc, nil, nil)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/instructors", instructorHandler.List)
	authed.GET("/instructors/:id", instructorHandler.Get)
	authed.GET("/roster/rules", rosterHandler.List)
	authed.POST("/roster/rules/preview", rosterHandler.Preview)
	authed.GET("/roster/day", timelineHandler.DayView)
	authed.POST("/roster/day/click", timelineHandler.MapClick)
	authed.GET("/roster/export", rosterHandler.Export)
	authed.GET("/roster/export/archive", rosterHandler.DownloadArchived)

	managers := authed.Group("")
	managers.Use(middleware.RequireRoles(models.RoleOwner, models.RoleAdmin, models.RoleInstructor))

	managers.POST("/instructors", instructorHandler.Create)
	managers.PUT("/instructors/:id", instructorHandler.Update)
	managers.DELETE("/instructors/:id", instructorHandler.Deactivate)
	managers.POST("/roster/rules", rosterHandler.Create)
	managers.PUT("/roster/rules/:id", rosterHandler.Update)
	managers.DELETE("/roster/rules/:id", rosterHandler.Void)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		logr.Sugar().Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Sugar().Warnw("graceful shutdown failed", "error", err)
		}
	}()

	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
