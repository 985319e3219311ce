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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/facegaze-attendance-api/api/swagger"
	"github.com/noah-isme/facegaze-attendance-api/internal/handler"
	internalmiddleware "github.com/noah-isme/facegaze-attendance-api/internal/middleware"
	"github.com/noah-isme/facegaze-attendance-api/internal/repository"
	"github.com/noah-isme/facegaze-attendance-api/internal/service"
	"github.com/noah-isme/facegaze-attendance-api/pkg/cache"
	"github.com/noah-isme/facegaze-attendance-api/pkg/config"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
	"github.com/noah-isme/facegaze-attendance-api/pkg/logger"
	bodylimitmiddleware "github.com/noah-isme/facegaze-attendance-api/pkg/middleware/bodylimit"
	corsmiddleware "github.com/noah-isme/facegaze-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/facegaze-attendance-api/pkg/middleware/requestid"
)

// @title FaceGaze Attendance API
// @version 1.0.0
// @description Lecture roster management and face-matched attendance check-ins
// @BasePath /api
// @schemes http https

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	gateway := database.NewGateway(db, database.GatewayOptions{
		QueryTimeout: cfg.Database.QueryTimeout,
		Observer:     metricsSvc,
		Logger:       logr.Named("database"),
	})
	defer gateway.Close() //nolint:errcheck

	probes := map[string]handler.Pinger{"database": gateway}

	var sessionStore service.SessionStore
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect session redis: %w", err)
		}
		defer client.Close() //nolint:errcheck
		redisStore := repository.NewRedisSessionStore(client)
		probes["redis"] = redisStore
		sessionStore = redisStore
	default:
		sessionStore = repository.NewMemorySessionStore()
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(gateway)
	attendanceRepo := repository.NewAttendanceRepository(gateway)
	lectureRepo := repository.NewLectureRepository(gateway)

	rosterSvc := service.NewRosterService(studentRepo, validate, logr.Named("roster"), service.RosterConfig{
		RequireProfileImage: cfg.Roster.RequireProfileImage,
	})
	var checkIns interface{ RecordCheckIn(string) }
	if cfg.Metrics.Enabled {
		checkIns = metricsSvc
	}
	attendanceSvc := service.NewAttendanceService(attendanceRepo, validate, logr.Named("attendance"), checkIns)
	sessionSvc, err := service.NewSessionService(lectureRepo, sessionStore, validate, logr.Named("session"), service.SessionConfig{
		Secret:       cfg.Session.Secret,
		TTL:          cfg.Session.TTL,
		PasswordHash: cfg.Auth.PasswordHash,
		Password:     cfg.Auth.Password,
	})
	if err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.Session.Header))
	r.Use(bodylimitmiddleware.Middleware(cfg.MaxBodyBytes))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metricsSvc))
	}

	var metricsHandler *handler.MetricsHandler
	if cfg.Metrics.Enabled {
		metricsHandler = handler.NewMetricsHandler(metricsSvc, probes)
	} else {
		metricsHandler = handler.NewMetricsHandler(nil, probes)
	}

	handler.Routes{
		APIPrefix:        cfg.APIPrefix,
		SessionHeader:    cfg.Session.Header,
		DefaultLectureID: cfg.Lecture.DefaultID,
		RequireSession:   cfg.Roster.RequireSession,
		Resolver:         sessionSvc,
		Auth:             handler.NewAuthHandler(sessionSvc, cfg.Session.Header),
		Roster:           handler.NewRosterHandler(rosterSvc),
		Attendance:       handler.NewAttendanceHandler(attendanceSvc),
		Metrics:          metricsHandler,
	}.Register(r)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("session_backend", cfg.Session.Backend),
			zap.String("default_lecture", cfg.Lecture.DefaultID),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
