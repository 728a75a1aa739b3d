// @title                       Taskboard API
// @version                     1.0
// @description                 Tasks, comments, labels, categories and attachments with identity-provider backed authorization.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskflow/taskboard/internal/api"
	"github.com/taskflow/taskboard/internal/core/service"
	"github.com/taskflow/taskboard/internal/infrastructure/db/mongo"
	"github.com/taskflow/taskboard/internal/infrastructure/db/redis"
	"github.com/taskflow/taskboard/internal/infrastructure/db/sqldb"
	"github.com/taskflow/taskboard/internal/infrastructure/http/handlers"
	"github.com/taskflow/taskboard/internal/infrastructure/identity"
	"github.com/taskflow/taskboard/internal/pkg/config"
	"github.com/taskflow/taskboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskboard",
	})
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	db, err := sqldb.Open(ctx, sqldb.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN}, logger.Component("gorm"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	activityRepo := mongo.NewActivityRepository(mongoDB)
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure activity indexes")
	}
	blobs := mongo.NewBlobStore(mongoDB, cfg.Mongo.AttachmentsBucket, cfg.Mongo.PublicURL)

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	tasks := sqldb.NewTaskRepository(db)
	categories := sqldb.NewCategoryRepository(db)
	comments := sqldb.NewCommentRepository(db)
	attachments := sqldb.NewAttachmentRepository(db)
	labels := sqldb.NewLabelRepository(db)

	// --- Identity ---
	directory := identity.NewClient(identity.Config{
		BaseURL: cfg.Identity.BaseURL,
		APIKey:  cfg.Identity.APIKey,
		Timeout: cfg.Identity.Timeout,
	})
	identitySvc := service.NewIdentityService(directory, logger.Component("identity_service"))
	permissions := service.NewPermissionService(identitySvc)

	// --- Services ---
	svc := api.Services{
		Tasks: service.NewTaskService(service.TaskServiceDeps{
			Tasks:       tasks,
			Categories:  categories,
			Attachments: attachments,
			Blobs:       blobs,
			Activity:    activityRepo,
			Idempotency: redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
			Identity:    identitySvc,
			Permissions: permissions,
		}, logger.Component("task_service")),
		Comments:    service.NewCommentService(comments, tasks, activityRepo, identitySvc, permissions, logger.Component("comment_service")),
		Attachments: service.NewAttachmentService(attachments, tasks, blobs, activityRepo, permissions, logger.Component("attachment_service")),
		Labels:      service.NewLabelService(labels, tasks, activityRepo, permissions, logger.Component("label_service")),
		Categories:  service.NewCategoryService(categories, logger.Component("category_service")),
		Users:       service.NewUserService(identitySvc, logger.Component("user_service")),
	}

	e := api.NewRouter(svc, api.Options{
		JWTSecret:   cfg.JWTSecret,
		Development: cfg.IsDevelopment(),
		Logger:      logger.Component("http"),
		Dependencies: []handlers.Dependency{
			{Name: "database", Pinger: sqldb.Pinger{DB: db}},
			{Name: "mongodb", Pinger: mongo.Pinger{Client: mongoClient}},
			{Name: "redis", Pinger: redis.Pinger{Client: rdb}},
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
