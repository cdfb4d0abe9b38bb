package cmd

import (
	"context"
	"fmt"
	"time"

	"fuel-dashboard/core/config"
	"fuel-dashboard/core/database"
	"fuel-dashboard/core/logger"
	"fuel-dashboard/core/reconcile"
	"fuel-dashboard/core/source"
	"fuel-dashboard/core/storage"
	"fuel-dashboard/core/store"
	"fuel-dashboard/feature/etl"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime is the shared state every command starts from.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	repo   *store.Repository
}

// bootstrap loads configuration, builds the logger and opens the store.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	return &runtime{cfg: cfg, logger: logg, db: db, repo: store.New(db)}, nil
}

// storageClient connects to the payload archive bucket, creating it if needed.
func (r *runtime) storageClient(ctx context.Context) (storage.Client, error) {
	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureBucket(ctx, client, r.cfg.Storage.Bucket, r.cfg.Storage.Region); err != nil {
		return nil, err
	}
	return client, nil
}

// archive returns the payload archive, or nil when archiving is disabled or
// storage is unreachable.
func (r *runtime) archive(ctx context.Context) *etl.Archive {
	if !r.cfg.Storage.Enabled {
		return nil
	}
	client, err := r.storageClient(ctx)
	if err != nil {
		r.logger.Warn("Payload archive unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return etl.NewArchive(client, r.cfg.Storage.Bucket, r.cfg.Storage.Prefix, r.cfg.Retention.RetainFor, r.logger)
}

// source picks the payload source: an archived object, a local file, or the
// upstream API.
func (r *runtime) source(ctx context.Context, file, replay string) (source.Source, error) {
	switch {
	case replay != "":
		client, err := r.storageClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		return &source.ArchiveSource{Client: client, Bucket: r.cfg.Storage.Bucket, Object: replay}, nil
	case file != "":
		return &source.FileSource{Path: file}, nil
	case r.cfg.Source.File != "":
		return &source.FileSource{Path: r.cfg.Source.File}, nil
	default:
		return source.NewClient(r.cfg.Source, r.logger), nil
	}
}

// engine builds the reconciliation engine over the store.
func (r *runtime) engine() *reconcile.Engine {
	loc := r.cfg.Source.Location()
	if loc == time.UTC && r.cfg.Source.Timezone != "" && r.cfg.Source.Timezone != "UTC" {
		r.logger.Warn("Unknown source timezone, reading reported timestamps as UTC", zap.String("timezone", r.cfg.Source.Timezone))
	}
	opts := reconcile.OptionsFrom(r.cfg.Retention, loc)
	return reconcile.NewEngine(r.repo, r.logger, opts)
}

// pipeline wires one source into a full ingestion pipeline.
func (r *runtime) pipeline(ctx context.Context, src source.Source, archive bool) *etl.Pipeline {
	var a *etl.Archive
	if archive {
		a = r.archive(ctx)
	}
	return etl.NewPipeline(src, r.engine(), a, r.logger)
}
