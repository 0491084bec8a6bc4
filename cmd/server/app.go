package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/study-planner/internal/api"
	"github.com/phrazzld/study-planner/internal/backup"
	"github.com/phrazzld/study-planner/internal/config"
	"github.com/phrazzld/study-planner/internal/platform/blob"
	blobfs "github.com/phrazzld/study-planner/internal/platform/blob/fs"
	blobs3 "github.com/phrazzld/study-planner/internal/platform/blob/s3"
	"github.com/phrazzld/study-planner/internal/platform/filestore"
	"github.com/phrazzld/study-planner/internal/platform/metrics"
	"github.com/phrazzld/study-planner/internal/platform/postgres"
	redisstore "github.com/phrazzld/study-planner/internal/platform/redis"
	"github.com/phrazzld/study-planner/internal/platform/sqlite"
	"github.com/phrazzld/study-planner/internal/service"
	"github.com/phrazzld/study-planner/internal/store"
)

// application holds all the dependencies for the server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	planner  service.PlannerService
	archiver *backup.Archiver
	handler  *api.PlannerHandler
	closers  []io.Closer
}

// newApplication wires the record backend, the backup sink and the planner
// service selected by cfg. On error every resource opened so far is closed.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}
	if err := app.init(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully",
		"storage_driver", cfg.Storage.Driver,
		"backup_driver", cfg.Backup.Driver,
		"metrics_enabled", cfg.Metrics.Enabled)
	return app, nil
}

func (app *application) init(ctx context.Context) error {
	cfg := app.config
	logger := app.logger

	records, err := app.openRecords(ctx)
	if err != nil {
		return err
	}

	sink, err := app.openBackupSink(ctx)
	if err != nil {
		return err
	}
	app.archiver = backup.NewArchiver(sink, cfg.Backup.Prefix, logger)

	docStore, err := store.NewDocumentStore(records, logger)
	if err != nil {
		return fmt.Errorf("failed to create document store: %w", err)
	}

	app.planner, err = service.NewPlannerService(ctx, docStore, logger,
		service.WithRecorder(app.metrics),
		service.WithFailOnCorrupt(cfg.Storage.OnCorrupt == config.OnCorruptFail),
	)
	if err != nil {
		return fmt.Errorf("failed to load planner document: %w", err)
	}

	app.handler = api.NewPlannerHandler(app.planner, app.archiver, logger)
	return nil
}

// openRecords returns the store.RecordStore for cfg.Storage.Driver.
func (app *application) openRecords(ctx context.Context) (store.RecordStore, error) {
	cfg := app.config.Storage

	switch cfg.Driver {
	case config.DriverMemory:
		app.logger.Warn("Using in-memory storage; planner data is lost on restart")
		return store.NewMemoryRecords(), nil

	case config.DriverFile:
		records, err := filestore.New(cfg.FileDir, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return records, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		app.closers = append(app.closers, db)
		return sqlite.NewRecords(db, app.logger)

	case config.DriverPostgres:
		app.logger.Info("Connecting to postgres", "url", postgres.MaskURL(cfg.PostgresURL))
		db, err := postgres.Open(ctx, cfg.PostgresURL, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		app.closers = append(app.closers, db)
		if err := postgres.Migrate(ctx, db, app.logger); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres database: %w", err)
		}
		return postgres.NewRecords(db, app.logger)

	case config.DriverRedis:
		client, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.closers = append(app.closers, client)
		return redisstore.NewRecords(client, cfg.RedisPrefix, app.logger)

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// openBackupSink returns the blob.Store for cfg.Backup.Driver, or nil when
// backups are disabled.
func (app *application) openBackupSink(ctx context.Context) (blob.Store, error) {
	cfg := app.config.Backup

	switch cfg.Driver {
	case "", config.BackupNone:
		return nil, nil

	case config.BackupFS:
		sink, err := blobfs.New(cfg.FSDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open backup directory: %w", err)
		}
		return sink, nil

	case config.BackupS3:
		sink, err := blobs3.New(ctx, blobs3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3 backups: %w", err)
		}
		return sink, nil

	default:
		return nil, fmt.Errorf("unsupported backup driver %q", cfg.Driver)
	}
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes database and cache connections in reverse order of opening.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error("Error closing connection", "error", err)
		}
	}
	app.closers = nil

	app.logger.Info("Application shutdown completed")
}
