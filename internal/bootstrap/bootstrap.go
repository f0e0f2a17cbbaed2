// Package bootstrap assembles the ledger, its persistence and the remote mirror from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	"github.com/noah-isme/sma-fees-ledger/internal/repository"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/cache"
	"github.com/noah-isme/sma-fees-ledger/pkg/config"
	"github.com/noah-isme/sma-fees-ledger/pkg/database"
	"github.com/noah-isme/sma-fees-ledger/pkg/storage"
)

type snapshotRepository interface {
	Load(ctx context.Context) (*models.SnapshotPatch, error)
	Save(ctx context.Context, snapshot models.Snapshot) error
}

type mirrorRepository interface {
	Push(ctx context.Context, snapshot models.Snapshot) error
	Pull(ctx context.Context) ([]byte, error)
}

// Options tweak what New wires.
type Options struct {
	// DisableMirror skips Redis entirely; the offline CLI uses it.
	DisableMirror bool
	Metrics       *service.MetricsService
}

// App holds the long-lived ledger components.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Validator *validator.Validate
	Ledger    *service.LedgerStore
	Mirror    *service.MirrorService
	Metrics   *service.MetricsService
	Checks    map[string]func(ctx context.Context) error

	closers []func() error
}

// New opens the configured snapshot store, restores the ledger and connects the mirror.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Validator: validator.New(),
		Metrics:   opts.Metrics,
		Checks:    make(map[string]func(ctx context.Context) error),
	}

	store, err := app.openSnapshotStore(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	var mirrorRepo mirrorRepository
	if cfg.Mirror.Enabled && !opts.DisableMirror {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("remote mirror unavailable, continuing without it", zap.Error(err))
		} else {
			repo := repository.NewRedisMirrorRepository(client, cfg.Mirror.Key)
			mirrorRepo = repo
			app.closers = append(app.closers, repo.Close)
			app.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}
	app.Mirror = service.NewMirrorService(mirrorRepo, app.Metrics, logger.Named("mirror"), service.MirrorConfig{
		Enabled:     mirrorRepo != nil,
		StatusReset: cfg.Mirror.StatusReset,
		PushTimeout: cfg.Mirror.PushTimeout,
	})

	ids, err := service.NewSnowflakeIDGenerator(cfg.Ledger.NodeID)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Ledger = service.NewLedgerStore(service.LedgerStoreParams{
		Store:     store,
		Mirror:    app.Mirror,
		Metrics:   app.Metrics,
		IDs:       ids,
		Validator: app.Validator,
		Logger:    logger.Named("ledger"),
	})
	if err := app.Ledger.Restore(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	if cfg.Mirror.PullOnStart && app.Mirror.Enabled() && app.Ledger.IsEmpty() {
		app.pullOnStart(ctx)
	}

	return app, nil
}

func (a *App) openSnapshotStore(ctx context.Context) (snapshotRepository, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case config.StorageDriverFile, "":
		local, err := storage.NewLocalStorage(cfg.Storage.FileDir)
		if err != nil {
			return nil, err
		}
		a.Logger.Info("snapshot storage ready", zap.String("driver", config.StorageDriverFile), zap.String("path", local.Path(repository.SnapshotFilename)))
		return repository.NewFileSnapshotRepository(local), nil

	case config.StorageDriverBolt:
		db, err := database.NewBolt(cfg.Storage.BoltPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repo, err := repository.NewBoltSnapshotRepository(db)
		if err != nil {
			return nil, err
		}
		a.Logger.Info("snapshot storage ready", zap.String("driver", config.StorageDriverBolt), zap.String("path", cfg.Storage.BoltPath))
		return repo, nil

	case config.StorageDriverPostgres, config.StorageDriverSQLite:
		db, err := database.Open(cfg.Storage.Driver, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repo := repository.NewSQLSnapshotRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.Checks["database"] = db.PingContext
		a.Logger.Info("snapshot storage ready", zap.String("driver", cfg.Storage.Driver))
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) pullOnStart(ctx context.Context) {
	patch, err := a.Mirror.Pull(ctx)
	if err != nil {
		a.Logger.Warn("mirror pull on start skipped", zap.Error(err))
		return
	}
	a.Ledger.ImportSnapshot(ctx, *patch)
	a.Logger.Info("ledger seeded from remote mirror", zap.Strings("collections", patch.Keys()))
}

// Credentials maps the configured logins to the fixed credential table.
func Credentials(cfg config.AuthConfig) []service.Credential {
	return []service.Credential{
		{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: models.RoleAdmin},
		{Username: cfg.CashierUsername, Password: cfg.CashierPassword, Role: models.RoleCashier},
	}
}

// Close waits for in-flight mirror pushes and releases every opened resource.
func (a *App) Close() error {
	a.Mirror.Wait()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
