package bootstrap

import (
	"context"
	"os"

	"github.com/google/uuid"

	"fitnessai-client-go/internal/domain/eventbus"
	"fitnessai-client-go/internal/domain/push"
	"fitnessai-client-go/internal/domain/session"
	sessionstore "fitnessai-client-go/internal/domain/session/store"
	platformconfig "fitnessai-client-go/internal/platform/config"
	platformerrors "fitnessai-client-go/internal/platform/errors"
	platformlogging "fitnessai-client-go/internal/platform/logging"
	platformstorage "fitnessai-client-go/internal/platform/storage"
	"fitnessai-client-go/internal/transport/api"
)

// App is the fully wired client: config, logging, credential store,
// session manager, API client and push binder.
type App struct {
	Config  *platformconfig.Config
	Logger  *platformlogging.Logger
	Store   sessionstore.Store
	Bus     eventbus.Bus
	API     *api.Client
	Session *session.Manager
	Push    *push.Binder
}

// New loads configuration and wires every component. The construction
// order matters: the session manager needs the plain API client, and the
// client's bearer transport needs the manager back, so the client is
// built first and the session bound afterwards.
func New(configPath string) (*App, error) {
	result, err := platformconfig.NewLoader(configPath).Load()
	if err != nil {
		return nil, err
	}
	cfg := result.Config

	logger, err := platformlogging.New(platformlogging.Config{
		Level: cfg.Log.Level,
		Dir:   cfg.Log.Dir,
		File:  cfg.Log.File,
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.logging", "failed to initialise logging", err)
	}

	var deps sessionstore.Dependencies
	if cfg.Storage.Driver == sessionstore.DriverSQLite {
		db, err := platformstorage.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindStorage, "bootstrap.storage", "failed to open database", err)
		}
		deps.SQLiteDB = db
	}
	st, err := sessionstore.New(sessionstore.Config{Driver: cfg.Storage.Driver}, deps)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "bootstrap.storage", "failed to build credential store", err)
	}

	bus := eventbus.New()

	apiClient, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(apiClient, st, bus, logger.Slog())
	apiClient.BindSession(manager, manager)

	binder := push.NewBinder(
		push.NewStaticProvider(pushIdentifier()),
		apiClient,
		st,
		push.Config{Platform: cfg.Device.Platform, DeviceName: cfg.Device.Name},
		logger.Slog(),
	)
	if err := binder.Attach(bus); err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Bus:     bus,
		API:     apiClient,
		Session: manager,
		Push:    binder,
	}, nil
}

// Close releases the store and the log file.
func (a *App) Close(ctx context.Context) error {
	var first error
	if err := a.Store.Close(ctx); err != nil {
		first = err
	}
	if err := a.Logger.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// pushIdentifier returns the identifier injected by the host environment,
// or a development placeholder when none is present.
func pushIdentifier() string {
	if v := os.Getenv("FITNESS_PUSH_IDENTIFIER"); v != "" {
		return v
	}
	return "dev-" + uuid.NewString()
}
