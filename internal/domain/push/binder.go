package push

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitnessai-client-go/internal/domain/eventbus"
	"fitnessai-client-go/internal/domain/session/store"
	platformerrors "fitnessai-client-go/internal/platform/errors"
)

// Binder ties device push registration to session lifetime. It registers
// the push identifier when a session becomes authenticated and
// deregisters it during an explicit logout; a session that merely expired
// leaves the registration flag untouched, since the identifier stays
// valid and re-associates on the next login.
//
// The binder is stateless across restarts: the already-registered flag
// and the device id live in the same persisted store as the credentials.
type Binder struct {
	provider Provider
	backend  Backend
	store    store.Store
	platform string
	device   string
	logger   *slog.Logger

	mutex sync.Mutex
}

// Config carries the install facts tagged onto registrations.
type Config struct {
	Platform   string
	DeviceName string
}

func NewBinder(provider Provider, backend Backend, st store.Store, cfg Config, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{
		provider: provider,
		backend:  backend,
		store:    st,
		platform: cfg.Platform,
		device:   cfg.DeviceName,
		logger:   logger,
	}
}

// Attach subscribes the binder to session transitions. Registration runs
// in the background; deregistration runs inline with the logging-out
// transition while the bearer token is still live.
func (b *Binder) Attach(bus eventbus.Bus) error {
	if err := bus.Subscribe(eventbus.EventSessionAuthenticated, b.onAuthenticated); err != nil {
		return platformerrors.Wrap(platformerrors.KindPush, "push.attach", "failed to subscribe", err)
	}
	if err := bus.Subscribe(eventbus.EventSessionLoggingOut, b.onLoggingOut); err != nil {
		return platformerrors.Wrap(platformerrors.KindPush, "push.attach", "failed to subscribe", err)
	}
	return nil
}

func (b *Binder) onAuthenticated(evt eventbus.AuthenticatedEvent) {
	if evt.Reason != eventbus.ReasonLogin && evt.Reason != eventbus.ReasonRestore {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.Register(ctx); err != nil {
			b.logger.Warn("push registration failed", "error", err)
		}
	}()
}

func (b *Binder) onLoggingOut() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.Deregister(ctx); err != nil {
		b.logger.Warn("push deregistration failed", "error", err)
	}
}

// Register obtains permission and a push identifier and records it with
// the backend. Idempotent: once the store says registered, repeat calls
// are no-ops and issue no backend request.
func (b *Binder) Register(ctx context.Context) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	state, err := b.store.DeviceState(ctx)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "push.register", "failed to read device state", err)
	}
	if state.PushRegistered {
		return nil
	}

	granted, err := b.provider.RequestPermission(ctx)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindPush, "push.register", "permission request failed", err)
	}
	if !granted {
		b.logger.Info("notification permission declined, skipping push registration")
		return nil
	}

	identifier, err := b.provider.Identifier(ctx)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindPush, "push.register", "failed to obtain push identifier", err)
	}

	if state.DeviceID == "" {
		state.DeviceID = uuid.NewString()
	}

	if err := b.backend.RegisterPushToken(ctx, identifier, b.platform, state.DeviceID); err != nil {
		return platformerrors.Wrap(platformerrors.KindPush, "push.register", "backend registration failed", err)
	}

	state.PushIdentifier = identifier
	state.PushRegistered = true
	if err := b.store.SaveDeviceState(ctx, state); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "push.register", "failed to persist device state", err)
	}
	b.logger.Info("push identifier registered", "platform", b.platform)
	return nil
}

// Deregister tells the backend to drop the identifier and clears the
// local flag. The backend call is best-effort: a stale record there is a
// backend-side cleanup concern, not a client invariant. The identifier
// itself is kept; it remains valid for the next session.
func (b *Binder) Deregister(ctx context.Context) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	state, err := b.store.DeviceState(ctx)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "push.deregister", "failed to read device state", err)
	}
	if !state.PushRegistered {
		return nil
	}

	if state.PushIdentifier != "" {
		if err := b.backend.DeactivatePushToken(ctx, state.PushIdentifier); err != nil {
			b.logger.Warn("backend push deactivation failed, clearing local flag anyway", "error", err)
		}
	}

	state.PushRegistered = false
	if err := b.store.SaveDeviceState(ctx, state); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "push.deregister", "failed to persist device state", err)
	}
	return nil
}
