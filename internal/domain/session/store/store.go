package store

import (
	"context"

	"fitnessai-client-go/internal/domain/session/model"
)

// Store is the durable home of the credential pair and the install-scoped
// device state. Implementations persist content verbatim; interpreting a
// pair is the session manager's job.
type Store interface {
	// Save overwrites both tokens. A reader never observes one half
	// updated and the other stale.
	Save(ctx context.Context, creds model.Credentials) error
	// Load returns the last saved pair. ok is false when nothing was
	// saved, the pair was cleared, or only half of it is present.
	Load(ctx context.Context) (creds model.Credentials, ok bool, err error)
	// Clear removes both tokens.
	Clear(ctx context.Context) error

	DeviceState(ctx context.Context) (model.DeviceState, error)
	SaveDeviceState(ctx context.Context, state model.DeviceState) error

	Close(ctx context.Context) error
}

// Config describes the store selection parameters. The sqlite driver
// receives its opened handle through Dependencies.
type Config struct {
	Driver string
}
