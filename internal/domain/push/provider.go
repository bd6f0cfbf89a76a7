package push

import "context"

// Provider is the platform notification service seam: permission prompt
// plus device push identifier. On device this fronts FCM/APNs; tests use
// a fake.
type Provider interface {
	// RequestPermission prompts the user when the platform requires it.
	// Returns false when the user declined.
	RequestPermission(ctx context.Context) (bool, error)
	// Identifier returns the opaque push token issued by the platform.
	Identifier(ctx context.Context) (string, error)
}

// Backend is the slice of the API the binder needs. The transport client
// implements it over the bearer endpoints.
type Backend interface {
	RegisterPushToken(ctx context.Context, token, platform, deviceID string) error
	DeactivatePushToken(ctx context.Context, token string) error
}

// staticProvider always grants permission and hands out a fixed
// identifier. Used where the identifier arrives from outside the process
// (injected by the host app or an environment variable).
type staticProvider struct {
	identifier string
}

// NewStaticProvider wraps a pre-obtained push identifier as a Provider.
func NewStaticProvider(identifier string) Provider {
	return &staticProvider{identifier: identifier}
}

func (p *staticProvider) RequestPermission(context.Context) (bool, error) {
	return p.identifier != "", nil
}

func (p *staticProvider) Identifier(context.Context) (string, error) {
	return p.identifier, nil
}
