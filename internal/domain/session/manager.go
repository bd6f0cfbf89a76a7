package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"fitnessai-client-go/internal/domain/eventbus"
	"fitnessai-client-go/internal/domain/session/model"
	"fitnessai-client-go/internal/domain/session/store"
	platformerrors "fitnessai-client-go/internal/platform/errors"
)

// AuthAPI is the slice of the backend the session lifecycle needs. The
// transport layer implements it with plain (non-intercepted) calls so a
// renewal can never recurse into itself.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.Credentials, error)
	Register(ctx context.Context, input RegisterInput) (model.User, error)
	// Refresh exchanges the refresh token for a new access token. The
	// returned RefreshToken is empty unless the backend rotated it.
	Refresh(ctx context.Context, refreshToken string) (model.Credentials, error)
	Logout(ctx context.Context, creds model.Credentials) error
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// Manager owns the session: it drives the state machine, keeps the
// credential store in step with the in-memory pair, and coalesces
// concurrent renewals. It is safe for concurrent use.
type Manager struct {
	api    AuthAPI
	store  store.Store
	logger *slog.Logger

	mutex   sync.Mutex
	machine *stateMachine
	// generation increments on logout; results of calls started under an
	// older generation are discarded, so discarding credentials always
	// wins over restoring them.
	generation uint64

	renewGroup singleflight.Group
}

// NewManager wires the session manager. bus may be nil when no subscriber
// cares about transitions.
func NewManager(api AuthAPI, st store.Store, bus eventbus.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:     api,
		store:   st,
		logger:  logger,
		machine: newStateMachine(bus),
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.machine.state
}

// Current returns a copy of the active session.
func (m *Manager) Current() model.Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.machine.session
}

// AccessToken returns the live access token, or empty when signed out.
// The in-memory value is authoritative during a request's lifetime.
func (m *Manager) AccessToken() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.machine.session.Credentials.AccessToken
}

// LastError returns the error recorded by the most recent failed
// transition, if any.
func (m *Manager) LastError() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.machine.lastErr
}

// Restore rebuilds the session from the credential store at startup. The
// stored pair is trusted without a backend round-trip; validity surfaces
// lazily when the first request earns a 401. An unreadable store degrades
// to requiring a fresh login rather than failing the launch.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	creds, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("stored session unreadable, fresh login required", "error", err)
		return false, nil
	}
	if !ok {
		return false, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.machine.state != StateUnauthenticated {
		return false, platformerrors.New(platformerrors.KindSession, "session.restore",
			"restore requires an unauthenticated session")
	}
	sess := model.Session{
		Credentials: creds,
		User:        userFromAccessToken(creds.AccessToken),
	}
	if err := m.machine.becomeAuthenticated(sess, eventbus.ReasonRestore); err != nil {
		return false, err
	}
	return true, nil
}

// Login authenticates against the backend and persists the issued pair.
// On failure the stored tokens are untouched and the session returns to
// unauthenticated.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Session, error) {
	m.mutex.Lock()
	if err := m.machine.to(StateAuthenticating); err != nil {
		m.mutex.Unlock()
		return model.Session{}, err
	}
	gen := m.generation
	m.mutex.Unlock()

	creds, err := m.api.Login(ctx, email, password)

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if gen != m.generation {
		// A logout landed while the login was in flight; its verdict
		// stands and this result is dropped.
		return model.Session{}, platformerrors.New(platformerrors.KindSession, "session.login",
			"login superseded by logout")
	}
	if err != nil {
		m.machine.becomeUnauthenticated(eventbus.ReasonLoginFailed, err)
		return model.Session{}, platformerrors.Wrap(platformerrors.KindAuth, "session.login", "login failed", err)
	}
	if err := m.store.Save(ctx, creds); err != nil {
		m.machine.becomeUnauthenticated(eventbus.ReasonLoginFailed, err)
		return model.Session{}, platformerrors.Wrap(platformerrors.KindStorage, "session.login",
			"failed to persist credentials", err)
	}
	sess := model.Session{
		Credentials: creds,
		User:        userFromAccessToken(creds.AccessToken),
	}
	if err := m.machine.becomeAuthenticated(sess, eventbus.ReasonLogin); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// Register creates an account. The backend returns a profile, not tokens,
// so the session state is untouched; the caller logs in afterwards.
func (m *Manager) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	user, err := m.api.Register(ctx, input)
	if err != nil {
		return model.User{}, platformerrors.Wrap(platformerrors.KindAuth, "session.register",
			"registration failed", err)
	}
	return user, nil
}

// Logout ends the session. The backend call is best-effort; local
// credentials are cleared unconditionally because holding a token the
// user asked to discard is worse than a stale backend record.
func (m *Manager) Logout(ctx context.Context) error {
	m.mutex.Lock()
	m.generation++
	creds := m.machine.session.Credentials
	if err := m.machine.to(StateLoggingOut); err != nil {
		m.mutex.Unlock()
		return err
	}
	bus := m.machine.bus
	m.mutex.Unlock()

	// Published before the backend call and before clearing, so
	// subscribers (push deregistration) still hold a live token.
	if bus != nil {
		bus.Publish(eventbus.EventSessionLoggingOut)
	}

	if creds.Complete() {
		if err := m.api.Logout(ctx, creds); err != nil {
			m.logger.Warn("backend logout failed, clearing local session anyway", "error", err)
		}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear stored credentials", "error", err)
	}
	m.machine.becomeUnauthenticated(eventbus.ReasonLogout, nil)
	return nil
}

// Renew exchanges the refresh token for a new access token and returns
// it. Concurrent callers coalesce into a single backend refresh call and
// share its outcome; under refresh-token rotation a second in-flight
// renewal would race the rotated token and force a spurious logout.
func (m *Manager) Renew(ctx context.Context) (string, error) {
	token, err, _ := m.renewGroup.Do("renew", func() (interface{}, error) {
		return m.renew(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *Manager) renew(ctx context.Context) (string, error) {
	m.mutex.Lock()
	refresh := m.machine.session.Credentials.RefreshToken
	if refresh == "" {
		m.mutex.Unlock()
		return "", platformerrors.New(platformerrors.KindAuth, "session.renew",
			"no refresh token, login required")
	}
	gen := m.generation
	if err := m.machine.beginRefreshing(); err != nil {
		m.mutex.Unlock()
		return "", err
	}
	m.mutex.Unlock()

	renewed, err := m.api.Refresh(ctx, refresh)

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if gen != m.generation {
		return "", platformerrors.New(platformerrors.KindSession, "session.renew",
			"renewal superseded by logout")
	}
	if err != nil {
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Warn("failed to clear stored credentials", "error", clearErr)
		}
		m.machine.becomeUnauthenticated(eventbus.ReasonExpired, err)
		return "", platformerrors.Wrap(platformerrors.KindAuth, "session.renew", "session expired", err)
	}

	creds := model.Credentials{
		AccessToken:  renewed.AccessToken,
		RefreshToken: refresh,
	}
	if renewed.RefreshToken != "" {
		// Rotated refresh token is persisted immediately on receipt so a
		// crash before the caller's retry cannot lose it.
		creds.RefreshToken = renewed.RefreshToken
	}
	if err := m.store.Save(ctx, creds); err != nil {
		m.machine.becomeUnauthenticated(eventbus.ReasonExpired, err)
		return "", platformerrors.Wrap(platformerrors.KindStorage, "session.renew",
			"failed to persist renewed credentials", err)
	}

	sess := m.machine.session
	sess.Credentials = creds
	if err := m.machine.becomeAuthenticated(sess, eventbus.ReasonRefresh); err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}
