package session

import (
	"fmt"

	"fitnessai-client-go/internal/domain/eventbus"
	"fitnessai-client-go/internal/domain/session/model"
	platformerrors "fitnessai-client-go/internal/platform/errors"
)

// State is the authentication status of the client. Authenticated and
// unauthenticated are the only resting states; the others are transient
// and always resolve to one of the two.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
	StateLoggingOut      State = "logging_out"
)

// transitions encodes the legal moves of the session lifecycle. Logout is
// deliberately reachable from every state: discarding credentials must
// always win (see Manager.Logout).
var transitions = map[State][]State{
	StateUnauthenticated: {StateAuthenticating, StateAuthenticated, StateLoggingOut},
	StateAuthenticating:  {StateAuthenticated, StateUnauthenticated, StateLoggingOut},
	StateAuthenticated:   {StateRefreshing, StateLoggingOut},
	StateRefreshing:      {StateAuthenticated, StateUnauthenticated, StateLoggingOut},
	StateLoggingOut:      {StateUnauthenticated},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// stateMachine reduces lifecycle events into state. It is not safe for
// concurrent use on its own; the Manager serialises access.
type stateMachine struct {
	bus     eventbus.Bus
	state   State
	session model.Session
	lastErr error
}

func newStateMachine(bus eventbus.Bus) *stateMachine {
	return &stateMachine{
		bus:   bus,
		state: StateUnauthenticated,
	}
}

func (m *stateMachine) to(next State) error {
	if m.state == next {
		return nil
	}
	if !canTransition(m.state, next) {
		return platformerrors.New(platformerrors.KindSession, "session.transition",
			fmt.Sprintf("illegal transition %s -> %s", m.state, next))
	}
	m.state = next
	return nil
}

// becomeAuthenticated stores the accepted session and publishes the
// transition. Callers persist credentials before flipping state so the
// store never lags a resting state.
func (m *stateMachine) becomeAuthenticated(sess model.Session, reason string) error {
	if err := m.to(StateAuthenticated); err != nil {
		return err
	}
	m.session = sess
	m.lastErr = nil
	if m.bus != nil {
		evt := eventbus.AuthenticatedEvent{Reason: reason}
		if sess.User != nil {
			evt.UserID = sess.User.ID
		}
		m.bus.Publish(eventbus.EventSessionAuthenticated, evt)
	}
	return nil
}

// becomeUnauthenticated drops the in-memory session and publishes the
// transition. It never fails: every state may fall back here.
func (m *stateMachine) becomeUnauthenticated(reason string, cause error) {
	m.state = StateUnauthenticated
	m.session = model.Session{}
	m.lastErr = cause
	if m.bus != nil {
		evt := eventbus.UnauthenticatedEvent{Reason: reason}
		if cause != nil {
			evt.Message = cause.Error()
		}
		m.bus.Publish(eventbus.EventSessionUnauthenticated, evt)
	}
}

func (m *stateMachine) beginRefreshing() error {
	if err := m.to(StateRefreshing); err != nil {
		return err
	}
	if m.bus != nil {
		m.bus.Publish(eventbus.EventSessionRefreshing)
	}
	return nil
}
