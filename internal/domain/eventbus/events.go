package eventbus

// Session lifecycle topics. EventSessionLoggingOut fires before the
// backend logout call and before local credentials are cleared, so
// subscribers still hold a usable bearer token while handling it.
const (
	EventSessionAuthenticated   = "session:authenticated"
	EventSessionUnauthenticated = "session:unauthenticated"
	EventSessionRefreshing      = "session:refreshing"
	EventSessionLoggingOut      = "session:logging_out"
)

// Reasons a session became authenticated.
const (
	ReasonLogin   = "login"
	ReasonRestore = "restore"
	ReasonRefresh = "refresh"
)

// Reasons a session became unauthenticated.
const (
	ReasonLogout      = "logout"
	ReasonExpired     = "expired"
	ReasonLoginFailed = "login_failed"
)

// AuthenticatedEvent accompanies EventSessionAuthenticated.
type AuthenticatedEvent struct {
	Reason string `json:"reason"`
	UserID string `json:"user_id,omitempty"`
}

// UnauthenticatedEvent accompanies EventSessionUnauthenticated.
type UnauthenticatedEvent struct {
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}
