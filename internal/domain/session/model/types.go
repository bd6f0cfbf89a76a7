package model

// Credentials is the bearer token pair issued at login. The two tokens are
// set and cleared together; a pair missing either half is treated as no
// session at all.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both halves of the pair are present.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// User is the profile returned by the backend at registration or login.
type User struct {
	ID       string
	Email    string
	Username string
	FullName string
}

// Session is the authenticated identity held by the client. User may lag
// behind the token pair: restore recovers only what the access token
// claims carry.
type Session struct {
	Credentials Credentials
	User        *User
}

// DeviceState carries install-scoped facts persisted alongside the
// credentials: the generated device identifier, the last platform push
// identifier obtained, and whether that identifier is registered with the
// backend.
type DeviceState struct {
	DeviceID       string
	PushIdentifier string
	PushRegistered bool
}
