package api

import (
	"context"
	"io"
	"net/http"
)

// CredentialSource yields the live access token. The in-memory session is
// authoritative during a request's lifetime, not the persisted copy.
type CredentialSource interface {
	AccessToken() string
}

// Renewer exchanges the refresh token for a new access token. The session
// manager implements it and coalesces concurrent calls, so any number of
// simultaneous 401s cost one backend refresh.
type Renewer interface {
	Renew(ctx context.Context) (string, error)
}

// AuthTransport attaches bearer credentials to outgoing requests and, on a
// 401, performs exactly one transparent renewal and replay. A 401 on the
// replayed request propagates to the caller; there is never a second
// renewal for the same request.
type AuthTransport struct {
	Base    http.RoundTripper
	Source  CredentialSource
	Renewer Renewer
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	out := req.Clone(req.Context())
	if token := t.Source.AccessToken(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	token, renewErr := t.Renewer.Renew(req.Context())
	if renewErr != nil {
		// Renewal failed; the session manager has already cleared the
		// session. The original 401 goes back to the caller.
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return resp, nil
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)

	drain(resp)
	return base.RoundTrip(retry)
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
