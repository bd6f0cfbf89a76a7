package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fitnessai-client-go/internal/domain/session"
	"fitnessai-client-go/internal/domain/session/model"
	platformerrors "fitnessai-client-go/internal/platform/errors"
)

const apiPrefix = "api/v1"

// Client is the typed FitnessAI API client. Auth and health endpoints go
// through a plain HTTP client; bearer endpoints go through AuthTransport
// once a session is bound.
type Client struct {
	baseURL *url.URL
	plain   *http.Client
	authed  *http.Client
}

// NewClient builds a client for the backend at baseURL. Until BindSession
// is called, bearer endpoints are sent without credentials.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "api.client", "invalid base url", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	plain := &http.Client{Timeout: timeout}
	return &Client{
		baseURL: u,
		plain:   plain,
		authed:  plain,
	}, nil
}

// BindSession routes bearer endpoints through the renewing transport. The
// auth endpoints keep the plain client so a refresh call can never
// intercept itself.
func (c *Client) BindSession(source CredentialSource, renewer Renewer) {
	c.authed = &http.Client{
		Timeout: c.plain.Timeout,
		Transport: &AuthTransport{
			Source:  source,
			Renewer: renewer,
		},
	}
}

// Login implements session.AuthAPI.
func (c *Client) Login(ctx context.Context, email, password string) (model.Credentials, error) {
	var resp TokenResponse
	err := c.postJSON(ctx, c.plain, "auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return model.Credentials{}, err
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return model.Credentials{}, platformerrors.New(platformerrors.KindDecode, "api.login",
			"token response missing access or refresh token")
	}
	return model.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Register implements session.AuthAPI.
func (c *Client) Register(ctx context.Context, input session.RegisterInput) (model.User, error) {
	var resp UserResponse
	err := c.postJSON(ctx, c.plain, "auth/register", RegisterRequest{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
		FullName: input.FullName,
	}, &resp)
	if err != nil {
		return model.User{}, err
	}
	if resp.ID == "" {
		return model.User{}, platformerrors.New(platformerrors.KindDecode, "api.register",
			"user response missing id")
	}
	return model.User{
		ID:       resp.ID,
		Email:    resp.Email,
		Username: resp.Username,
		FullName: resp.FullName,
	}, nil
}

// Refresh implements session.AuthAPI. The returned refresh token is empty
// unless the backend rotated it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.Credentials, error) {
	var resp TokenResponse
	err := c.postJSON(ctx, c.plain, "auth/refresh", RefreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return model.Credentials{}, err
	}
	if resp.AccessToken == "" {
		return model.Credentials{}, platformerrors.New(platformerrors.KindDecode, "api.refresh",
			"token response missing access token")
	}
	rotated := resp.RefreshToken
	if rotated == refreshToken {
		rotated = ""
	}
	return model.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: rotated,
	}, nil
}

// Logout implements session.AuthAPI. Best-effort on the backend side; the
// caller clears local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, creds model.Credentials) error {
	return c.postJSON(ctx, c.plain, "auth/logout", LogoutRequest{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	}, nil)
}

// RegisterPushToken registers a device push identifier for the current
// user. Requires a bound session.
func (c *Client) RegisterPushToken(ctx context.Context, token, platform, deviceID string) error {
	var resp PushTokenResponse
	err := c.postJSON(ctx, c.authed, "push-tokens/register", PushTokenRegisterRequest{
		Token:    token,
		Platform: platform,
		DeviceID: deviceID,
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return platformerrors.New(platformerrors.KindDecode, "api.push", "push token response missing token")
	}
	return nil
}

// DeactivatePushToken tells the backend to stop delivering to the given
// identifier. Requires a bound session.
func (c *Client) DeactivatePushToken(ctx context.Context, token string) error {
	return c.postJSON(ctx, c.authed, "push-tokens/deactivate", PushTokenDeactivateRequest{Token: token}, nil)
}

// Health checks the backend is reachable.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	u := c.baseURL.JoinPath(apiPrefix, "health")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return HealthResponse{}, platformerrors.Wrap(platformerrors.KindTransport, "api.health", "failed to build request", err)
	}
	if err := c.do(c.plain, req, &resp); err != nil {
		return HealthResponse{}, err
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindDecode, "api.request", "failed to encode request", err)
	}
	u := c.baseURL.JoinPath(apiPrefix, path)
	// bytes.Reader gives the request a GetBody, which the renewing
	// transport needs to replay it.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "api.request", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(client, req, out)
}

func (c *Client) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "api.request", "request failed", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(req, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return platformerrors.Wrap(platformerrors.KindDecode, "api.response", "failed to decode response", err)
	}
	return nil
}

func statusError(req *http.Request, resp *http.Response) error {
	var envelope errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	detail := envelope.Detail
	if detail == "" {
		detail = resp.Status
	}
	message := fmt.Sprintf("%s %s: %s", req.Method, req.URL.Path, detail)

	kind := platformerrors.KindTransport
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		kind = platformerrors.KindAuth
	}
	return platformerrors.New(kind, "api.response", message)
}
