package loginapi

// Package loginapi is the HTTP client for the external login endpoint. This
// subsystem trusts the bearer token the endpoint issues; it never inspects
// token contents.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/dlretail/sessiongate/internal/errors"
	"github.com/dlretail/sessiongate/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.LoginAPI = (*Client)(nil)

const defaultTimeout = 15 * time.Second

// FallbackRejectionMessage is shown when a rejection response carries no
// usable detail message.
const FallbackRejectionMessage = "invalid credentials or access denied"

// Client posts credentials to the login endpoint and translates outcomes
// into the application error taxonomy.
type Client struct {
	endpoint string
	http     *http.Client
}

// Options configures a Client.
type Options struct {
	// Endpoint is the full URL of the login route.
	Endpoint string
	// Timeout bounds the whole request; defaults to 15s.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// New creates a login endpoint client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{endpoint: opts.Endpoint, http: hc}
}

// loginRequest is the wire shape the endpoint expects.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Profile  string `json:"profile"`
}

// loginEnvelope is the success envelope: {ok, data, error}.
type loginEnvelope struct {
	OK    bool           `json:"ok"`
	Data  *loginData     `json:"data"`
	Error *envelopeError `json:"error"`
}

type loginData struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        map[string]any `json:"user"`
}

type envelopeError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// rejectionBody is the non-2xx error shape, carrying the server's detail.
type rejectionBody struct {
	Detail string `json:"detail"`
}

// Authenticate posts the credentials and returns the issued token plus the
// raw user payload. Server rejections become authentication errors carrying
// the server message; malformed success bodies become protocol errors.
func (c *Client) Authenticate(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	body, err := json.Marshal(loginRequest{
		Email:    creds.Email,
		Password: creds.Password,
		Profile:  creds.ProfileHint,
	})
	if err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeProtocol, "login request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeProtocol, "read login response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.LoginResult{}, apperrors.Authentication(rejectionMessage(raw))
	}

	var envelope loginEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeProtocol, "decode login response")
	}
	if !envelope.OK || envelope.Data == nil || envelope.Data.AccessToken == "" {
		return ports.LoginResult{}, apperrors.Protocol(envelopeFailureMessage(envelope))
	}
	if len(envelope.Data.User) == 0 {
		return ports.LoginResult{}, apperrors.Protocol("login response is missing the user payload")
	}

	return ports.LoginResult{
		AccessToken: envelope.Data.AccessToken,
		RawUser:     envelope.Data.User,
	}, nil
}

// rejectionMessage extracts the server-provided detail from an error body,
// falling back to a generic message when the body is unreadable.
func rejectionMessage(raw []byte) string {
	var rb rejectionBody
	if err := json.Unmarshal(raw, &rb); err == nil && rb.Detail != "" {
		return rb.Detail
	}
	return FallbackRejectionMessage
}

func envelopeFailureMessage(envelope loginEnvelope) string {
	if envelope.Error != nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Error.Detail != "" {
			return envelope.Error.Detail
		}
	}
	return fmt.Sprintf("login response is missing a token (ok=%v)", envelope.OK)
}
