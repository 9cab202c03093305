package loginapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dlretail/sessiongate/internal/errors"
	"github.com/dlretail/sessiongate/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{Endpoint: srv.URL})
}

func TestAuthenticate_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ok": true,
			"data": {
				"access_token": "tok-123",
				"token_type": "bearer",
				"user": {"id": "u-1", "email": "a@b.com", "full_name": "Ada", "role": "MANAGER"}
			}
		}`))
	})

	result, err := client.Authenticate(context.Background(), ports.Credentials{
		Email:       "a@b.com",
		Password:    "pw",
		ProfileHint: "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", result.AccessToken)
	assert.Equal(t, "MANAGER", result.RawUser["role"])
	assert.Equal(t, "Ada", result.RawUser["full_name"])
}

func TestAuthenticate_RejectionCarriesServerDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid credentials"}`))
	})

	_, err := client.Authenticate(context.Background(), ports.Credentials{Email: "a@b.com", Password: "bad-pw"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestAuthenticate_RejectionWithoutDetailUsesFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`not json at all`))
	})

	_, err := client.Authenticate(context.Background(), ports.Credentials{})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Equal(t, FallbackRejectionMessage, err.Error())
}

func TestAuthenticate_MalformedSuccessBodyIsProtocolError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"ok false", `{"ok": false, "error": {"message": "token mint failed"}}`},
		{"missing token", `{"ok": true, "data": {"user": {"id": "u-1"}}}`},
		{"missing user", `{"ok": true, "data": {"access_token": "tok"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Authenticate(context.Background(), ports.Credentials{})
			require.Error(t, err)
			assert.True(t, apperrors.IsProtocol(err), "got %v", err)
		})
	}
}

func TestAuthenticate_EnvelopeErrorMessageSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "error": {"message": "token mint failed"}}`))
	})

	_, err := client.Authenticate(context.Background(), ports.Credentials{})
	require.Error(t, err)
	assert.Equal(t, "token mint failed", err.Error())
}
