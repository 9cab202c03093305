package httpx

import (
	"log/slog"
	"net/http"
)

// LoginPath is the route the dev server mounts the login handler on.
// It matches the default LOGIN_ENDPOINT configuration.
const LoginPath = "/api/v1/auth/login"

// NewRouter builds the dev server handler with logging and panic recovery.
func NewRouter(handlers *LoginHandlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+LoginPath, handlers.Login)
	mux.HandleFunc("GET /health", Health)

	var h http.Handler = mux
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h
}
