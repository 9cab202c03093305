package httpx

// Package httpx hosts the development login endpoint. It stands in for the
// production identity backend so the session layer has a real HTTP
// collaborator in development and end-to-end style tests. The wire contract
// (request shape, success envelope, {detail} rejection bodies) matches what
// the session client expects.

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
)

// DevUser is one entry in the dev login endpoint's fixed user table.
type DevUser struct {
	Password    string
	Role        domainsession.Role
	FullName    string
	Permissions []string
}

// DefaultDevUsers returns the built-in user table: one account per role,
// password "dev" for all of them.
func DefaultDevUsers() map[string]DevUser {
	return map[string]DevUser{
		"manager@dlretail.com": {
			Password:    "dev",
			Role:        domainsession.RoleManager,
			FullName:    "Morgan Manager",
			Permissions: []string{"manage-team", "view-reports", "manage-settings"},
		},
		"sales@dlretail.com": {
			Password:    "dev",
			Role:        domainsession.RoleSales,
			FullName:    "Sam Seller",
			Permissions: []string{"create-sale", "view-own-metrics"},
		},
		"ads@dlretail.com": {
			Password:    "dev",
			Role:        domainsession.RoleAds,
			FullName:    "Alex Adsmith",
			Permissions: []string{"create-ads", "view-campaigns"},
		},
	}
}

// LoginHandlers provides HTTP handlers for the dev login endpoint.
type LoginHandlers struct {
	Users  map[string]DevUser
	Logger *slog.Logger
}

func (h *LoginHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Profile  string `json:"profile"`
}

type loginUserPayload struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type loginData struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	User        loginUserPayload `json:"user"`
}

// Login handles POST /api/v1/auth/login. It validates the credentials and
// the requested profile: wrong credentials get 401, a profile that does not
// match the account's role gets 403, both with a {detail} body.
func (h *LoginHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, ok := h.Users[email]
	if !ok || user.Password != req.Password {
		h.logger().Info("login rejected", "email", email, "reason", "bad credentials")
		WriteDetail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	requested := domainsession.NormalizeRole(req.Profile)
	if strings.TrimSpace(req.Profile) != "" && requested != user.Role {
		h.logger().Info("login rejected", "email", email, "reason", "profile mismatch",
			"requested", requested, "actual", user.Role)
		WriteDetail(w, http.StatusForbidden,
			"Access denied. You do not have permission for the "+strings.ToLower(req.Profile)+" profile.")
		return
	}

	token := uuid.NewString()
	h.logger().Info("login accepted", "email", email, "role", user.Role)
	WriteOK(w, loginData{
		AccessToken: token,
		TokenType:   "bearer",
		User: loginUserPayload{
			ID:          uuid.NewString(),
			Email:       email,
			FullName:    user.FullName,
			Role:        string(user.Role),
			Permissions: user.Permissions,
		},
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
