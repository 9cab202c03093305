package session

// Package session contains domain-level types for the client session and
// authorization layer. It is pure and free of adapter/transport concerns.

import (
	"slices"
	"strings"
)

// User is the canonical authenticated-user shape. It is replaced as a whole
// on login/logout; individual fields are never mutated in place.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// Valid reports whether the user satisfies the domain invariant:
// a non-empty email and a recognized role. Invalid users are treated
// as absent everywhere.
func (u *User) Valid() bool {
	return u != nil && strings.TrimSpace(u.Email) != "" && ValidRole(u.Role)
}

// HasPermission is a membership test against the user's permission set.
func (u *User) HasPermission(name string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Permissions, name)
}

// Session is the combined (credential, user) pair. The zero value is the
// fully-absent session. Partial sessions are never exposed to consumers;
// Sanitize collapses them.
type Session struct {
	Token string
	User  *User
}

// IsAuthenticated reports whether both the credential and the user are
// present and individually valid.
func (s Session) IsAuthenticated() bool {
	return validToken(s.Token) && s.User.Valid()
}

// Sanitize enforces the session invariant: any combination other than
// "both fields present and valid" collapses to the fully-absent session.
func Sanitize(s Session) Session {
	if !validToken(s.Token) || !s.User.Valid() {
		return Session{}
	}
	return Session{Token: strings.TrimSpace(s.Token), User: s.User}
}

// validToken rejects empty and whitespace-only tokens, plus the literal
// "null"/"undefined" strings observed in corrupted legacy storage.
func validToken(token string) bool {
	t := strings.TrimSpace(token)
	return t != "" && t != "null" && t != "undefined"
}
