package service

import (
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
)

// Field extraction expressions for the raw user payload. The login endpoint
// and the legacy record disagree on field names (full_name vs name), so the
// first non-empty wins.
const (
	displayNameExpr = "full_name || fullName || name"
	permissionsExpr = "permissions"
)

// normalizeDefaults supplies fallbacks for fields missing from a raw payload.
type normalizeDefaults struct {
	ID          string
	Email       string
	DisplayName string
}

// normalizeRawUser builds the canonical user shape from an untyped payload.
// The role is not set here; login derives it from the payload's role field
// and migration from the legacy profile slot.
func normalizeRawUser(raw map[string]any, defaults normalizeDefaults) domainsession.User {
	user := domainsession.User{
		ID:          stringField(raw["id"], defaults.ID),
		Email:       strings.ToLower(strings.TrimSpace(stringField(raw["email"], defaults.Email))),
		DisplayName: searchString(displayNameExpr, raw, defaults.DisplayName),
		Permissions: permissionList(raw),
	}
	return user
}

// rawRole returns the payload's role field as a string, or "" when absent.
func rawRole(raw map[string]any) string {
	return stringField(raw["role"], "")
}

// searchString evaluates a JMESPath expression against the payload and
// returns the result when it is a non-empty string.
func searchString(expr string, raw map[string]any, fallback string) string {
	result, err := jmespath.Search(expr, raw)
	if err != nil {
		return fallback
	}
	if s, ok := result.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}

func permissionList(raw map[string]any) []string {
	result, err := jmespath.Search(permissionsExpr, raw)
	if err != nil {
		return nil
	}
	items, ok := result.([]any)
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			perms = append(perms, s)
		}
	}
	return perms
}

// stringField coerces an untyped JSON scalar into a string. Numeric IDs are
// common in the legacy payload.
func stringField(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			return t
		}
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return fallback
}
