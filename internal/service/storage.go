package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
	apperrors "github.com/dlretail/sessiongate/internal/errors"
	"github.com/dlretail/sessiongate/internal/ports"
)

// Canonical storage keys. Bit-exact contract: other code reads these.
const (
	KeyToken = "session.token"
	KeyUser  = "session.user"
)

// Legacy storage keys left behind by the previous application version.
// Read-only inputs to a one-time migration; never written except to seed
// the canonical keys' backward-compatible mirror on login.
const (
	LegacyKeyToken   = "legacy.token"
	LegacyKeyUser    = "legacy.user"
	LegacyKeyProfile = "legacy.profile"
)

// StorageService persists sessions to durable client storage. Every read
// and write goes through the KeyValueStore port so the service is testable
// with an in-memory substitute.
type StorageService struct {
	kv     ports.KeyValueStore
	logger *slog.Logger
}

// NewStorageService creates a StorageService over kv.
func NewStorageService(kv ports.KeyValueStore, logger *slog.Logger) *StorageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageService{kv: kv, logger: logger}
}

// Load reads the canonical keys, attempting legacy migration when both are
// empty, and returns the sanitized session. It is total: any structural
// failure degrades to the fully-absent session instead of an error.
func (s *StorageService) Load(ctx context.Context) domainsession.Session {
	token := s.read(ctx, KeyToken)
	rawUser := s.read(ctx, KeyUser)

	if token == "" && rawUser == "" {
		if migrated, ok := s.migrate(ctx); ok {
			return migrated
		}
		return domainsession.Session{}
	}

	user, err := parseStoredUser(rawUser)
	if err != nil {
		s.logger.Warn("stored session failed sanitization, clearing",
			"error", apperrors.Wrap(err, apperrors.ErrCodeStorageCorruption, "parse stored user"))
		return domainsession.Session{}
	}

	sess := domainsession.Sanitize(domainsession.Session{Token: token, User: user})
	if !sess.IsAuthenticated() && (token != "" || user != nil) {
		s.logger.Warn("partial session detected in storage, treating as absent")
	}
	return sess
}

// Save mirrors the session to storage: an authenticated session writes both
// canonical keys, anything else deletes them along with the legacy slots so
// a cleared session cannot be resurrected by a later migration. Partial
// writes never happen.
func (s *StorageService) Save(ctx context.Context, sess domainsession.Session) error {
	sess = domainsession.Sanitize(sess)
	if !sess.IsAuthenticated() {
		for _, key := range []string{KeyToken, KeyUser, LegacyKeyToken, LegacyKeyUser, LegacyKeyProfile} {
			if err := s.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("clear %s: %w", key, err)
			}
		}
		return nil
	}

	encoded, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, KeyToken, sess.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(encoded)); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

// SaveLegacyCompat mirrors a freshly authenticated session into the legacy
// slots as well. The previous application version still reads those keys, so
// logins keep them in sync; nothing in this subsystem reads them back after
// a successful migration.
func (s *StorageService) SaveLegacyCompat(ctx context.Context, sess domainsession.Session, profileHint string) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	encoded, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode legacy user: %w", err)
	}
	if err := s.kv.Set(ctx, LegacyKeyToken, sess.Token); err != nil {
		return fmt.Errorf("write legacy token: %w", err)
	}
	if err := s.kv.Set(ctx, LegacyKeyProfile, profileHint); err != nil {
		return fmt.Errorf("write legacy profile: %w", err)
	}
	if err := s.kv.Set(ctx, LegacyKeyUser, string(encoded)); err != nil {
		return fmt.Errorf("write legacy user: %w", err)
	}
	return nil
}

// migrate runs the one-time legacy migration. It fires only when all three
// legacy slots are present and non-empty; on success the canonical keys are
// written immediately so the migration never re-parses the legacy record.
func (s *StorageService) migrate(ctx context.Context) (domainsession.Session, bool) {
	record := legacyRecord{
		Token:   s.read(ctx, LegacyKeyToken),
		RawUser: s.read(ctx, LegacyKeyUser),
		Profile: s.read(ctx, LegacyKeyProfile),
	}
	if !record.complete() {
		return domainsession.Session{}, false
	}

	sess, ok := migrateLegacy(record)
	if !ok {
		s.logger.Warn("legacy session record could not be migrated, ignoring")
		return domainsession.Session{}, false
	}

	if err := s.Save(ctx, sess); err != nil {
		s.logger.Warn("persisting migrated session failed", "error", err)
		return domainsession.Session{}, false
	}
	s.logger.Info("migrated legacy session record", "role", sess.User.Role)
	return sess, true
}

// read swallows storage errors: a failed read behaves like an absent key,
// which the sanitize step turns into the absent session.
func (s *StorageService) read(ctx context.Context, key string) string {
	val, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("storage read failed", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return val
}

// legacyRecord is the old three-slot storage representation.
type legacyRecord struct {
	Token   string
	RawUser string
	Profile string
}

func (r legacyRecord) complete() bool {
	return strings.TrimSpace(r.Token) != "" &&
		strings.TrimSpace(r.RawUser) != "" &&
		strings.TrimSpace(r.Profile) != ""
}

// migrateLegacy transforms a legacy record into a canonical session. Pure:
// callers decide whether and when to persist the result. The legacy profile
// slot is the role source, run through NormalizeRole.
func migrateLegacy(record legacyRecord) (domainsession.Session, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(record.RawUser), &raw); err != nil {
		return domainsession.Session{}, false
	}

	role := domainsession.NormalizeRole(record.Profile)
	user := normalizeRawUser(raw, normalizeDefaults{
		Email:       legacyFallbackEmail(record.Profile),
		DisplayName: titleCase(record.Profile),
		ID:          "1",
	})
	user.Role = role

	sess := domainsession.Sanitize(domainsession.Session{Token: record.Token, User: &user})
	return sess, sess.IsAuthenticated()
}

func legacyFallbackEmail(profile string) string {
	return strings.ToLower(strings.TrimSpace(profile)) + "@dlretail.com"
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// parseStoredUser decodes the canonical user JSON. The literal "null" and
// "undefined" strings appear in storage corrupted by the old frontend and
// are treated as absent rather than as parse failures.
func parseStoredUser(raw string) (*domainsession.User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "undefined" {
		return nil, nil
	}
	var user domainsession.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
