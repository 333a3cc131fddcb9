package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gardenexchange/backend/models"
)

const (
	// SessionCookieName is the cookie carrying the signed session.
	SessionCookieName = "ge_session"

	// DefaultSessionTTL matches the Roblox access token lifetime
	// window the frontend expects.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

var (
	ErrSessionInvalid = errors.New("session: invalid or tampered token")
	ErrSessionExpired = errors.New("session: expired")
)

// SessionService signs and verifies session cookies. Tokens are
// base64url(payload).base64url(hmac-sha256(payload)); the payload is
// the JSON-encoded UserSession.
type SessionService struct {
	key []byte
	ttl time.Duration
}

func NewSessionService(key string) *SessionService {
	return &SessionService{key: []byte(key), ttl: DefaultSessionTTL}
}

// Enabled reports whether a signing key was configured. Without a key
// the service issues no cookies and verifies nothing; callers fall
// back to header identity.
func (s *SessionService) Enabled() bool {
	return len(s.key) > 0
}

func (s *SessionService) Issue(userID, username, avatarURL string) (string, *models.UserSession, error) {
	if !s.Enabled() {
		return "", nil, errors.New("session: no signing key configured")
	}
	sess := &models.UserSession{
		UserID:    userID,
		Username:  username,
		AvatarURL: avatarURL,
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", nil, err
	}
	token := encode(payload) + "." + encode(s.sign(payload))
	return token, sess, nil
}

func (s *SessionService) Verify(token string) (*models.UserSession, error) {
	if !s.Enabled() || token == "" {
		return nil, ErrSessionInvalid
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, ErrSessionInvalid
	}
	payload, err := decode(parts[0])
	if err != nil {
		return nil, ErrSessionInvalid
	}
	sig, err := decode(parts[1])
	if err != nil {
		return nil, ErrSessionInvalid
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return nil, ErrSessionInvalid
	}
	var sess models.UserSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, ErrSessionInvalid
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

func (s *SessionService) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
