// AngelaMos | 2026
// token.go

package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/souk-api/internal/config"
	"github.com/carterperez-dev/souk-api/internal/core"
)

type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// Issuer mints and checks stateless bearer tokens. Verify never panics on
// malformed input; every failure is ErrTokenInvalid or ErrTokenExpired.
type Issuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Claims, error)
}

func NewIssuer(cfg config.TokenConfig) (Issuer, error) {
	switch cfg.Format {
	case config.TokenFormatJWT:
		return NewJWTIssuer(cfg.Secret, cfg.Issuer, cfg.TTL)
	case config.TokenFormatSigned, "":
		return NewTokenManager(cfg.Secret, cfg.TTL), nil
	}
	return nil, fmt.Errorf("unknown token format %q", cfg.Format)
}

type tokenPayload struct {
	UserID string `json:"user_id"`
	Exp    int64  `json:"exp"`
}

// TokenManager issues <base64url(payload)>.<hex(hmac-sha256(payload))>.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("issue token: empty user id: %w", core.ErrInvalidInput)
	}

	expiresAt := m.now().Add(m.ttl)

	raw, err := json.Marshal(tokenPayload{UserID: userID, Exp: expiresAt.Unix()})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + core.SignHMAC(m.secret, encoded), expiresAt, nil
}

func (m *TokenManager) Verify(token string) (*Claims, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" || strings.Contains(sig, ".") {
		return nil, fmt.Errorf("verify token: malformed: %w", core.ErrTokenInvalid)
	}

	if !core.VerifyHMAC(m.secret, encoded, sig) {
		return nil, fmt.Errorf("verify token: bad signature: %w", core.ErrTokenInvalid)
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("verify token: decode: %w", core.ErrTokenInvalid)
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.UserID == "" {
		return nil, fmt.Errorf("verify token: payload: %w", core.ErrTokenInvalid)
	}

	expiresAt := time.Unix(payload.Exp, 0)
	if expiresAt.Before(m.now()) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}

	return &Claims{UserID: payload.UserID, ExpiresAt: expiresAt}, nil
}
