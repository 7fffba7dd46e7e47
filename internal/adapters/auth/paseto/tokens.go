// Package paseto implementa sesiones con tokens PASETO v4.local.
package paseto

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-dashboard/internal/ports/auth"

	gopaseto "aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "farm-dashboard"
	tokenAudience = "farm-dashboard-web"

	keyHexSize = 64 // 32 bytes
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token invalid")
	ErrKeyInvalid   = errors.New("paseto key must be 64 hex characters")
)

// TokenService implementa auth.TokenIssuer y auth.AuthVerifier.
type TokenService struct {
	key gopaseto.V4SymmetricKey
	ttl time.Duration
	now func() time.Time
}

// NewTokenService recibe la clave simétrica en hex (32 bytes).
func NewTokenService(keyHex string, ttl time.Duration) (*TokenService, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != keyHexSize {
		return nil, ErrKeyInvalid
	}
	b, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyInvalid, err)
	}
	key, err := gopaseto.V4SymmetricKeyFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyInvalid, err)
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenService{key: key, ttl: ttl, now: time.Now}, nil
}

// GenerateKeyHex genera una clave nueva (para dev cuando no hay token_key).
func GenerateKeyHex() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *TokenService) Issue(_ context.Context, subject string) (auth.Session, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return auth.Session{}, errors.New("subject required")
	}

	now := s.now()
	exp := now.Add(s.ttl)

	t := gopaseto.NewToken()
	t.SetIssuer(tokenIssuer)
	t.SetAudience(tokenAudience)
	t.SetSubject(subject)
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(exp)

	return auth.Session{
		Token:     t.V4Encrypt(s.key, nil),
		ExpiresAt: exp,
	}, nil
}

func (s *TokenService) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	p := gopaseto.NewParserWithoutExpiryCheck()
	p.AddRule(gopaseto.ForAudience(tokenAudience))
	p.AddRule(gopaseto.IssuedBy(tokenIssuer))
	p.AddRule(gopaseto.ValidAt(s.now()))

	parsed, err := p.ParseV4Local(s.key, token, nil)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	sub, err := parsed.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	iat, _ := parsed.GetIssuedAt()
	exp, _ := parsed.GetExpiration()

	return auth.Claims{
		UserID:    sub,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}
