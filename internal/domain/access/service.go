// Package access es la puerta de entrada por PIN del panel.
package access

import (
	"context"
	"errors"
	"fmt"

	"farm-dashboard/internal/platform/ratelimit"
	"farm-dashboard/internal/ports/auth"
)

// Subject es el único usuario del panel: quien conoce el PIN.
const Subject = "farm-operator"

var (
	ErrInvalidInput    = errors.New("pin must be exactly 4 digits")
	ErrInvalidPIN      = errors.New("invalid pin")
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// AttemptRecorder cuenta intentos por resultado (métricas). Puede ser nil.
type AttemptRecorder interface {
	LoginAttempt(result string)
}

type Service struct {
	pins     auth.PINChecker
	tokens   auth.TokenIssuer
	limiter  *ratelimit.KeyedLimiter
	attempts AttemptRecorder
}

func NewService(pins auth.PINChecker, tokens auth.TokenIssuer, limiter *ratelimit.KeyedLimiter, attempts AttemptRecorder) *Service {
	return &Service{
		pins:     pins,
		tokens:   tokens,
		limiter:  limiter,
		attempts: attempts,
	}
}

// Login valida el formato, aplica el límite por cliente, compara el PIN y emite la sesión.
func (s *Service) Login(ctx context.Context, pin, clientKey string) (auth.Session, error) {
	if !validPIN(pin) {
		s.record("invalid_input")
		return auth.Session{}, ErrInvalidInput
	}
	if s.limiter != nil && !s.limiter.Allow(clientKey) {
		s.record("rate_limited")
		return auth.Session{}, ErrTooManyAttempts
	}
	if !s.pins.Check(pin) {
		s.record("invalid_pin")
		return auth.Session{}, ErrInvalidPIN
	}

	sess, err := s.tokens.Issue(ctx, Subject)
	if err != nil {
		s.record("error")
		return auth.Session{}, fmt.Errorf("issue token: %w", err)
	}
	s.record("ok")
	return sess, nil
}

func (s *Service) record(result string) {
	if s.attempts != nil {
		s.attempts.LoginAttempt(result)
	}
}

func validPIN(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
