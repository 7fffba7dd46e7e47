package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens de sesión para un sujeto ya autenticado.
type TokenIssuer interface {
	Issue(ctx context.Context, subject string) (Session, error)
}

// PINChecker compara un PIN contra el secreto configurado.
type PINChecker interface {
	Check(pin string) bool
}
