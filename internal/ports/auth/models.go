package auth

import "time"

// Claims representa la información extraída del token de sesión.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session es lo que recibe el cliente al pasar el PIN.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
