// Package argon guarda el PIN de acceso como hash argon2id.
package argon

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	memory      = 64 * 1024
	iterations  = 3
	parallelism = 4
	saltLength  = 16
	keyLength   = 32

	maxPINLength = 64
)

var ErrBadHash = errors.New("invalid argon2id hash")

type params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// PINHash implementa auth.PINChecker.
type PINHash struct {
	encoded string
	salt    []byte
	hash    []byte
	p       params
}

// FromPIN hashea el PIN en claro de la configuración al arrancar.
func FromPIN(pin string) (*PINHash, error) {
	enc, err := Hash(pin)
	if err != nil {
		return nil, err
	}
	return FromHash(enc)
}

// FromHash usa un hash ya codificado ($argon2id$v=..$m=..,t=..,p=..$salt$hash).
func FromHash(encoded string) (*PINHash, error) {
	salt, hash, p, err := decode(encoded)
	if err != nil {
		return nil, err
	}
	return &PINHash{encoded: encoded, salt: salt, hash: hash, p: p}, nil
}

// Hash genera el formato codificado para un PIN.
func Hash(pin string) (string, error) {
	if pin == "" {
		return "", errors.New("pin cannot be empty")
	}
	if len(pin) > maxPINLength {
		return "", errors.New("pin exceeds maximum length")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(pin), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *PINHash) Encoded() string { return h.encoded }

// Check compara en tiempo constante.
func (h *PINHash) Check(pin string) bool {
	if pin == "" || len(pin) > maxPINLength {
		return false
	}
	test := argon2.IDKey([]byte(pin), h.salt, h.p.iterations, h.p.memory, h.p.parallelism, uint32(len(h.hash)))
	return subtle.ConstantTimeCompare(h.hash, test) == 1
}

func decode(encoded string) (salt, hash []byte, p params, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, p, ErrBadHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, p, fmt.Errorf("%w: version", ErrBadHash)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return nil, nil, p, fmt.Errorf("%w: params", ErrBadHash)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, p, fmt.Errorf("%w: salt", ErrBadHash)
	}
	if hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(hash) == 0 {
		return nil, nil, p, fmt.Errorf("%w: hash", ErrBadHash)
	}
	return salt, hash, p, nil
}
