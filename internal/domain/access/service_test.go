package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"farm-dashboard/internal/platform/ratelimit"
	"farm-dashboard/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPIN string

func (p fixedPIN) Check(pin string) bool { return string(p) == pin }

type testIssuer struct {
	err    error
	issued []string
}

func (i *testIssuer) Issue(_ context.Context, subject string) (auth.Session, error) {
	if i.err != nil {
		return auth.Session{}, i.err
	}
	i.issued = append(i.issued, subject)
	return auth.Session{Token: "tok-" + subject, ExpiresAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}, nil
}

type testRecorder map[string]int

func (r testRecorder) LoginAttempt(result string) { r[result]++ }

func TestLogin(t *testing.T) {
	issuer := &testIssuer{}
	rec := testRecorder{}
	svc := NewService(fixedPIN("1234"), issuer, ratelimit.New(1, 3), rec)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "1234", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "tok-"+Subject, sess.Token)

	_, err = svc.Login(ctx, "0000", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	for _, bad := range []string{"", "123", "12345", "12a4"} {
		_, err = svc.Login(ctx, bad, "10.0.0.1")
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}

	assert.Equal(t, 1, rec["ok"])
	assert.Equal(t, 1, rec["invalid_pin"])
	assert.Equal(t, 4, rec["invalid_input"])
	assert.Equal(t, []string{Subject}, issuer.issued)
}

func TestLogin_RateLimitedPerClient(t *testing.T) {
	rec := testRecorder{}
	svc := NewService(fixedPIN("1234"), &testIssuer{}, ratelimit.New(0.001, 2), rec)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "9999", "10.0.0.1")
		assert.ErrorIs(t, err, ErrInvalidPIN)
	}

	// incluso el PIN correcto queda bloqueado para ese cliente
	_, err := svc.Login(ctx, "1234", "10.0.0.1")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = svc.Login(ctx, "1234", "10.0.0.2")
	assert.NoError(t, err)

	assert.Equal(t, 1, rec["rate_limited"])
}

func TestLogin_IssuerError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(fixedPIN("1234"), &testIssuer{err: boom}, nil, nil)

	_, err := svc.Login(context.Background(), "1234", "x")
	assert.ErrorIs(t, err, boom)
}
