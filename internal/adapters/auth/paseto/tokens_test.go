package paseto

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func TestTokenService_IssueVerify(t *testing.T) {
	s, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)

	sess, err := s.Issue(context.Background(), "farm-operator")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.Token, "v4.local."))

	claims, err := s.Verify(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "farm-operator", claims.UserID)
	assert.WithinDuration(t, sess.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestTokenService_Expired(t *testing.T) {
	s, err := NewTokenService(testKey, time.Minute)
	require.NoError(t, err)

	issuedAt := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issuedAt }
	sess, err := s.Issue(context.Background(), "farm-operator")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(context.Background(), sess.Token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestTokenService_WrongKey(t *testing.T) {
	a, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)
	other, err := GenerateKeyHex()
	require.NoError(t, err)
	b, err := NewTokenService(other, time.Hour)
	require.NoError(t, err)

	sess, err := a.Issue(context.Background(), "farm-operator")
	require.NoError(t, err)

	_, err = b.Verify(context.Background(), sess.Token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = b.Verify(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrTokenEmpty))
}

func TestNewTokenService_BadKey(t *testing.T) {
	_, err := NewTokenService("abc", time.Hour)
	assert.True(t, errors.Is(err, ErrKeyInvalid))

	_, err = NewTokenService(strings.Repeat("z", 64), time.Hour)
	assert.True(t, errors.Is(err, ErrKeyInvalid))
}
