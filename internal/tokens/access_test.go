package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestNewAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, exp, err := NewAccessToken(secret, "alice", "ADMIN", 3, now, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, int64(3), claims.Version)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, _, err := NewAccessToken(secret, "alice", "ADMIN", 1, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	otherKey, _, err := NewAccessToken([]byte("other"), "alice", "ADMIN", 1, time.Now(), time.Hour)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{Role: "ADMIN"}).SignedString(secret)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"wrong alg": hs512,
		"garbage":   "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := AccessClaimsFromToken(tok, secret)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
