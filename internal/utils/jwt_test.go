package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test_secret", time.Hour)

	token, err := issuer.Generate("buyer@example.com")
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", claims.Email)
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).Generate("buyer@example.com")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test_secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Generate("buyer@example.com")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{Email: "buyer@example.com"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test_secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("test_secret", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestTokenIssuer_MissingSecret(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)
	_, err := issuer.Generate("buyer@example.com")
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = issuer.Validate("anything")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestTokenIssuer_RequiresEmail(t *testing.T) {
	_, err := NewTokenIssuer("test_secret", time.Hour).Generate("  ")
	assert.Error(t, err)
}
