package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	payloads := []Payload{
		{ID: 1, Role: "user", Username: "alice"},
		{ID: 42, Role: "admin", Username: "root"},
		{ID: 7, Role: "operator", Username: ""},
	}
	for _, p := range payloads {
		tok, err := IssueToken("secret", p, time.Hour)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

		got, err := VerifyToken("secret", tok.Token)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestTokenZeroTTLExpires(t *testing.T) {
	tok, err := IssueToken("secret", Payload{ID: 1, Role: "user", Username: "a"}, 0)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = VerifyToken("secret", tok.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := IssueToken("secret-a", Payload{ID: 1, Role: "user", Username: "a"}, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken("secret-b", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenMalformedAndTampered(t *testing.T) {
	_, err := VerifyToken("secret", "invalid.token.here")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	tok, err := IssueToken("secret", Payload{ID: 1, Role: "user", Username: "a"}, time.Hour)
	require.NoError(t, err)
	forged, err := IssueToken("other", Payload{ID: 1, Role: "admin", Username: "a"}, time.Hour)
	require.NoError(t, err)
	// keep the real signature, swap in the forged claims
	orig := strings.Split(tok.Token, ".")
	fake := strings.Split(forged.Token, ".")
	_, err = VerifyToken("secret", orig[0]+"."+fake[1]+"."+orig[2])
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		Payload:          Payload{ID: 1, Role: "admin"},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("p1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hash)
	assert.True(t, VerifyPassword(hash, "p1"))
	assert.False(t, VerifyPassword(hash, "p2"))
	assert.False(t, VerifyPassword("plaintext", "plaintext"))
}

func TestPage(t *testing.T) {
	limit, page, offset := Page("", "", 100, 100)
	assert.Equal(t, []int{100, 1, 0}, []int{limit, page, offset})

	limit, page, offset = Page("10", "3", 100, 100)
	assert.Equal(t, []int{10, 3, 20}, []int{limit, page, offset})

	limit, page, offset = Page("500", "-2", 10, 200)
	assert.Equal(t, []int{200, 1, 0}, []int{limit, page, offset})

	limit, _, _ = Page("abc", "1", 10, 200)
	assert.Equal(t, 10, limit)
}
