package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/speechpractice-server/internal/model"
)

var therapist = model.Session{UserID: "uid-42", Email: "t@example.com", Role: model.RoleTherapist}

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", "speechpractice", time.Minute)

	access, err := j.GenerateAccessToken(therapist)
	require.NoError(t, err)

	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, therapist, got)
}

func TestJWT_RejectsInvalidSession(t *testing.T) {
	j := NewJWT("secret", "", 0)

	_, err := j.GenerateAccessToken(model.Session{UserID: "u1", Role: "admin"})
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestJWT_WrongSecret(t *testing.T) {
	access, err := NewJWT("secret", "", 0).GenerateAccessToken(therapist)
	require.NoError(t, err)

	_, err = NewJWT("other", "", 0).ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_WrongIssuer(t *testing.T) {
	access, err := NewJWT("secret", "a", 0).GenerateAccessToken(therapist)
	require.NoError(t, err)

	_, err = NewJWT("secret", "b", 0).ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", "", time.Minute)
	j.now = func() time.Time { return time.Now().Add(-time.Hour) }

	access, err := j.GenerateAccessToken(therapist)
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseAccessToken(access)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   therapist.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Email:     therapist.Email,
		Role:      therapist.Role,
		TokenType: "refresh",
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWT("secret", "", 0).ParseAccessToken(signed)
	require.Error(t, err)
}

func TestJWT_WrongSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: typeAccess})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWT("secret", "", 0).ParseAccessToken(signed)
	require.Error(t, err)
}
