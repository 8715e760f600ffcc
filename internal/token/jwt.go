package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/speechpractice-server/internal/model"
)

// Claims represents JWT claims carrying the caller's identity.
type Claims struct {
	jwt.RegisteredClaims
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// JWT implements model.TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

const (
	defaultTTL = 15 * time.Minute
	typeAccess = "access"
)

// NewJWT creates a new JWT token manager. A non-positive ttl means 15 minutes.
func NewJWT(secretKey, issuer string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWT{secretKey: secretKey, issuer: issuer, ttl: ttl, now: time.Now}
}

// GenerateAccessToken creates a short-lived access token for session.
func (j *JWT) GenerateAccessToken(session model.Session) (string, error) {
	if err := session.Validate(); err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Email:     session.Email,
		Role:      session.Role,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token and returns the session it carries.
func (j *JWT) ParseAccessToken(tokenString string) (model.Session, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(j.now)}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, opts...)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return model.Session{}, errors.New("access token is invalid")
	}
	if claims.TokenType != typeAccess {
		return model.Session{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}

	session := model.Session{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}
	if err := session.Validate(); err != nil {
		return model.Session{}, fmt.Errorf("access token has no valid identity: %w", err)
	}

	return session, nil
}
