package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eventdesk/backend/apperr"
)

// Claims carried inside an access token. The subject is the user's email;
// the role is a snapshot taken at issuance and may go stale if the user's
// role changes afterwards. Tokens are not revoked before expiry.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed access tokens with a single
// process-wide secret and a fixed signing algorithm.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenManager builds a token manager. Supported algorithms are HS256,
// HS384 and HS512.
func NewTokenManager(secret, algorithm string, ttl time.Duration) (*TokenManager, error) {
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenManager{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the default token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a token for the given subject and role, expiring after ttl.
func (m *TokenManager) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.secret)
}

// Verify checks the token's signature and expiry. Malformed tokens, bad
// signatures and expired tokens all collapse to apperr.ErrInvalidToken so
// callers cannot tell which check failed.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}))
	if err != nil || !token.Valid {
		return nil, apperr.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}
