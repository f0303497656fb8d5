package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// Claims is the identity data embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Login string      `json:"login"`
	Role  domain.Role `json:"role"`
}

// TokenIssuer signs and verifies stateless session tokens. Tokens carry
// {user id, login, role} and are valid until expiry; validity is purely
// cryptographic, nothing is stored server-side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints an HS256-signed token for user, expiring after the configured TTL.
func (t *TokenIssuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Login: user.Login,
		Role:  user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates signature and expiry and returns the embedded claims.
// Any malformed, expired or tampered token yields domain.ErrTokenInvalid.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" || claims.Login == "" || !claims.Role.Valid() {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// Caller converts verified claims into the typed caller identity.
func (c *Claims) Caller() (domain.Caller, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return domain.Caller{}, domain.ErrTokenInvalid
	}
	return domain.Caller{ID: id, Login: c.Login, Role: c.Role}, nil
}
