package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller as the identity provider describes it.
// Core components take it as a plain input; only ObjectID feeds the tally.
type Principal struct {
	ObjectID string `json:"oid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type Claims struct {
	Principal
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	issuer string
}

func NewManager(secret, issuer string) *Manager {
	if issuer == "" {
		issuer = "rocketvote"
	}
	return &Manager{secret: []byte(secret), issuer: issuer}
}

// Generate mints a session token for an already-verified principal. Identity
// provider verification happens upstream; the service only needs a stable
// subject per caller.
func (m *Manager) Generate(p Principal, ttl time.Duration) (string, error) {
	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ObjectID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if m.issuer != "" && claims.Issuer != m.issuer {
			return nil, jwt.ErrTokenInvalidIssuer
		}
		if claims.ObjectID == "" {
			return nil, jwt.ErrTokenInvalidClaims
		}
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
