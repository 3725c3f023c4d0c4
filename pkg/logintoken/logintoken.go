// Package logintoken signs and verifies the short-lived tokens embedded
// in guest onboarding login links.
package logintoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the guest identity inside a login token.
type Claims struct {
	GuestID string `json:"guest_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and validates login tokens with one shared secret.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a Manager. Expiry bounds the token lifetime.
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// Issue signs a token for the given guest.
func (m *Manager) Issue(guestID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		GuestID: guestID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign login token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its claims when valid.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid login token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid login token claims")
	}
	return claims, nil
}
