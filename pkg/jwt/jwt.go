package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by tokens issued for clinic staff. Identity itself lives in
// the practice-management system; this backend only verifies and records it.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"` // admin, dentist, assistant, purchasing
	jwt.RegisteredClaims
}

// Manager handles JWT operations
type Manager struct {
	secret      string
	accessTTL   time.Duration
}

// NewManager creates new JWT manager
func NewManager(secret string, accessTTLMinutes int) *Manager {
	return &Manager{
		secret:    secret,
		accessTTL: time.Duration(accessTTLMinutes) * time.Minute,
	}
}

// GenerateToken issues an access token for a staff member. Used by ops
// tooling and tests; production tokens come from the identity provider
// sharing the same secret.
func (m *Manager) GenerateToken(userID, email, role string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses a token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
