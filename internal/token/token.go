package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"collab-board-api/internal/response"
)

// Verifier is the credential collaborator consumed by the middleware and
// the websocket handshake: it turns a bearer token into a verified user id.
type Verifier interface {
	Verify(tokenStr string) (uint, error)
}

// Manager issues and verifies HS256 access tokens
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a token Manager
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// Generate issues a signed access token for the user
func (m *Manager) Generate(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"iat":     now.Unix(),
		"exp":     now.Add(m.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the user id it carries
func (m *Manager) Verify(tokenStr string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, response.NewAppError(response.ErrCodeUnauthorized, "Invalid or expired token", "")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, response.NewAppError(response.ErrCodeUnauthorized, "Invalid token claims", "")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, response.NewAppError(response.ErrCodeUnauthorized, "User ID not found in token", "")
	}

	return uint(userID), nil
}

var _ Verifier = (*Manager)(nil)
