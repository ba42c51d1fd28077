package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pooltablesquad/backoffice/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the HttpOnly session cookie the dashboard authenticates with.
const CookieName = "auth_token"

// TokenTTL is how long a dashboard session stays valid.
const TokenTTL = 7 * 24 * time.Hour

// UserStore is the slice of the repository the auth handlers need.
// GetStaffUserByEmail returns (nil, nil) when no account exists.
type UserStore interface {
	GetStaffUserByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	CreateStaffUser(ctx context.Context, email, passwordHash string) (int64, error)
}

type claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given staff user.
func IssueToken(secret string, userID int64, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses a session token and returns the staff user id it was
// issued for. Expired, malformed, or foreign-signed tokens all fail.
func VerifyToken(secret, tokenString string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to verify session token: %w", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return 0, fmt.Errorf("invalid session token")
	}

	return c.UserID, nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
