package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail validation for any
// reason: malformed, expired, or signed with the wrong key.
var ErrInvalidToken = errors.New("invalid token")

var (
	jwtSecret []byte
	tokenTTL  = 24 * time.Hour
)

// Configure sets the signing secret and token lifetime. Must be called
// before tokens are issued or verified.
func Configure(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl != 0 {
		tokenTTL = ttl
	}
}

// Claims carries the admin identity inside the token.
type Claims struct {
	AdminID  int64  `json:"adminId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed, time-bounded token for the admin.
func GenerateToken(adminID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
