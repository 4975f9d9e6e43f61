// Package auth implements the credential primitives of the service: the
// signed session token, the password hash, and extraction of a bearer token
// from an inbound request.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/server/models"
)

// Claims is the session token payload. The embedded registered claims carry
// the expiry; everything else a handler needs about the caller is here.
type Claims struct {
	UserID int64       `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given user, valid for
// validityDuration from now (HS256).
func GenerateToken(userID int64, email string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns
// its claims. Every failure mode (bad signature, expired, malformed) is
// reported as common.ErrInvalidToken so callers cannot distinguish
// tampering from natural expiry.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
