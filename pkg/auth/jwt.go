// Package auth issues and verifies the bearer tokens used by the admin API,
// and wraps bcrypt for credential storage.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/themelissanyc/melissa/config"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// ErrNoSecret is returned when JWT_SECRET is not configured. Handlers map it
// to a 500 "Server configuration error" rather than issuing an unsigned token.
var ErrNoSecret = errors.New("auth: JWT_SECRET is not configured")

// ErrInvalidToken covers malformed, expired, and wrongly-signed tokens.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the typed JWT payload. UserID is the hex ObjectID of the user;
// verification does not consult the user store, so callers must re-fetch the
// user by UserID to confirm the account still exists.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	s := config.JWTSecret()
	if s == "" {
		return nil, ErrNoSecret
	}
	return []byte(s), nil
}

// GenerateToken creates a signed HS256 token for the given user identity.
func GenerateToken(userID, username, role string) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ValidateToken parses t and checks its signature and expiry.
func ValidateToken(t string) (*Claims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
