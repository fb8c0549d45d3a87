package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned when a token's exp claim is in the past
var ErrTokenExpired = errors.New("token has expired")

// Claims is the payload the directory backend signs: {user_id, role, exp}
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Inspector reads backend-issued tokens. The backend is the only issuer; the
// gateway never mints tokens. With a shared secret the signature is verified,
// without one the claims are read as-is and the backend stays authoritative.
type Inspector struct {
	secret []byte
	now    func() time.Time
}

// NewInspector creates an inspector. secret may be empty.
func NewInspector(secret string) *Inspector {
	i := &Inspector{now: time.Now}
	if secret != "" {
		i.secret = []byte(secret)
	}
	return i
}

// Verifies reports whether signatures are checked
func (i *Inspector) Verifies() bool {
	return len(i.secret) > 0
}

// ExtractClaims parses the token, verifying its HMAC signature when a secret is set
func (i *Inspector) ExtractClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	if !i.Verifies() {
		token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return nil, fmt.Errorf("invalid token claims")
		}
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// IsTokenExpired checks if a token is expired. Unreadable tokens count as expired.
func (i *Inspector) IsTokenExpired(tokenString string) bool {
	expiry, err := i.GetTokenExpiry(tokenString)
	if err != nil {
		return true
	}
	return expiry.Before(i.now())
}

// GetTokenExpiry returns the expiry time of a token without checking its signature
func (i *Inspector) GetTokenExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid token claims")
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry time")
	}

	return claims.ExpiresAt.Time, nil
}
