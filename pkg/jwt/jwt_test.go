package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-backend-secret-key-for-testing-purposes"

// backendToken signs a token the way the directory backend does
func backendToken(t *testing.T, secret, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestNewInspector(t *testing.T) {
	assert.False(t, NewInspector("").Verifies())
	assert.True(t, NewInspector(testSecret).Verifies())
}

func TestExtractClaims_Unverified(t *testing.T) {
	inspector := NewInspector("")
	token := backendToken(t, "some-other-secret", "u-1", "business_owner", time.Hour)

	claims, err := inspector.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "business_owner", claims.Role)
}

func TestExtractClaims_Verified(t *testing.T) {
	inspector := NewInspector(testSecret)

	t.Run("Valid signature", func(t *testing.T) {
		token := backendToken(t, testSecret, "u-2", "admin", time.Hour)
		claims, err := inspector.ExtractClaims(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("Wrong signature", func(t *testing.T) {
		token := backendToken(t, "forged", "u-2", "admin", time.Hour)
		_, err := inspector.ExtractClaims(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token := backendToken(t, testSecret, "u-2", "admin", -time.Hour)
		_, err := inspector.ExtractClaims(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("None algorithm rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-3", Role: "admin"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = inspector.ExtractClaims(token)
		assert.Error(t, err)
	})
}

func TestExtractClaims_Empty(t *testing.T) {
	_, err := NewInspector("").ExtractClaims("")
	assert.Error(t, err)
}

func TestIsTokenExpired(t *testing.T) {
	inspector := NewInspector("")

	assert.False(t, inspector.IsTokenExpired(backendToken(t, testSecret, "u-1", "customer", time.Hour)))
	assert.True(t, inspector.IsTokenExpired(backendToken(t, testSecret, "u-1", "customer", -time.Hour)))
	assert.True(t, inspector.IsTokenExpired("invalid.token.here"))
}

func TestGetTokenExpiry(t *testing.T) {
	inspector := NewInspector("")
	token := backendToken(t, testSecret, "u-1", "customer", 30*24*time.Hour)

	expiry, err := inspector.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expiry, 5*time.Second)

	_, err = inspector.GetTokenExpiry("invalid.token.here")
	assert.Error(t, err)
}
