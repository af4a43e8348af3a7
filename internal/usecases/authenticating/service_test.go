package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
)

func signedToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := &domain.Claims{
		UserID:         "user-1",
		UserEmail:      "analyst@example.com",
		UserRoleID:     domain.RoleOperator,
		OrganizationID: "org-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newService(secret string) Authenticator {
	return NewService(&config.Config{Auth: config.Auth{Secret: secret}})
}

func TestValidateToken(t *testing.T) {
	service := newService("test-secret")

	claims, err := service.ValidateToken(signedToken(t, "test-secret", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, domain.RoleOperator, claims.UserRoleID)
}

func TestValidateToken_Expired(t *testing.T) {
	service := newService("test-secret")

	_, err := service.ValidateToken(signedToken(t, "test-secret", time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := newService("test-secret")

	_, err := service.ValidateToken(signedToken(t, "other-secret", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	service := newService("test-secret")

	_, err := service.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
