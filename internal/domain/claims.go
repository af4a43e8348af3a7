package domain

import "github.com/golang-jwt/jwt/v5"

// Role ids carried in API tokens. User management itself lives in the
// identity service; this API only validates and gates.
const (
	RoleAdmin    = 1
	RoleOperator = 2
	RoleViewer   = 3
)

type Claims struct {
	UserID         string
	UserEmail      string
	UserRoleID     int
	OrganizationID string
	jwt.RegisteredClaims
}
