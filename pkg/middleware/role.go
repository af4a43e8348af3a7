package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/apiErrors"
)

// RoleMiddleware restricts access to the given role ids.
func RoleMiddleware(allowedRoles []int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)

			if !ok {
				logrus.Warning("Unauthenticated access attempt")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "User is not authenticated", nil)
				return
			}

			isAllowed := false
			for _, role := range allowedRoles {
				if userClaims.UserRoleID == role {
					isAllowed = true
					break
				}
			}

			if !isAllowed {
				logrus.Warningf("Access denied for user ID=%s, Role=%d", userClaims.UserID, userClaims.UserRoleID)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "You do not have permission to access this resource", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly allows administrators only.
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{domain.RoleAdmin})
}

// AdminOrOperator allows administrators and operators.
func AdminOrOperator() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{domain.RoleAdmin, domain.RoleOperator})
}

// AllRoles allows any authenticated user.
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{domain.RoleAdmin, domain.RoleOperator, domain.RoleViewer})
}
