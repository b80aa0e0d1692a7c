package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

// RequireSuperAdmin rejects anyone below super-admin.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Principal(c)
		if !ok || claims.Role != udomain.RoleSuperAdmin {
			return c.JSON(http.StatusForbidden, map[string]any{
				"success": false,
				"error":   "restricted to super administrators",
			})
		}
		return next(c)
	}
}

// RequireOrgAdmin rejects plain users; super-admins pass through.
func RequireOrgAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Principal(c)
		if !ok || (claims.Role != udomain.RoleOrgAdmin && claims.Role != udomain.RoleSuperAdmin) {
			return c.JSON(http.StatusForbidden, map[string]any{
				"success": false,
				"error":   "restricted to organization administrators",
			})
		}
		return next(c)
	}
}

// EnforceOrgAccess denies access to another organization's resources by path
// param; super-admins have unrestricted access.
func EnforceOrgAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthenticated"})
		}
		if claims.Role == udomain.RoleSuperAdmin {
			return next(c)
		}
		if claims.OrganizationID != c.Param("orgId") {
			return c.JSON(http.StatusForbidden, map[string]any{
				"success": false,
				"error":   "unauthorized access to this organization",
			})
		}
		return next(c)
	}
}
