package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/mrb1sh0p/email-mass-api/internal/auth/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/config"
	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

const ctxClaimsKey = "auth_claims"

// RequireJWT returns an Echo middleware that validates bearer session tokens
// and stores the claims in the request context.
func RequireJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"success": false,
					"error":   "invalid token format, use: Bearer <token>",
				})
			}
			tokStr := strings.TrimPrefix(auth, "Bearer ")

			claims := &domain.Claims{}
			tok, err := jwt.ParseWithClaims(tokStr, claims, func(token *jwt.Token) (any, error) {
				return []byte(cfg.SecretKey), nil
			}, jwt.WithLeeway(30*time.Second), jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"success": false,
					"error":   "invalid or expired token",
				})
			}

			c.Set(ctxClaimsKey, claims)
			return next(c)
		}
	}
}

// SetClaims stores claims in the request context. Handler tests use it to
// skip the token round-trip.
func SetClaims(c echo.Context, claims *domain.Claims) { c.Set(ctxClaimsKey, claims) }

// Principal returns the authenticated claims from context.
func Principal(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ctxClaimsKey).(*domain.Claims)
	return claims, ok
}

// Actor converts the authenticated claims to a users-domain actor.
func Actor(c echo.Context) (udomain.Actor, bool) {
	claims, ok := Principal(c)
	if !ok {
		return udomain.Actor{}, false
	}
	return udomain.Actor{
		UID:            claims.Subject,
		Role:           claims.Role,
		OrganizationID: claims.OrganizationID,
	}, true
}
