// Package middleware provides shared request processing: JWT session
// validation, policy-based role gating, Redis response caching and
// rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth validates a Bearer access token and injects the session's
// user id, username and role into the request context.  Routes
// wrapped by it can rely on CurrentRole/CurrentUserID being set.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Numeric JSON claims decode as float64.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			username, _ := claims["username"].(string)
			roleStr, _ := claims["role"].(string)

			c.Set(CtxUserID, uint64(sub))
			c.Set(CtxUsername, username)
			c.Set(CtxRole, model.ParseRole(roleStr))
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's id, or 0 when the
// request carries no session.
func CurrentUserID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxUserID).(uint64); ok {
		return v
	}
	return 0
}

// CurrentRole returns the session role; unauthenticated requests are
// GUEST.
func CurrentRole(c echo.Context) model.Role {
	if v, ok := c.Get(CtxRole).(model.Role); ok {
		return v
	}
	return model.RoleGuest
}
