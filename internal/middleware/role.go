package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

// Require gates a route group behind a policy predicate, so every
// role check flows through the policy package rather than ad-hoc
// string comparisons at call sites.  A failing check responds 403;
// the denied operation has no effect.
func Require(allowed func(model.Role) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed(CurrentRole(c)) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
