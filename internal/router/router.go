// Package router wires handlers to routes.  Route groups mirror the
// permission tiers: public browse carries no middleware beyond the
// optional response cache, /v1/me and comment posting require a
// session, /v1/moderation requires MODERATOR and /v1/admin requires
// ADMIN.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/handler"
	"github.com/minhngvn/scholarship-hub/internal/middleware"
	"github.com/minhngvn/scholarship-hub/internal/policy"
)

// RegisterRoutes registers the unauthenticated service routes.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterPublic registers the guest browse surface.  The extra
// middleware (typically the Redis response cache) applies to these
// routes only; authenticated responses are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/scholarships", p.ListScholarships)
	g.GET("/scholarships/search", p.SearchScholarships)
	g.GET("/scholarships/:id", p.GetScholarship)
	g.GET("/tags", p.ListTags)
}

// RegisterAuth registers the session lifecycle.  Register, login,
// refresh and logout work without an access token; /v1/me requires
// one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAccount registers the session-gated account and comment
// routes.  Any valid session may reach these; per-operation rules
// (locked account, locked comment thread) are enforced in the
// handlers.
func RegisterAccount(e *echo.Echo, a *handler.AccountHandler, cm *handler.CommentHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.PUT("/me/profile", a.UpdateProfile)
	g.PUT("/me/password", a.UpdatePassword)
	g.GET("/me/saved", a.ListSaved)
	g.POST("/me/saved/:id", a.ToggleSave)
	g.GET("/me/recommendations", a.Recommendations)
	g.POST("/scholarships/:id/comments", cm.AddComment)
}

// RegisterModeration registers listing management behind the
// moderator gate.
func RegisterModeration(e *echo.Echo, m *handler.ModeratorHandler, jwtSecret string) {
	g := e.Group("/v1/moderation", middleware.JWTAuth(jwtSecret), middleware.Require(policy.CanManageScholarships))
	g.POST("/scholarships", m.Create)
	g.GET("/scholarships/:id", m.Get)
	g.PUT("/scholarships/:id", m.Update)
	g.DELETE("/scholarships/:id", m.Delete)
	g.PUT("/scholarships/:id/comments-lock", m.SetCommentsLocked)
	g.PUT("/scholarships/:id/comments/:commentId/hidden", m.SetCommentHidden)
}

// RegisterAdmin registers account management behind the admin gate.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.Require(policy.CanManageUsers))
	g.GET("/users", a.ListUsers)
	g.PUT("/users/:username/lock", a.ToggleLock)
	g.PUT("/users/:username/role", a.UpdateRole)
}
