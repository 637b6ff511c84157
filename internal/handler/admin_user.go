package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/policy"
)

// AdminHandler manages accounts.  It mounts behind the admin role
// gate; the per-target checks here enforce the finer rules (never
// touch another admin, never touch yourself).
type AdminHandler struct {
	Users UserStore
}

func NewAdminHandler(users UserStore) *AdminHandler {
	return &AdminHandler{Users: users}
}

// ListUsers returns every non-admin account, sorted by username.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list users"})
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, viewUser(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type lockUserReq struct {
	Locked bool `json:"locked"`
}

// ToggleLock sets or clears an account's lock flag.  A locked
// account keeps its data but fails login uniformly with bad
// credentials.
func (h *AdminHandler) ToggleLock(c echo.Context) error {
	actor, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}

	username := strings.ToLower(strings.TrimSpace(c.Param("username")))

	var req lockUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	target, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("load user %s: %v", username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load user"})
	}

	if !policy.CanLockUser(&actor, &target) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Users.SetLocked(ctx, username, req.Locked); err != nil {
		c.Logger().Errorf("set lock %s: %v", username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": username, "is_locked": req.Locked})
}

type changeRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole moves an account between USER and MODERATOR.  Granting
// or revoking ADMIN is not possible through the API.
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	actor, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}

	username := strings.ToLower(strings.TrimSpace(c.Param("username")))

	var req changeRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	newRole, ok := model.ParseRoleStrict(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	target, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("load user %s: %v", username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load user"})
	}

	if !policy.CanChangeRole(&actor, &target, newRole) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Users.SetRole(ctx, username, newRole); err != nil {
		c.Logger().Errorf("set role %s: %v", username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": username, "role": newRole})
}
