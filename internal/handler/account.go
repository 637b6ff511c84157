package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/config"
	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/recommend"
	"github.com/minhngvn/scholarship-hub/internal/utils"
)

// Recommender is the external suggestion service; nil disables the
// recommendations endpoint gracefully.
type Recommender interface {
	Recommend(ctx context.Context, user model.User, candidates []model.Scholarship) ([]string, error)
}

// AccountHandler implements the session-gated self-service
// endpoints: profile, password, saved scholarships, recommendations.
type AccountHandler struct {
	Cfg         config.Config
	Users       UserStore
	Catalog     *catalog.Catalog
	Recommender Recommender
}

func NewAccountHandler(cfg config.Config, users UserStore, cat *catalog.Catalog, rec *recommend.Client) *AccountHandler {
	h := &AccountHandler{Cfg: cfg, Users: users, Catalog: cat}
	if rec != nil {
		h.Recommender = rec
	}
	return h
}

type profileReq struct {
	FullName          string `json:"full_name"`
	Phone             string `json:"phone"`
	Organization      string `json:"organization"`
	PreferredLanguage string `json:"preferred_language"`
}

// UpdateProfile overwrites the display name, optional contact info
// and UI language preference.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}
	lang := strings.ToLower(strings.TrimSpace(req.PreferredLanguage))
	if lang == "" {
		lang = u.PreferredLanguage
	}
	if lang != model.LangEN && lang != model.LangVI {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "preferred_language must be en or vi"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Users.UpdateProfile(ctx, u.ID, req.FullName, strings.TrimSpace(req.Phone), strings.TrimSpace(req.Organization), lang); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, viewUser(updated))
}

type passwordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdatePassword replaces the account password after verifying the
// old one.  On a mismatch the stored hash is untouched.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_password"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleSave flips the scholarship id in or out of the session's
// saved set.  Saving then unsaving restores the original set; the id
// is a weak reference, so it need not resolve to a live listing.
func (h *AccountHandler) ToggleSave(c echo.Context) error {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	var err error
	saved := !u.HasSaved(id)
	if saved {
		err = h.Users.AddSaved(ctx, u.ID, id)
	} else {
		err = h.Users.RemoveSaved(ctx, u.ID, id)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save toggle failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"scholarship_id": id, "saved": saved})
}

// ListSaved resolves the saved set against the catalog.  Ids whose
// listing has since been deleted stay in the set but are dropped
// from the response.
func (h *AccountHandler) ListSaved(c echo.Context) error {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	items := make([]model.Scholarship, 0, len(u.SavedScholarshipIDs))
	for _, id := range u.SavedScholarshipIDs {
		if s, found := h.Catalog.Get(id); found {
			items = append(items, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": viewScholarships(items, false)})
}

// Recommendations asks the external advisor for up to three unsaved
// listings matching the profile.  The integration is best-effort, so
// a service failure yields an empty list plus a message, never a 5xx.
func (h *AccountHandler) Recommendations(c echo.Context) error {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	if h.Recommender == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"items":   []scholarshipView{},
			"message": "recommendations are not configured",
		})
	}
	ids, err := h.Recommender.Recommend(c.Request().Context(), u, h.Catalog.All())
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{
			"items":   []scholarshipView{},
			"message": "we couldn't generate recommendations right now, please try again later",
		})
	}
	items := make([]model.Scholarship, 0, len(ids))
	for _, id := range ids {
		if s, found := h.Catalog.Get(id); found {
			items = append(items, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": viewScholarships(items, false)})
}
