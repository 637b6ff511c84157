package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/middleware"
	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/queue"
	"github.com/minhngvn/scholarship-hub/internal/repository"
	"github.com/minhngvn/scholarship-hub/internal/utils"
)

// ModeratorHandler owns the listing lifecycle and comment
// moderation.  The router mounts it behind the moderator role gate,
// so by the time a request lands here the caller is a moderator.
type ModeratorHandler struct {
	Scholarships ScholarshipStore
	Catalog      *catalog.Catalog
	Events       EventPublisher
}

func NewModeratorHandler(scholarships ScholarshipStore, cat *catalog.Catalog, events EventPublisher) *ModeratorHandler {
	return &ModeratorHandler{Scholarships: scholarships, Catalog: cat, Events: events}
}

// localizedReq mirrors model.Localized for request binding.
type localizedReq struct {
	EN string `json:"en"`
	VI string `json:"vi"`
}

func (l localizedReq) trimmed() model.Localized {
	return model.Localized{EN: strings.TrimSpace(l.EN), VI: strings.TrimSpace(l.VI)}
}

func (l localizedReq) complete() bool {
	return strings.TrimSpace(l.EN) != "" && strings.TrimSpace(l.VI) != ""
}

type localizedListReq struct {
	EN []string `json:"en"`
	VI []string `json:"vi"`
}

func (l localizedListReq) trimmed() model.LocalizedList {
	return model.LocalizedList{EN: trimAll(l.EN), VI: trimAll(l.VI)}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type createScholarshipReq struct {
	Title        localizedReq     `json:"title"`
	Organization localizedReq     `json:"organization"`
	Description  localizedReq     `json:"description"`
	Eligibility  localizedListReq `json:"eligibility"`
	AmountUSD    int64            `json:"amount"`
	ImageURL     string           `json:"image_url"`
	Website      string           `json:"website"`
	Tags         []string         `json:"tags"`
}

// validTags rejects any tag outside the controlled vocabulary and
// drops duplicates, preserving first-seen order.
func validTags(tags []string) ([]string, bool) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		if !model.ValidTag(t) {
			return nil, false
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, true
}

// Create inserts a new listing.  Both language variants of every
// text field are required; the id and upload date are stamped here
// and never change afterwards.
func (h *ModeratorHandler) Create(c echo.Context) error {
	var req createScholarshipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !req.Title.complete() || !req.Organization.complete() || !req.Description.complete() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, organization and description need both language variants"})
	}
	if req.AmountUSD < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must not be negative"})
	}
	tags, ok := validTags(req.Tags)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tag"})
	}

	id, err := utils.NewID("scholarship")
	if err != nil {
		c.Logger().Errorf("scholarship id: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create scholarship"})
	}
	s := model.Scholarship{
		ID:           id,
		Title:        req.Title.trimmed(),
		Organization: req.Organization.trimmed(),
		Description:  req.Description.trimmed(),
		Eligibility:  req.Eligibility.trimmed(),
		AmountUSD:    req.AmountUSD,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Website:      strings.TrimSpace(req.Website),
		DateUploaded: time.Now().UTC(),
		Tags:         tags,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Scholarships.Create(ctx, s); err != nil {
		c.Logger().Errorf("create scholarship: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create scholarship"})
	}

	h.Catalog.Apply(s)
	publishChange(c, h.Events, queue.ActionCreated, s.ID, middleware.CurrentUserID(c))

	return c.JSON(http.StatusCreated, viewScholarship(s, true))
}

type updateScholarshipReq struct {
	Title        *localizedReq     `json:"title"`
	Organization *localizedReq     `json:"organization"`
	Description  *localizedReq     `json:"description"`
	Eligibility  *localizedListReq `json:"eligibility"`
	AmountUSD    *int64            `json:"amount"`
	ImageURL     *string           `json:"image_url"`
	Website      *string           `json:"website"`
	Tags         *[]string         `json:"tags"`
}

// Update applies a partial edit.  Omitted fields keep their value;
// bilingual fields that are present must still carry both variants.
func (h *ModeratorHandler) Update(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))

	var req updateScholarshipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var p repository.Patch
	for _, f := range []struct {
		in  *localizedReq
		out **model.Localized
	}{
		{req.Title, &p.Title},
		{req.Organization, &p.Organization},
		{req.Description, &p.Description},
	} {
		if f.in == nil {
			continue
		}
		if !f.in.complete() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bilingual fields need both language variants"})
		}
		v := f.in.trimmed()
		*f.out = &v
	}
	if req.Eligibility != nil {
		v := req.Eligibility.trimmed()
		p.Eligibility = &v
	}
	if req.AmountUSD != nil {
		if *req.AmountUSD < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must not be negative"})
		}
		p.AmountUSD = req.AmountUSD
	}
	if req.ImageURL != nil {
		v := strings.TrimSpace(*req.ImageURL)
		p.ImageURL = &v
	}
	if req.Website != nil {
		v := strings.TrimSpace(*req.Website)
		p.Website = &v
	}
	if req.Tags != nil {
		tags, ok := validTags(*req.Tags)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tag"})
		}
		p.Tags = &tags
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	s, err := h.Scholarships.Update(ctx, id, p)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		c.Logger().Errorf("update scholarship %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update scholarship"})
	}

	h.Catalog.Apply(s)
	publishChange(c, h.Events, queue.ActionUpdated, id, middleware.CurrentUserID(c))

	return c.JSON(http.StatusOK, viewScholarship(s, true))
}

// Delete removes a listing and its comments.  Saved references held
// by users are left alone; readers drop ids that no longer resolve.
func (h *ModeratorHandler) Delete(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Scholarships.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		c.Logger().Errorf("delete scholarship %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete scholarship"})
	}

	h.Catalog.Remove(id)
	publishChange(c, h.Events, queue.ActionDeleted, id, middleware.CurrentUserID(c))

	return c.NoContent(http.StatusNoContent)
}

// Get returns one listing with hidden comments included, for the
// moderation view.
func (h *ModeratorHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	s, err := h.Scholarships.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		c.Logger().Errorf("get scholarship %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load scholarship"})
	}
	return c.JSON(http.StatusOK, viewScholarship(s, true))
}

type lockCommentsReq struct {
	Locked bool `json:"locked"`
}

// SetCommentsLocked toggles the listing-wide comment lock.
func (h *ModeratorHandler) SetCommentsLocked(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))

	var req lockCommentsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Scholarships.SetCommentsLocked(ctx, id, req.Locked); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		c.Logger().Errorf("lock comments %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update comment lock"})
	}

	if s, ok := h.Catalog.Get(id); ok {
		s.CommentsLocked = req.Locked
		h.Catalog.Apply(s)
	}
	publishChange(c, h.Events, queue.ActionCommentsLocked, id, middleware.CurrentUserID(c))

	return c.JSON(http.StatusOK, echo.Map{"scholarship_id": id, "comments_locked": req.Locked})
}

type hideCommentReq struct {
	Hidden bool `json:"hidden"`
}

// SetCommentHidden flips a comment's moderation flag.  A comment id
// that does not exist under the listing is a silent no-op, matching
// the storage layer.
func (h *ModeratorHandler) SetCommentHidden(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	commentID := strings.TrimSpace(c.Param("commentId"))

	var req hideCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Scholarships.SetCommentHidden(ctx, id, commentID, req.Hidden); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		c.Logger().Errorf("hide comment %s/%s: %v", id, commentID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update comment"})
	}

	if s, ok := h.Catalog.Get(id); ok {
		for i := range s.Comments {
			if s.Comments[i].ID == commentID {
				s.Comments[i].Hidden = req.Hidden
			}
		}
		h.Catalog.Apply(s)
	}
	publishChange(c, h.Events, queue.ActionCommentModerated, id, middleware.CurrentUserID(c))

	return c.JSON(http.StatusOK, echo.Map{"scholarship_id": id, "comment_id": commentID, "hidden": req.Hidden})
}
