package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/policy"
	"github.com/minhngvn/scholarship-hub/internal/queue"
	"github.com/minhngvn/scholarship-hub/internal/utils"
)

// CommentHandler posts user comments. Posting needs a live session,
// an unlocked account and an unlocked comment thread.
type CommentHandler struct {
	Users        UserStore
	Scholarships ScholarshipStore
	Catalog      *catalog.Catalog
	Events       EventPublisher
}

func NewCommentHandler(users UserStore, scholarships ScholarshipStore, cat *catalog.Catalog, events EventPublisher) *CommentHandler {
	return &CommentHandler{Users: users, Scholarships: scholarships, Catalog: cat, Events: events}
}

type addCommentReq struct {
	Text string `json:"text"`
}

func (h *CommentHandler) AddComment(c echo.Context) error {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}

	id := strings.TrimSpace(c.Param("id"))
	s, found := h.Catalog.Get(id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
	}

	var req addCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment text is required"})
	}

	if !policy.CanPostComment(&u, &s) {
		msg := "comments are locked"
		if u.IsLocked {
			msg = "account is locked"
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": msg})
	}

	commentID, err := utils.NewID("comment")
	if err != nil {
		c.Logger().Errorf("comment id: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add comment"})
	}
	comment := model.Comment{
		ID:           commentID,
		UserID:       u.ID,
		UserFullName: u.FullName,
		Text:         req.Text,
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Scholarships.AddComment(ctx, id, comment); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		c.Logger().Errorf("add comment: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add comment"})
	}

	s.Comments = append(s.Comments, comment)
	h.Catalog.Apply(s)
	publishChange(c, h.Events, queue.ActionCommentAdded, id, u.ID)

	return c.JSON(http.StatusCreated, comment)
}
