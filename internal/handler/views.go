package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/middleware"
	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/queue"
	"github.com/minhngvn/scholarship-hub/internal/repository"
)

const dbTimeout = 5 * time.Second

// userView is the sanitized account shape returned by the API.  The
// password hash never appears in any response.
type userView struct {
	ID                  uint64     `json:"id"`
	Username            string     `json:"username"`
	FullName            string     `json:"full_name"`
	Role                model.Role `json:"role"`
	Phone               string     `json:"phone,omitempty"`
	Organization        string     `json:"organization,omitempty"`
	PreferredLanguage   string     `json:"preferred_language"`
	SavedScholarshipIDs []string   `json:"saved_scholarship_ids"`
	IsLocked            bool       `json:"is_locked"`
}

func viewUser(u model.User) userView {
	saved := u.SavedScholarshipIDs
	if saved == nil {
		saved = []string{}
	}
	return userView{
		ID:                  u.ID,
		Username:            u.Username,
		FullName:            u.FullName,
		Role:                u.Role,
		Phone:               u.Phone,
		Organization:        u.Organization,
		PreferredLanguage:   u.PreferredLanguage,
		SavedScholarshipIDs: saved,
		IsLocked:            u.IsLocked,
	}
}

// scholarshipView adds the derived VND amount to a listing.
type scholarshipView struct {
	model.Scholarship
	AmountVND int64 `json:"amount_vnd"`
}

// viewScholarship shapes a listing for a response.  Unless the
// caller may moderate comments, hidden comments are stripped.
func viewScholarship(s model.Scholarship, includeHidden bool) scholarshipView {
	if !includeHidden {
		s.Comments = s.VisibleComments()
	}
	if s.Comments == nil {
		s.Comments = []model.Comment{}
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return scholarshipView{Scholarship: s, AmountVND: s.AmountVND()}
}

func viewScholarships(items []model.Scholarship, includeHidden bool) []scholarshipView {
	out := make([]scholarshipView, 0, len(items))
	for _, s := range items {
		out = append(out, viewScholarship(s, includeHidden))
	}
	return out
}

// langParam resolves the active locale from the `lang` query
// parameter, defaulting to English.
func langParam(c echo.Context) string {
	if strings.EqualFold(strings.TrimSpace(c.QueryParam("lang")), model.LangVI) {
		return model.LangVI
	}
	return model.LangEN
}

// currentUser loads the session's account record.  A session whose
// backing row has disappeared is treated as expired: the caller
// should respond 401 so the client drops the stale session instead
// of operating on it.
func currentUser(c echo.Context, users UserStore) (model.User, bool) {
	id := middleware.CurrentUserID(c)
	if id == 0 {
		return model.User{}, false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

// publishChange fires a change event without failing the request.
func publishChange(c echo.Context, events EventPublisher, action, scholarshipID string, actorID uint64) {
	if events == nil {
		return
	}
	_ = events.PublishScholarshipChanged(c.Request().Context(), queue.ScholarshipChangedEvent{
		ScholarshipID: scholarshipID,
		Action:        action,
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

func isNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
