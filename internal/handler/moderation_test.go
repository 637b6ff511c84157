package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/model"
)

func newModerationFixture(t *testing.T, items ...model.Scholarship) (*ModeratorHandler, *fakeScholarships, *catalog.Catalog, *fakeEvents) {
	t.Helper()
	store := newFakeScholarships(items...)
	cat := newTestCatalog(t, store)
	events := &fakeEvents{}
	return NewModeratorHandler(store, cat, events), store, cat, events
}

func moderator() *model.User {
	return &model.User{ID: 42, Username: "mod", Role: model.RoleModerator}
}

func TestCreateScholarship(t *testing.T) {
	h, store, cat, events := newModerationFixture(t)

	body := map[string]any{
		"title":        map[string]string{"en": "STEM Award", "vi": "Giải thưởng STEM"},
		"organization": map[string]string{"en": "Tech Corp", "vi": "Công ty Tech"},
		"description":  map[string]string{"en": "For students", "vi": "Dành cho sinh viên"},
		"eligibility": map[string][]string{
			"en": {"GPA 3.0+"},
			"vi": {"GPA 3.0 trở lên"},
		},
		"amount": 10000,
		"tags":   []string{"tech", "STEM", "tech"},
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/moderation/scholarships", body, moderator())
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustStatus(t, rec, http.StatusCreated)

	var resp struct {
		ID           string    `json:"id"`
		DateUploaded time.Time `json:"date_uploaded"`
		Tags         []string  `json:"tags"`
		AmountVND    int64     `json:"amount_vnd"`
	}
	decodeBody(t, rec, &resp)

	if !strings.HasPrefix(resp.ID, "scholarship-") {
		t.Fatalf("id = %q, want generated scholarship id", resp.ID)
	}
	if resp.DateUploaded.IsZero() {
		t.Fatal("upload date not stamped")
	}
	if len(resp.Tags) != 2 || resp.Tags[0] != "tech" || resp.Tags[1] != "stem" {
		t.Fatalf("tags = %v, want lowercased dedup", resp.Tags)
	}
	if resp.AmountVND != 10000*model.VNDPerUSD {
		t.Fatalf("amount_vnd = %d", resp.AmountVND)
	}

	if _, err := store.GetByID(context.Background(), resp.ID); err != nil {
		t.Fatalf("not persisted: %v", err)
	}
	if _, ok := cat.Get(resp.ID); !ok {
		t.Fatal("not applied to catalog")
	}
	if len(events.events) != 1 || events.events[0].Action != "created" {
		t.Fatalf("events = %+v", events.events)
	}
}

func TestCreateScholarshipRequiresBothLanguages(t *testing.T) {
	h, _, _, _ := newModerationFixture(t)

	body := map[string]any{
		"title":        map[string]string{"en": "STEM Award"}, // vi missing
		"organization": map[string]string{"en": "Tech Corp", "vi": "Công ty Tech"},
		"description":  map[string]string{"en": "For students", "vi": "Dành cho sinh viên"},
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/moderation/scholarships", body, moderator())
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestCreateScholarshipRejectsUnknownTag(t *testing.T) {
	h, _, _, _ := newModerationFixture(t)

	body := map[string]any{
		"title":        map[string]string{"en": "A", "vi": "A"},
		"organization": map[string]string{"en": "B", "vi": "B"},
		"description":  map[string]string{"en": "C", "vi": "C"},
		"tags":         []string{"tech", "not-a-tag"},
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/moderation/scholarships", body, moderator())
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateScholarshipPartial(t *testing.T) {
	s := sampleScholarship("scholarship-1")
	h, store, cat, _ := newModerationFixture(t, s)

	body := map[string]any{"amount": 2000}
	c, rec := newTestContext(t, http.MethodPut, "/v1/moderation/scholarships/scholarship-1", body, moderator())
	c.SetParamNames("id")
	c.SetParamValues("scholarship-1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	got, _ := store.GetByID(context.Background(), "scholarship-1")
	if got.AmountUSD != 2000 {
		t.Fatalf("amount = %d", got.AmountUSD)
	}
	if got.Title != s.Title || got.DateUploaded != s.DateUploaded {
		t.Fatal("untouched fields changed")
	}
	if cached, _ := cat.Get("scholarship-1"); cached.AmountUSD != 2000 {
		t.Fatal("catalog not refreshed")
	}
}

func TestUpdateScholarshipNotFound(t *testing.T) {
	h, _, _, _ := newModerationFixture(t)

	c, rec := newTestContext(t, http.MethodPut, "/v1/moderation/scholarships/scholarship-x", map[string]any{"amount": 1}, moderator())
	c.SetParamNames("id")
	c.SetParamValues("scholarship-x")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	mustStatus(t, rec, http.StatusNotFound)
}

func TestDeleteScholarship(t *testing.T) {
	h, store, cat, events := newModerationFixture(t, sampleScholarship("scholarship-1"))

	c, rec := newTestContext(t, http.MethodDelete, "/v1/moderation/scholarships/scholarship-1", nil, moderator())
	c.SetParamNames("id")
	c.SetParamValues("scholarship-1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	mustStatus(t, rec, http.StatusNoContent)

	if _, err := store.GetByID(context.Background(), "scholarship-1"); err == nil {
		t.Fatal("row still present")
	}
	if _, ok := cat.Get("scholarship-1"); ok {
		t.Fatal("catalog still serves deleted listing")
	}
	if len(events.events) != 1 || events.events[0].Action != "deleted" {
		t.Fatalf("events = %+v", events.events)
	}
}

func TestSetCommentsLocked(t *testing.T) {
	h, store, cat, _ := newModerationFixture(t, sampleScholarship("scholarship-1"))

	c, rec := newTestContext(t, http.MethodPut, "/v1/moderation/scholarships/scholarship-1/comments-lock",
		map[string]bool{"locked": true}, moderator())
	c.SetParamNames("id")
	c.SetParamValues("scholarship-1")
	if err := h.SetCommentsLocked(c); err != nil {
		t.Fatalf("lock: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	got, _ := store.GetByID(context.Background(), "scholarship-1")
	if !got.CommentsLocked {
		t.Fatal("lock flag not persisted")
	}
	if cached, _ := cat.Get("scholarship-1"); !cached.CommentsLocked {
		t.Fatal("lock flag not applied to catalog")
	}
}

func TestSetCommentHidden(t *testing.T) {
	s := sampleScholarship("scholarship-1")
	s.Comments = []model.Comment{{ID: "comment-a", UserID: 7, Text: "hello"}}
	h, store, _, _ := newModerationFixture(t, s)

	c, rec := newTestContext(t, http.MethodPut, "/v1/moderation/scholarships/scholarship-1/comments/comment-a/hidden",
		map[string]bool{"hidden": true}, moderator())
	c.SetParamNames("id", "commentId")
	c.SetParamValues("scholarship-1", "comment-a")
	if err := h.SetCommentHidden(c); err != nil {
		t.Fatalf("hide: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	got, _ := store.GetByID(context.Background(), "scholarship-1")
	if !got.Comments[0].Hidden {
		t.Fatal("comment not hidden")
	}
	if len(got.VisibleComments()) != 0 {
		t.Fatal("hidden comment still visible")
	}
}

// Hiding a comment id that does not exist under the listing succeeds
// without changing anything.
func TestSetCommentHiddenMissingCommentIsNoOp(t *testing.T) {
	s := sampleScholarship("scholarship-1")
	s.Comments = []model.Comment{{ID: "comment-a", UserID: 7, Text: "hello"}}
	h, store, _, _ := newModerationFixture(t, s)

	c, rec := newTestContext(t, http.MethodPut, "/v1/moderation/scholarships/scholarship-1/comments/comment-x/hidden",
		map[string]bool{"hidden": true}, moderator())
	c.SetParamNames("id", "commentId")
	c.SetParamValues("scholarship-1", "comment-x")
	if err := h.SetCommentHidden(c); err != nil {
		t.Fatalf("hide: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	got, _ := store.GetByID(context.Background(), "scholarship-1")
	if got.Comments[0].Hidden {
		t.Fatal("unrelated comment flipped")
	}
}

// The moderation view includes hidden comments; the public view does
// not.
func TestModerationGetIncludesHiddenComments(t *testing.T) {
	s := sampleScholarship("scholarship-1")
	s.Comments = []model.Comment{
		{ID: "comment-a", Text: "visible"},
		{ID: "comment-b", Text: "hidden", Hidden: true},
	}
	h, _, cat, _ := newModerationFixture(t, s)

	c, rec := newTestContext(t, http.MethodGet, "/v1/moderation/scholarships/scholarship-1", nil, moderator())
	c.SetParamNames("id")
	c.SetParamValues("scholarship-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	var modView struct {
		Comments []struct {
			ID string `json:"id"`
		} `json:"comments"`
	}
	decodeBody(t, rec, &modView)
	if len(modView.Comments) != 2 {
		t.Fatalf("moderation view comments = %d, want 2", len(modView.Comments))
	}

	pub := NewPublicHandler(cat)
	c, rec = newTestContext(t, http.MethodGet, "/v1/scholarships/scholarship-1", nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("scholarship-1")
	if err := pub.GetScholarship(c); err != nil {
		t.Fatalf("public get: %v", err)
	}
	var pubView struct {
		Comments []struct {
			ID string `json:"id"`
		} `json:"comments"`
	}
	decodeBody(t, rec, &pubView)
	if len(pubView.Comments) != 1 || pubView.Comments[0].ID != "comment-a" {
		t.Fatalf("public view comments = %+v, want only the visible one", pubView.Comments)
	}
}
