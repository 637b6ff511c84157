package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/config"
	"github.com/minhngvn/scholarship-hub/internal/middleware"
	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/queue"
	"github.com/minhngvn/scholarship-hub/internal/repository"
	"github.com/minhngvn/scholarship-hub/internal/utils"
)

// testCost keeps bcrypt cheap in tests.
const testCost = 4

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     testCost,
	}
}

// fakeUsers is an in-memory UserStore mirroring the MySQL repo's
// behavior: auto-increment ids, lowercase usernames, USER role and
// full_name=username at creation.
type fakeUsers struct {
	byID   map[uint64]model.User
	nextID uint64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[uint64]model.User), nextID: 1}
}

func (f *fakeUsers) add(u model.User) model.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	if u.PreferredLanguage == "" {
		u.PreferredLanguage = model.LangEN
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, username, password string, cost int) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	for _, u := range f.byID {
		if u.Username == username {
			return model.User{}, repository.ErrUsernameExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	return f.add(model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     username,
		Role:         model.RoleUser,
	}), nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byID {
		if u.Role != model.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint64, fullName, phone, organization, lang string) error {
	u := f.byID[id]
	u.FullName, u.Phone, u.Organization, u.PreferredLanguage = fullName, phone, organization, lang
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	u := f.byID[id]
	u.PasswordHash = hash
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) SetLocked(_ context.Context, username string, locked bool) error {
	for id, u := range f.byID {
		if u.Username == username {
			u.IsLocked = locked
			f.byID[id] = u
		}
	}
	return nil
}

func (f *fakeUsers) SetRole(_ context.Context, username string, role model.Role) error {
	for id, u := range f.byID {
		if u.Username == username {
			u.Role = role
			f.byID[id] = u
		}
	}
	return nil
}

func (f *fakeUsers) AddSaved(_ context.Context, userID uint64, scholarshipID string) error {
	u := f.byID[userID]
	for _, id := range u.SavedScholarshipIDs {
		if id == scholarshipID {
			return nil
		}
	}
	u.SavedScholarshipIDs = append(u.SavedScholarshipIDs, scholarshipID)
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) RemoveSaved(_ context.Context, userID uint64, scholarshipID string) error {
	u := f.byID[userID]
	out := u.SavedScholarshipIDs[:0]
	for _, id := range u.SavedScholarshipIDs {
		if id != scholarshipID {
			out = append(out, id)
		}
	}
	u.SavedScholarshipIDs = out
	f.byID[userID] = u
	return nil
}

// fakeScholarships is an in-memory ScholarshipStore.
type fakeScholarships struct {
	byID map[string]model.Scholarship
}

func newFakeScholarships(items ...model.Scholarship) *fakeScholarships {
	f := &fakeScholarships{byID: make(map[string]model.Scholarship)}
	for _, s := range items {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeScholarships) ListScholarships(_ context.Context) ([]model.Scholarship, error) {
	out := make([]model.Scholarship, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (f *fakeScholarships) GetByID(_ context.Context, id string) (model.Scholarship, error) {
	s, ok := f.byID[id]
	if !ok {
		return model.Scholarship{}, repository.ErrNotFound
	}
	return s.Clone(), nil
}

func (f *fakeScholarships) Create(_ context.Context, s model.Scholarship) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeScholarships) Update(_ context.Context, id string, p repository.Patch) (model.Scholarship, error) {
	s, ok := f.byID[id]
	if !ok {
		return model.Scholarship{}, repository.ErrNotFound
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Organization != nil {
		s.Organization = *p.Organization
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Eligibility != nil {
		s.Eligibility = *p.Eligibility
	}
	if p.AmountUSD != nil {
		s.AmountUSD = *p.AmountUSD
	}
	if p.ImageURL != nil {
		s.ImageURL = *p.ImageURL
	}
	if p.Website != nil {
		s.Website = *p.Website
	}
	if p.Tags != nil {
		s.Tags = *p.Tags
	}
	f.byID[id] = s
	return s.Clone(), nil
}

func (f *fakeScholarships) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeScholarships) AddComment(_ context.Context, scholarshipID string, cm model.Comment) error {
	s, ok := f.byID[scholarshipID]
	if !ok {
		return repository.ErrNotFound
	}
	s.Comments = append(s.Comments, cm)
	f.byID[scholarshipID] = s
	return nil
}

func (f *fakeScholarships) SetCommentHidden(_ context.Context, scholarshipID, commentID string, hidden bool) error {
	s, ok := f.byID[scholarshipID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range s.Comments {
		if s.Comments[i].ID == commentID {
			s.Comments[i].Hidden = hidden
		}
	}
	f.byID[scholarshipID] = s
	return nil
}

func (f *fakeScholarships) SetCommentsLocked(_ context.Context, scholarshipID string, locked bool) error {
	s, ok := f.byID[scholarshipID]
	if !ok {
		return repository.ErrNotFound
	}
	s.CommentsLocked = locked
	f.byID[scholarshipID] = s
	return nil
}

// fakeTokens is an in-memory TokenStore.
type fakeTokens struct {
	byHash map[string]struct {
		userID uint64
		exp    time.Time
	}
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byHash: make(map[string]struct {
		userID uint64
		exp    time.Time
	})}
}

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	f.byHash[tokenHash] = struct {
		userID uint64
		exp    time.Time
	}{userID, exp}
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	rec, ok := f.byHash[tokenHash]
	if !ok || time.Now().After(rec.exp) {
		return 0, repository.ErrNotFound
	}
	return rec.userID, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	delete(f.byHash, tokenHash)
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for h, rec := range f.byHash {
		if rec.userID == userID {
			delete(f.byHash, h)
		}
	}
	return nil
}

// fakeEvents records published change events.
type fakeEvents struct {
	events []queue.ScholarshipChangedEvent
}

func (f *fakeEvents) PublishScholarshipChanged(_ context.Context, ev queue.ScholarshipChangedEvent) error {
	f.events = append(f.events, ev)
	return nil
}

// newTestContext builds an echo context carrying an optional JSON
// body, path params and the session values the JWT middleware would
// have set.
func newTestContext(t *testing.T, method, path string, body any, u *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(bs))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if u != nil {
		c.Set(middleware.CtxUserID, u.ID)
		c.Set(middleware.CtxUsername, u.Username)
		c.Set(middleware.CtxRole, u.Role)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func newTestCatalog(t *testing.T, store *fakeScholarships) *catalog.Catalog {
	t.Helper()
	cat := catalog.New(store)
	if err := cat.Reload(context.Background()); err != nil {
		t.Fatalf("reload catalog: %v", err)
	}
	return cat
}

func sampleScholarship(id string) model.Scholarship {
	return model.Scholarship{
		ID:           id,
		Title:        model.Localized{EN: "Sample " + id, VI: "Mẫu " + id},
		Organization: model.Localized{EN: "Org", VI: "Tổ chức"},
		Description:  model.Localized{EN: "Desc", VI: "Mô tả"},
		AmountUSD:    1000,
		DateUploaded: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Tags:         []string{"tech"},
	}
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
