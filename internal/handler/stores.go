// Package handler implements the HTTP surface.  Handlers consume
// small store interfaces rather than concrete repositories so the
// permission-gated flows can be exercised against in-memory fakes;
// the repository package provides the MySQL implementations.
package handler

import (
	"context"
	"time"

	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/queue"
	"github.com/minhngvn/scholarship-hub/internal/repository"
)

// UserStore is the account persistence the handlers need.
type UserStore interface {
	Create(ctx context.Context, username, password string, cost int) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uint64, fullName, phone, organization, lang string) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	SetLocked(ctx context.Context, username string, locked bool) error
	SetRole(ctx context.Context, username string, role model.Role) error
	AddSaved(ctx context.Context, userID uint64, scholarshipID string) error
	RemoveSaved(ctx context.Context, userID uint64, scholarshipID string) error
}

// ScholarshipStore is the listing persistence the handlers need.
type ScholarshipStore interface {
	GetByID(ctx context.Context, id string) (model.Scholarship, error)
	Create(ctx context.Context, s model.Scholarship) error
	Update(ctx context.Context, id string, p repository.Patch) (model.Scholarship, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, scholarshipID string, cm model.Comment) error
	SetCommentHidden(ctx context.Context, scholarshipID, commentID string, hidden bool) error
	SetCommentsLocked(ctx context.Context, scholarshipID string, locked bool) error
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// EventPublisher forwards change events to the broker.  Handlers
// treat publish failures as best-effort: the mutation already
// committed and the consumer path is only one of two ways the
// catalog stays fresh.
type EventPublisher interface {
	PublishScholarshipChanged(ctx context.Context, ev queue.ScholarshipChangedEvent) error
}
