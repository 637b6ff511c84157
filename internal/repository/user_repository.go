package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/utils"
)

// UserRepo persists accounts and their saved scholarship sets.
// Saved ids live in the saved_scholarships join table; every user
// read also loads that set so callers always see a complete record.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, password_hash, full_name, role, phone, organization, preferred_language, is_locked, created_at, updated_at"

// Create inserts a new USER account with an empty saved set and
// returns the stored record.  The plain password is hashed here and
// never leaves this function.
func (r *UserRepo) Create(ctx context.Context, username, password string, cost int) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	// New accounts display their username as full name until the
	// profile is edited.
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, full_name, role, preferred_language) VALUES (?,?,?,?,?)",
		username, hash, username, string(model.RoleUser), model.LangEN)
	if err != nil {
		// MySQL 1062: duplicate key on the unique username index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByUsername fetches an account by its normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.getWhere(ctx, "username=?", username)
}

// GetByID fetches an account by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

// List returns every account except administrators, for the admin
// portal table.  Admin rows are withheld because nothing in the
// portal may act on them anyway.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role<>? ORDER BY username",
		string(model.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].SavedScholarshipIDs, err = r.SavedIDs(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateProfile overwrites the display name, optional contact fields
// and preferred language.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phone, organization, lang string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, phone=?, organization=?, preferred_language=?, updated_at=NOW() WHERE id=?",
		fullName, phone, organization, lang, id)
	return err
}

// UpdatePasswordHash replaces the stored password hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	return err
}

// SetLocked sets the account lock flag.
func (r *UserRepo) SetLocked(ctx context.Context, username string, locked bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_locked=?, updated_at=NOW() WHERE username=?",
		locked, strings.ToLower(strings.TrimSpace(username)))
	return err
}

// SetRole reassigns the account's role.
func (r *UserRepo) SetRole(ctx context.Context, username string, role model.Role) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE username=?",
		string(role), strings.ToLower(strings.TrimSpace(username)))
	return err
}

// SavedIDs returns the scholarship ids saved by the account, newest
// bookmark first.
func (r *UserRepo) SavedIDs(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT scholarship_id FROM saved_scholarships WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AddSaved bookmarks a scholarship.  Re-saving an already saved id is
// a no-op (INSERT IGNORE on the composite primary key).
func (r *UserRepo) AddSaved(ctx context.Context, userID uint64, scholarshipID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO saved_scholarships (user_id, scholarship_id) VALUES (?,?)",
		userID, scholarshipID)
	return err
}

// RemoveSaved removes a bookmark; removing an absent one is a no-op.
func (r *UserRepo) RemoveSaved(ctx context.Context, userID uint64, scholarshipID string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM saved_scholarships WHERE user_id=? AND scholarship_id=?",
		userID, scholarshipID)
	return err
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg any) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+cond+" LIMIT 1", arg)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if u.SavedScholarshipIDs, err = r.SavedIDs(ctx, u.ID); err != nil {
		return model.User{}, err
	}
	return u, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u     model.User
		role  string
		phone sql.NullString
		org   sql.NullString
		lang  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &role,
		&phone, &org, &lang, &u.IsLocked, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	u.Phone = phone.String
	u.Organization = org.String
	u.PreferredLanguage = lang.String
	if u.PreferredLanguage == "" {
		u.PreferredLanguage = model.LangEN
	}
	return u, nil
}
