package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

// ScholarshipRepo persists listings and their embedded comments.
// Bilingual list fields (eligibility, tags) are stored as JSON text
// columns; comments live in the scholarship_comments child table and
// are always loaded with their parent, ordered by creation.
type ScholarshipRepo struct{ DB *sql.DB }

func NewScholarshipRepo(db *sql.DB) *ScholarshipRepo { return &ScholarshipRepo{DB: db} }

// Patch carries a partial update.  Nil fields are left untouched.
// Id, comments, dateUploaded and commentsLocked are deliberately not
// representable here; those change only through dedicated operations.
type Patch struct {
	Title        *model.Localized
	Organization *model.Localized
	Description  *model.Localized
	Eligibility  *model.LocalizedList
	AmountUSD    *int64
	ImageURL     *string
	Website      *string
	Tags         *[]string
}

const scholarshipColumns = `id, title_en, title_vi, organization_en, organization_vi,
	description_en, description_vi, eligibility_en, eligibility_vi,
	amount_usd, image_url, website, date_uploaded, tags, comments_locked`

// ListScholarships returns every listing with comments attached.
func (r *ScholarshipRepo) ListScholarships(ctx context.Context) ([]model.Scholarship, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+scholarshipColumns+" FROM scholarships")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Comments, err = r.commentsFor(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetByID fetches one listing or ErrNotFound.
func (r *ScholarshipRepo) GetByID(ctx context.Context, id string) (model.Scholarship, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+scholarshipColumns+" FROM scholarships WHERE id=? LIMIT 1", id)
	s, err := scanScholarship(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Scholarship{}, ErrNotFound
		}
		return model.Scholarship{}, err
	}
	if s.Comments, err = r.commentsFor(ctx, id); err != nil {
		return model.Scholarship{}, err
	}
	return s, nil
}

// Create inserts a fully stamped listing (the handler sets id and
// dateUploaded before calling).
func (r *ScholarshipRepo) Create(ctx context.Context, s model.Scholarship) error {
	eligEN, eligVI, tags, err := encodeLists(s)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO scholarships
		(id, title_en, title_vi, organization_en, organization_vi,
		 description_en, description_vi, eligibility_en, eligibility_vi,
		 amount_usd, image_url, website, date_uploaded, tags, comments_locked)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.Title.EN, s.Title.VI, s.Organization.EN, s.Organization.VI,
		s.Description.EN, s.Description.VI, eligEN, eligVI,
		s.AmountUSD, s.ImageURL, s.Website, s.DateUploaded.UTC(), tags, s.CommentsLocked)
	return err
}

// Update applies a partial merge and returns the merged listing.
func (r *ScholarshipRepo) Update(ctx context.Context, id string, p Patch) (model.Scholarship, error) {
	set := []string{}
	args := []any{}
	addPair := func(enCol, viCol string, l *model.Localized) {
		if l != nil {
			set = append(set, enCol+"=?", viCol+"=?")
			args = append(args, l.EN, l.VI)
		}
	}
	addPair("title_en", "title_vi", p.Title)
	addPair("organization_en", "organization_vi", p.Organization)
	addPair("description_en", "description_vi", p.Description)
	if p.Eligibility != nil {
		en, err := json.Marshal(p.Eligibility.EN)
		if err != nil {
			return model.Scholarship{}, err
		}
		vi, err := json.Marshal(p.Eligibility.VI)
		if err != nil {
			return model.Scholarship{}, err
		}
		set = append(set, "eligibility_en=?", "eligibility_vi=?")
		args = append(args, string(en), string(vi))
	}
	if p.AmountUSD != nil {
		set = append(set, "amount_usd=?")
		args = append(args, *p.AmountUSD)
	}
	if p.ImageURL != nil {
		set = append(set, "image_url=?")
		args = append(args, *p.ImageURL)
	}
	if p.Website != nil {
		set = append(set, "website=?")
		args = append(args, *p.Website)
	}
	if p.Tags != nil {
		tags, err := json.Marshal(*p.Tags)
		if err != nil {
			return model.Scholarship{}, err
		}
		set = append(set, "tags=?")
		args = append(args, string(tags))
	}
	if len(set) > 0 {
		args = append(args, id)
		_, err := r.DB.ExecContext(ctx,
			"UPDATE scholarships SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
		if err != nil {
			return model.Scholarship{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a listing and its comments.  Saved-set rows that
// reference the id are left alone; dangling bookmarks are tolerated
// and dropped at read time.
func (r *ScholarshipRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx,
		"DELETE FROM scholarship_comments WHERE scholarship_id=?", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM scholarships WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddComment appends a stamped comment to a listing.
func (r *ScholarshipRepo) AddComment(ctx context.Context, scholarshipID string, cm model.Comment) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO scholarship_comments
		(id, scholarship_id, user_id, user_full_name, text, created_at, is_hidden)
		VALUES (?,?,?,?,?,?,?)`,
		cm.ID, scholarshipID, cm.UserID, cm.UserFullName, cm.Text, cm.CreatedAt.UTC(), cm.Hidden)
	return err
}

// SetCommentHidden flips one comment's visibility flag.  A missing
// listing or comment id affects zero rows, which is the intended
// no-op.
func (r *ScholarshipRepo) SetCommentHidden(ctx context.Context, scholarshipID, commentID string, hidden bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE scholarship_comments SET is_hidden=? WHERE scholarship_id=? AND id=?",
		hidden, scholarshipID, commentID)
	return err
}

// SetCommentsLocked toggles the listing-wide posting gate.
func (r *ScholarshipRepo) SetCommentsLocked(ctx context.Context, scholarshipID string, locked bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE scholarships SET comments_locked=? WHERE id=?", locked, scholarshipID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "already in that state" from "no such listing".
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM scholarships WHERE id=? LIMIT 1", scholarshipID).Scan(&one); scanErr == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	return nil
}

func (r *ScholarshipRepo) commentsFor(ctx context.Context, scholarshipID string) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, user_full_name, text, created_at, is_hidden
		 FROM scholarship_comments WHERE scholarship_id=? ORDER BY created_at, id`,
		scholarshipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.UserFullName, &cm.Text, &cm.CreatedAt, &cm.Hidden); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

func scanScholarship(row rowScanner) (model.Scholarship, error) {
	var (
		s                    model.Scholarship
		eligEN, eligVI, tags string
	)
	err := row.Scan(&s.ID, &s.Title.EN, &s.Title.VI, &s.Organization.EN, &s.Organization.VI,
		&s.Description.EN, &s.Description.VI, &eligEN, &eligVI,
		&s.AmountUSD, &s.ImageURL, &s.Website, &s.DateUploaded, &tags, &s.CommentsLocked)
	if err != nil {
		return model.Scholarship{}, err
	}
	if err := json.Unmarshal([]byte(eligEN), &s.Eligibility.EN); err != nil {
		return model.Scholarship{}, err
	}
	if err := json.Unmarshal([]byte(eligVI), &s.Eligibility.VI); err != nil {
		return model.Scholarship{}, err
	}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return model.Scholarship{}, err
	}
	return s, nil
}

func encodeLists(s model.Scholarship) (eligEN, eligVI, tags string, err error) {
	en, err := json.Marshal(s.Eligibility.EN)
	if err != nil {
		return "", "", "", err
	}
	vi, err := json.Marshal(s.Eligibility.VI)
	if err != nil {
		return "", "", "", err
	}
	tg, err := json.Marshal(s.Tags)
	if err != nil {
		return "", "", "", err
	}
	return string(en), string(vi), string(tg), nil
}
