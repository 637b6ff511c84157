package model

import "time"

// Languages supported by listing content.  Every listing carries both
// variants; readers pick one via the `lang` query parameter.
const (
	LangEN = "en"
	LangVI = "vi"
)

// VNDPerUSD is the fixed display conversion factor.  Amounts are
// stored in USD only; the VND figure is derived, never persisted.
const VNDPerUSD = 25000

// Localized is a pair of translations for a single text field.
type Localized struct {
	EN string `json:"en"`
	VI string `json:"vi"`
}

// In returns the variant for the given language, defaulting to
// English for anything that is not "vi".
func (l Localized) In(lang string) string {
	if lang == LangVI {
		return l.VI
	}
	return l.EN
}

// LocalizedList is a pair of translated string lists (eligibility
// criteria keep their order within each language).
type LocalizedList struct {
	EN []string `json:"en"`
	VI []string `json:"vi"`
}

// Comment is a reader comment embedded in its parent scholarship.
// UserFullName is denormalized at post time and never re-resolved,
// so renaming an account does not rewrite old comments.  Hidden is a
// moderation flag: hidden comments stay in storage but are filtered
// from non-moderator views.
type Comment struct {
	ID           string    `json:"id"`
	UserID       uint64    `json:"user_id"`
	UserFullName string    `json:"user_full_name"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	Hidden       bool      `json:"hidden"`
}

// Scholarship is a listing record.  Title, organization, description
// and eligibility are bilingual; both variants are required at
// creation.  DateUploaded is stamped once at creation and is
// immutable afterwards.  CommentsLocked gates new comment posting and
// is independent of per-comment Hidden flags.
type Scholarship struct {
	ID             string        `json:"id"`
	Title          Localized     `json:"title"`
	Organization   Localized     `json:"organization"`
	Description    Localized     `json:"description"`
	Eligibility    LocalizedList `json:"eligibility"`
	AmountUSD      int64         `json:"amount"`
	ImageURL       string        `json:"image_url"`
	Website        string        `json:"website"`
	DateUploaded   time.Time     `json:"date_uploaded"`
	Tags           []string      `json:"tags"`
	Comments       []Comment     `json:"comments"`
	CommentsLocked bool          `json:"comments_locked"`
}

// AmountVND derives the display amount in the secondary currency.
func (s *Scholarship) AmountVND() int64 {
	return s.AmountUSD * VNDPerUSD
}

// VisibleComments returns the comments a non-moderator may see.
func (s *Scholarship) VisibleComments() []Comment {
	out := make([]Comment, 0, len(s.Comments))
	for _, cm := range s.Comments {
		if !cm.Hidden {
			out = append(out, cm)
		}
	}
	return out
}

// Clone returns a deep copy so cached listings can be handed out
// without sharing the comment and tag slices.
func (s Scholarship) Clone() Scholarship {
	out := s
	out.Tags = append([]string(nil), s.Tags...)
	out.Comments = append([]Comment(nil), s.Comments...)
	out.Eligibility = LocalizedList{
		EN: append([]string(nil), s.Eligibility.EN...),
		VI: append([]string(nil), s.Eligibility.VI...),
	}
	return out
}
