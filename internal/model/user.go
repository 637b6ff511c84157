package model

import "time"

// User represents an account record as stored in the `users` table.
// PasswordHash is write-only from the API's point of view: it is set
// on signup and password change and is never serialized in responses
// (handlers build separate view structs with JSON tags).
//
// Fields:
//  ID                – primary key identifier of the account.
//  Username          – unique login key.
//  PasswordHash      – bcrypt hash of the password.
//  FullName          – display name shown next to comments.
//  Role              – USER, MODERATOR or ADMIN.
//  Phone             – optional contact phone.
//  Organization      – optional affiliation.
//  PreferredLanguage – "en" or "vi"; UI language restored on login.
//  SavedScholarshipIDs – ids bookmarked by this account; loaded from
//                        the saved_scholarships join table.
//  IsLocked          – a locked account cannot sign in or comment but
//                      keeps read access.
type User struct {
	ID                  uint64
	Username            string
	PasswordHash        string
	FullName            string
	Role                Role
	Phone               string
	Organization        string
	PreferredLanguage   string
	SavedScholarshipIDs []string
	IsLocked            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasSaved reports whether the scholarship id is in the account's
// saved set.
func (u *User) HasSaved(scholarshipID string) bool {
	for _, id := range u.SavedScholarshipIDs {
		if id == scholarshipID {
			return true
		}
	}
	return false
}
