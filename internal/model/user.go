package model

import "time"

// User represents a registered account.
//
// Sign-in is either Google OAuth or email/password. GoogleID holds Google's
// stable subject identifier and is empty for password-only accounts;
// PasswordHash is empty for OAuth-only accounts. We still generate our own
// internal string ID (xid) so primary keys never depend on a third party's
// numbering scheme.
type User struct {
	ID           string    `json:"id"`
	GoogleID     string    `json:"-"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    string    `json:"avatarUrl"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
