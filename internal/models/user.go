package models

import "time"

// User is a registered account as seen by the friend graph.
type User struct {
	ID          string     `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	AvatarURL   string     `db:"avatar_url" json:"avatar_url"`
	PushToken   string     `db:"push_token" json:"-"`
	IsAdmin     bool       `db:"is_admin" json:"is_admin"`
	BannedUntil *time.Time `db:"banned_until" json:"banned_until,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// BannedAt reports whether the user is under a ban at the given instant.
func (u User) BannedAt(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

// Profile returns the public part of the user.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, DisplayName: u.Username, AvatarURL: u.AvatarURL}
}

// Profile is the display data other users get to see.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}
