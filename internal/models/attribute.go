package models

import "time"

// Attribute is a label a user created to tag their own friends.
type Attribute struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendView is one entry of a filtered friend list.
type FriendView struct {
	RelationshipID int64    `json:"relationship_id"`
	UserID         string   `json:"user_id"`
	DisplayName    string   `json:"display_name"`
	AvatarURL      string   `json:"avatar_url"`
	Labels         []string `json:"labels"`
	Overflow       bool     `json:"overflow"`
}

// RequestView is one entry of an incoming or outgoing request list.
type RequestView struct {
	RelationshipID int64     `json:"relationship_id"`
	UserID         string    `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
}
