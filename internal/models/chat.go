package models

import "time"

// Chat represents a private chat between exactly two users. User1ID sorts
// before User2ID so one row exists per unordered pair.
type Chat struct {
	ID        int64     `db:"id" json:"id"`
	User1ID   string    `db:"user1_id" json:"user1_id"`
	User2ID   string    `db:"user2_id" json:"user2_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
