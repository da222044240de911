package models

import (
	"time"

	"github.com/lib/pq"
)

// RelationshipStatus is the persisted state of a friend relationship.
// A missing row means the pair has no relationship at all.
type RelationshipStatus string

const (
	StatusPending  RelationshipStatus = "pending"
	StatusAccepted RelationshipStatus = "accepted"
)

// Side names one of the two attribute slots of a relationship row.
type Side string

const (
	SideInitiator Side = "initiator"
	SideRecipient Side = "recipient"
)

// Valid reports whether s is a known slot.
func (s Side) Valid() bool {
	return s == SideInitiator || s == SideRecipient
}

// Relationship is the single row describing a pair of users. The initiator
// created it; each side owns a private attribute list about the other.
type Relationship struct {
	ID                  int64              `db:"id" json:"id"`
	InitiatorID         string             `db:"initiator_id" json:"initiator_id"`
	RecipientID         string             `db:"recipient_id" json:"recipient_id"`
	Status              RelationshipStatus `db:"status" json:"status"`
	InitiatorAttributes pq.Int64Array      `db:"initiator_attributes" json:"-"`
	RecipientAttributes pq.Int64Array      `db:"recipient_attributes" json:"-"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `db:"updated_at" json:"updated_at"`
}

// Involves reports whether userID is either party.
func (r Relationship) Involves(userID string) bool {
	return r.InitiatorID == userID || r.RecipientID == userID
}

// OtherParty returns the id of the party that is not userID.
func (r Relationship) OtherParty(userID string) string {
	if r.InitiatorID == userID {
		return r.RecipientID
	}
	return r.InitiatorID
}

// SlotFor returns the slot holding userID's labels for the other party.
func (r Relationship) SlotFor(userID string) (Side, bool) {
	switch userID {
	case r.InitiatorID:
		return SideInitiator, true
	case r.RecipientID:
		return SideRecipient, true
	}
	return "", false
}

// SideUser returns the user that owns the given slot.
func (r Relationship) SideUser(side Side) string {
	if side == SideInitiator {
		return r.InitiatorID
	}
	return r.RecipientID
}

// Attributes returns the attribute ids stored in the given slot.
func (r Relationship) Attributes(side Side) []int64 {
	if side == SideInitiator {
		return r.InitiatorAttributes
	}
	return r.RecipientAttributes
}

// AttributesOf returns userID's own labels on this relationship, or nil when
// userID is not a party.
func (r Relationship) AttributesOf(userID string) []int64 {
	side, ok := r.SlotFor(userID)
	if !ok {
		return nil
	}
	return r.Attributes(side)
}
